package checkout

import (
	"fmt"

	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/pkg/apperror"
)

func outOfStock(p entity.Product) error {
	return apperror.NewCheckoutError(apperror.KindOutOfStock,
		fmt.Sprintf("%s is out of stock", p.Name))
}

func insufficientStock(p entity.Product) error {
	return apperror.NewCheckoutError(apperror.KindInsufficientStock,
		fmt.Sprintf("Insufficient stock for %s. Maximum available: %d", p.Name, p.StockQuantity))
}

func productNotFound(id int64) error {
	return apperror.NewCheckoutError(apperror.KindProductNotFound,
		fmt.Sprintf("Product %d not found", id))
}

func invalidPaymentAmount(method enum.PaymentMethod) error {
	return apperror.NewCheckoutError(apperror.KindInvalidPayment,
		fmt.Sprintf("Enter a positive amount for %s payment", method))
}

func unknownPaymentMethod(method enum.PaymentMethod) error {
	return apperror.NewCheckoutError(apperror.KindInvalidPayment,
		fmt.Sprintf("Unsupported payment method %d", int(method)))
}

// transitionError is returned when a lifecycle event arrives in the wrong stage.
type transitionError struct {
	event string
	stage enum.CheckoutStage
}

func (e *transitionError) Error() string {
	return fmt.Sprintf("checkout: %s not allowed in stage %s", e.event, e.stage)
}
