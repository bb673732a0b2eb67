package checkout

import (
	"testing"

	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, s State, events ...Event) State {
	t.Helper()
	for _, e := range events {
		var err error
		s, err = Apply(s, e)
		require.NoError(t, err, "%T", e)
	}
	return s
}

func loadedState(t *testing.T) State {
	return apply(t, State{}, CatalogLoaded{Products: []entity.Product{productA(), productB()}})
}

func TestApply_CheckoutWalkthrough(t *testing.T) {
	s := apply(t, loadedState(t),
		AddProduct{ProductID: 1},
		ApplyDiscount{Discount: AppliedDiscount{Code: "TEN", Kind: enum.DiscountTypePercentage, Value: dec("10")}},
		AddPayment{Method: enum.PaymentMethodCash, Amount: decPtr("90")},
	)

	totals := s.Totals()
	assertDecimal(t, "90", totals.Total)
	assertDecimal(t, "90", s.Tenders.TotalPaid())
	assertDecimal(t, "0", s.Change())
}

func TestApply_ScanSixTimesWithStockFive(t *testing.T) {
	s := loadedState(t)
	for i := 0; i < 5; i++ {
		s = apply(t, s, ScanProduct{Product: productA()})
	}

	next, err := Apply(s, ScanProduct{Product: productA()})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInsufficientStock, apperror.KindOf(err))

	line, _ := next.Cart.Line(1)
	assert.Equal(t, 5, line.Quantity)
}

func TestApply_UnknownProduct(t *testing.T) {
	_, err := Apply(loadedState(t), AddProduct{ProductID: 77})
	require.Error(t, err)
	assert.Equal(t, apperror.KindProductNotFound, apperror.KindOf(err))
}

func TestApply_RedeemPointsBoundedByCustomer(t *testing.T) {
	s := apply(t, loadedState(t), RedeemPoints{Points: 40})
	assert.Equal(t, 0, s.PointsToRedeem)

	s = apply(t, s,
		SelectCustomer{Customer: entity.Customer{ID: 7, Name: "Wanjiru", TotalPoints: 30}},
		RedeemPoints{Points: 40},
	)
	assert.Equal(t, 30, s.PointsToRedeem)

	s = apply(t, s, RedeemPoints{Points: -3})
	assert.Equal(t, 0, s.PointsToRedeem)

	s = apply(t, s, RedeemPoints{Points: 10}, ClearCustomer{})
	assert.Nil(t, s.Customer)
	assert.Equal(t, 0, s.PointsToRedeem)
}

func TestApply_SubmissionStages(t *testing.T) {
	s := apply(t, loadedState(t),
		AddProduct{ProductID: 1},
		AddProduct{ProductID: 1},
		AddPayment{Method: enum.PaymentMethodCard},
	)

	_, err := Apply(s, PaymentsRecorded{})
	require.Error(t, err, "payments cannot be recorded before a sale exists")

	s = apply(t, s,
		SaleCreated{SaleID: 501},
		PaymentRecorded{Method: enum.PaymentMethodCard, Amount: dec("200")},
		PaymentsRecorded{},
	)
	assert.Equal(t, enum.CheckoutStagePaymentsRecorded, s.Stage)

	s = apply(t, s, StockReserved{Adjustment: NewStockDecrement(s.Catalog, s.Cart.Lines())})
	a, _ := s.Catalog.Product(1)
	assert.Equal(t, 3, a.StockQuantity)

	refreshed := productA()
	refreshed.StockQuantity = 2
	s = apply(t, s, SaleCompleted{Products: []entity.Product{refreshed, productB()}})
	assert.Equal(t, enum.CheckoutStageSaleCompleted, s.Stage)
	assert.Nil(t, s.Reservation)

	s = apply(t, s, Reset{})
	assert.True(t, s.Cart.IsEmpty())
	assert.Equal(t, 0, s.Tenders.Len())
	assert.False(t, s.Pending.Exists())
	assert.Equal(t, enum.CheckoutStageIdle, s.Stage)
	a, _ = s.Catalog.Product(1)
	assert.Equal(t, 2, a.StockQuantity)
}

func TestApply_FailedCompletionRollsBackStock(t *testing.T) {
	s := apply(t, loadedState(t),
		AddProduct{ProductID: 1},
		AddProduct{ProductID: 1},
		AddPayment{Method: enum.PaymentMethodCash, Amount: decPtr("200")},
		SaleCreated{SaleID: 9},
		PaymentRecorded{Method: enum.PaymentMethodCash, Amount: dec("200")},
		PaymentsRecorded{},
	)
	s = apply(t, s, StockReserved{Adjustment: NewStockDecrement(s.Catalog, s.Cart.Lines())})

	s = apply(t, s, SubmissionFailed{})

	a, _ := s.Catalog.Product(1)
	assert.Equal(t, 5, a.StockQuantity)
	assert.Equal(t, enum.CheckoutStageIdle, s.Stage)
	require.True(t, s.Pending.Exists())
	assert.Equal(t, int64(9), *s.Pending.ID)
	assert.Equal(t, 1, s.Tenders.Len())
	line, _ := s.Cart.Line(1)
	assert.Equal(t, 2, line.Quantity)

	resumed := apply(t, s, SaleResumed{})
	assert.Equal(t, enum.CheckoutStageSaleCreated, resumed.Stage)
	assert.Empty(t, resumed.Pending.Outstanding(resumed.Tenders))

	_, err := Apply(s, SaleCreated{SaleID: 10})
	assert.Error(t, err, "a second sale must not replace the pending one")
}

func TestPendingSale_OutstandingPerMethod(t *testing.T) {
	s := apply(t, loadedState(t),
		AddProduct{ProductID: 1},
		AddPayment{Method: enum.PaymentMethodCash, Amount: decPtr("40")},
		AddPayment{Method: enum.PaymentMethodMobileMoney},
		SaleCreated{SaleID: 3},
		PaymentRecorded{Method: enum.PaymentMethodCash, Amount: dec("40")},
	)

	outstanding := s.Pending.Outstanding(s.Tenders)
	require.Len(t, outstanding, 1)
	assert.Equal(t, enum.PaymentMethodMobileMoney, outstanding[0].Method)
	assertDecimal(t, "60", outstanding[0].Amount)
}
