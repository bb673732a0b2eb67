package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/investify-pos/internal/domain/checkout"
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Banner is a cashier-facing error message. Transient banners carry an expiry
// and disappear on their own.
type Banner struct {
	ID        uuid.UUID     `json:"id"`
	Kind      apperror.Kind `json:"kind"`
	Message   string        `json:"message"`
	Details   interface{}   `json:"details,omitempty"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
}

type LineView struct {
	ProductID      int64           `json:"product_id"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	StockAvailable int             `json:"stock_available"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LineDiscount   decimal.Decimal `json:"line_discount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type TotalsView struct {
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	PointsDiscount     decimal.Decimal `json:"points_discount"`
	DiscountedSubtotal decimal.Decimal `json:"discounted_subtotal"`
	Tax                decimal.Decimal `json:"tax"`
	Total              decimal.Decimal `json:"total"`
}

type DiscountView struct {
	Code  string            `json:"code"`
	Type  enum.DiscountType `json:"type"`
	Value decimal.Decimal   `json:"value"`
}

type TenderView struct {
	Method enum.PaymentMethod `json:"method"`
	Amount decimal.Decimal    `json:"amount"`
}

// View is the read model of a session pushed to the till UI.
type View struct {
	SessionID      uuid.UUID          `json:"session_id"`
	Version        uint64             `json:"version"`
	Stage          enum.CheckoutStage `json:"stage"`
	Lines          []LineView         `json:"lines"`
	ItemCount      int                `json:"item_count"`
	Totals         TotalsView         `json:"totals"`
	Discount       *DiscountView      `json:"discount,omitempty"`
	Customer       *entity.Customer   `json:"customer,omitempty"`
	PointsToRedeem int                `json:"points_to_redeem"`
	Tenders        []TenderView       `json:"tenders"`
	TotalPaid      decimal.Decimal    `json:"total_paid"`
	Change         decimal.Decimal    `json:"change"`
	CanSubmit      bool               `json:"can_submit"`
	Submitting     bool               `json:"submitting"`
	PendingSaleID  *int64             `json:"pending_sale_id,omitempty"`
	Banner         *Banner            `json:"banner,omitempty"`
	// Refocus asks the UI to put the cursor back in the barcode field.
	Refocus     bool            `json:"refocus"`
	LastReceipt *entity.Receipt `json:"last_receipt,omitempty"`
}

func buildView(id uuid.UUID, version uint64, s checkout.State) View {
	totals := s.Totals()
	v := View{
		SessionID: id,
		Version:   version,
		Stage:     s.Stage,
		Lines:     make([]LineView, 0, s.Cart.Len()),
		ItemCount: s.Cart.Items(),
		Totals: TotalsView{
			Subtotal:           totals.Subtotal,
			DiscountAmount:     totals.DiscountAmount,
			PointsDiscount:     totals.PointsDiscount,
			DiscountedSubtotal: totals.DiscountedSubtotal,
			Tax:                totals.Tax,
			Total:              totals.Total,
		},
		PointsToRedeem: s.PointsToRedeem,
		Tenders:        make([]TenderView, 0, s.Tenders.Len()),
		TotalPaid:      s.Tenders.TotalPaid(),
		Change:         s.Tenders.Change(totals.Total),
	}
	for _, l := range s.Cart.Lines() {
		v.Lines = append(v.Lines, LineView{
			ProductID:      l.Product.ID,
			Name:           l.Product.Name,
			Quantity:       l.Quantity,
			StockAvailable: l.Product.StockQuantity,
			UnitPrice:      l.UnitPrice,
			LineDiscount:   l.LineDiscount,
			Subtotal:       l.Subtotal(),
		})
	}
	for _, t := range s.Tenders.List() {
		v.Tenders = append(v.Tenders, TenderView{Method: t.Method, Amount: t.Amount})
	}
	if s.Discount != nil {
		v.Discount = &DiscountView{Code: s.Discount.Code, Type: s.Discount.Kind, Value: s.Discount.Value}
	}
	if s.Customer != nil {
		c := *s.Customer
		v.Customer = &c
	}
	if s.Pending.Exists() {
		id := *s.Pending.ID
		v.PendingSaleID = &id
	}
	v.CanSubmit = !s.Cart.IsEmpty() && !v.Change.IsNegative()
	return v
}
