package checkout

import (
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PendingSale remembers the backend sale created for the current attempt, so a
// retried submission reuses it, and how much was already recorded per method.
type PendingSale struct {
	ID       *int64
	Recorded map[enum.PaymentMethod]decimal.Decimal
}

func (p PendingSale) Exists() bool {
	return p.ID != nil
}

// Outstanding returns, per tender, the part not yet recorded at the backend.
func (p PendingSale) Outstanding(tenders Tenders) []Tender {
	var out []Tender
	for _, t := range tenders.List() {
		diff := t.Amount.Sub(p.Recorded[t.Method])
		if diff.IsPositive() {
			out = append(out, Tender{Method: t.Method, Amount: diff})
		}
	}
	return out
}

func (p PendingSale) withRecorded(method enum.PaymentMethod, amount decimal.Decimal) PendingSale {
	rec := make(map[enum.PaymentMethod]decimal.Decimal, len(p.Recorded)+1)
	for m, a := range p.Recorded {
		rec[m] = a
	}
	rec[method] = rec[method].Add(amount)
	return PendingSale{ID: p.ID, Recorded: rec}
}

// State is the whole checkout of one terminal session. It is a value: Apply
// never mutates its input.
type State struct {
	Catalog        Catalog
	Cart           Cart
	Discount       *AppliedDiscount
	Customer       *entity.Customer
	PointsToRedeem int
	Tenders        Tenders
	Pending        PendingSale
	Stage          enum.CheckoutStage
	// Reservation is the optimistic stock decrement in flight during completion.
	Reservation *StockAdjustment
}

// Totals resolves the current order totals.
func (s State) Totals() Totals {
	return Resolve(s.Cart, s.Discount, s.PointsToRedeem)
}

// Change is totalPaid minus total.
func (s State) Change() decimal.Decimal {
	return s.Tenders.Change(s.Totals().Total)
}

// Event is a checkout transition.
type Event interface {
	apply(State) (State, error)
}

// Apply returns the state after e. On error the original state is returned.
func Apply(s State, e Event) (State, error) {
	next, err := e.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}

// CatalogLoaded replaces the catalog snapshot and re-points the cart at it.
type CatalogLoaded struct {
	Products []entity.Product
}

func (e CatalogLoaded) apply(s State) (State, error) {
	s.Catalog = NewCatalog(e.Products)
	s.Cart = s.Cart.WithCatalog(s.Catalog)
	return s, nil
}

// ScanProduct adds one unit of a product resolved by barcode, refreshing its
// catalog entry first.
type ScanProduct struct {
	Product entity.Product
}

func (e ScanProduct) apply(s State) (State, error) {
	s.Catalog = s.Catalog.Upsert(e.Product)
	cart, err := s.Cart.AddProduct(e.Product)
	if err != nil {
		return s, err
	}
	s.Cart = cart
	return s, nil
}

// AddProduct adds one unit of a catalog product.
type AddProduct struct {
	ProductID int64
}

func (e AddProduct) apply(s State) (State, error) {
	p, ok := s.Catalog.Product(e.ProductID)
	if !ok {
		return s, productNotFound(e.ProductID)
	}
	cart, err := s.Cart.AddProduct(p)
	if err != nil {
		return s, err
	}
	s.Cart = cart
	return s, nil
}

type SetQuantity struct {
	ProductID int64
	Quantity  int
}

func (e SetQuantity) apply(s State) (State, error) {
	cart, err := s.Cart.SetQuantity(e.ProductID, e.Quantity)
	if err != nil {
		return s, err
	}
	s.Cart = cart
	return s, nil
}

type RemoveProduct struct {
	ProductID int64
}

func (e RemoveProduct) apply(s State) (State, error) {
	s.Cart = s.Cart.RemoveProduct(e.ProductID)
	return s, nil
}

// ApplyDiscount replaces any active discount with an already validated one.
type ApplyDiscount struct {
	Discount AppliedDiscount
}

func (e ApplyDiscount) apply(s State) (State, error) {
	d := e.Discount
	s.Discount = &d
	return s, nil
}

type RemoveDiscount struct{}

func (RemoveDiscount) apply(s State) (State, error) {
	s.Discount = nil
	return s, nil
}

// SelectCustomer attaches a loyalty customer. Points chosen for a previous
// customer do not carry over.
type SelectCustomer struct {
	Customer entity.Customer
}

func (e SelectCustomer) apply(s State) (State, error) {
	c := e.Customer
	s.Customer = &c
	s.PointsToRedeem = 0
	return s, nil
}

type ClearCustomer struct{}

func (ClearCustomer) apply(s State) (State, error) {
	s.Customer = nil
	s.PointsToRedeem = 0
	return s, nil
}

// RedeemPoints sets the points to redeem, bounded by what the customer holds.
type RedeemPoints struct {
	Points int
}

func (e RedeemPoints) apply(s State) (State, error) {
	points := e.Points
	available := 0
	if s.Customer != nil {
		available = s.Customer.TotalPoints
	}
	if points > available {
		points = available
	}
	if points < 0 {
		points = 0
	}
	s.PointsToRedeem = points
	return s, nil
}

// AddPayment takes a tender. Amount is required for cash and ignored otherwise.
type AddPayment struct {
	Method enum.PaymentMethod
	Amount *decimal.Decimal
}

func (e AddPayment) apply(s State) (State, error) {
	tenders, err := s.Tenders.Add(e.Method, e.Amount, s.Totals().Total)
	if err != nil {
		return s, err
	}
	s.Tenders = tenders
	return s, nil
}

type RemovePayment struct {
	Method enum.PaymentMethod
}

func (e RemovePayment) apply(s State) (State, error) {
	s.Tenders = s.Tenders.Remove(e.Method)
	return s, nil
}

// SaleCreated stores the id of a sale the backend just created.
type SaleCreated struct {
	SaleID int64
}

func (e SaleCreated) apply(s State) (State, error) {
	if s.Stage != enum.CheckoutStageIdle || s.Pending.Exists() {
		return s, &transitionError{event: "SaleCreated", stage: s.Stage}
	}
	id := e.SaleID
	s.Pending = PendingSale{ID: &id}
	s.Stage = enum.CheckoutStageSaleCreated
	return s, nil
}

// SaleResumed re-enters the sequence with the sale kept from a failed attempt.
type SaleResumed struct{}

func (SaleResumed) apply(s State) (State, error) {
	if s.Stage != enum.CheckoutStageIdle || !s.Pending.Exists() {
		return s, &transitionError{event: "SaleResumed", stage: s.Stage}
	}
	s.Stage = enum.CheckoutStageSaleCreated
	return s, nil
}

// PaymentRecorded notes a tender amount the backend accepted.
type PaymentRecorded struct {
	Method enum.PaymentMethod
	Amount decimal.Decimal
}

func (e PaymentRecorded) apply(s State) (State, error) {
	if s.Stage != enum.CheckoutStageSaleCreated {
		return s, &transitionError{event: "PaymentRecorded", stage: s.Stage}
	}
	s.Pending = s.Pending.withRecorded(e.Method, e.Amount)
	return s, nil
}

type PaymentsRecorded struct{}

func (PaymentsRecorded) apply(s State) (State, error) {
	if s.Stage != enum.CheckoutStageSaleCreated {
		return s, &transitionError{event: "PaymentsRecorded", stage: s.Stage}
	}
	s.Stage = enum.CheckoutStagePaymentsRecorded
	return s, nil
}

// StockReserved applies the optimistic decrement ahead of completion.
type StockReserved struct {
	Adjustment StockAdjustment
}

func (e StockReserved) apply(s State) (State, error) {
	if s.Stage != enum.CheckoutStagePaymentsRecorded || s.Reservation != nil {
		return s, &transitionError{event: "StockReserved", stage: s.Stage}
	}
	adj := e.Adjustment
	s.Catalog = adj.Apply(s.Catalog)
	s.Cart = s.Cart.WithCatalog(s.Catalog)
	s.Reservation = &adj
	return s, nil
}

// StockReleased undoes the reservation, if one is in flight.
type StockReleased struct{}

func (StockReleased) apply(s State) (State, error) {
	return s.release(), nil
}

// SaleCompleted marks the sale finished. A non-nil Products replaces the
// catalog with the backend's authoritative stock.
type SaleCompleted struct {
	Products []entity.Product
}

func (e SaleCompleted) apply(s State) (State, error) {
	if s.Stage != enum.CheckoutStagePaymentsRecorded {
		return s, &transitionError{event: "SaleCompleted", stage: s.Stage}
	}
	if e.Products != nil {
		s.Catalog = NewCatalog(e.Products)
	}
	s.Reservation = nil
	s.Stage = enum.CheckoutStageSaleCompleted
	return s, nil
}

// SubmissionFailed returns to Idle, keeping cart, tenders and the pending sale.
type SubmissionFailed struct{}

func (SubmissionFailed) apply(s State) (State, error) {
	s = s.release()
	s.Stage = enum.CheckoutStageIdle
	return s, nil
}

// Reset clears everything but the catalog for the next customer.
type Reset struct{}

func (Reset) apply(s State) (State, error) {
	return State{Catalog: s.Catalog}, nil
}

func (s State) release() State {
	if s.Reservation == nil {
		return s
	}
	s.Catalog = s.Reservation.Undo(s.Catalog)
	s.Cart = s.Cart.WithCatalog(s.Catalog)
	s.Reservation = nil
	return s
}
