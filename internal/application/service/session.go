package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/investify-pos/internal/domain/checkout"
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/internal/domain/repository"
	"github.com/sangkips/investify-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	ErrSessionClosed        = apperror.NewAppError(http.StatusGone, "Checkout session is closed")
	ErrSubmissionInProgress = apperror.NewCheckoutError(apperror.KindSubmissionInProgress, "A sale is being submitted")
)

// transientKinds disappear after the banner TTL; the rest stay until dismissed.
var transientKinds = map[apperror.Kind]bool{
	apperror.KindOutOfStock:          true,
	apperror.KindInsufficientStock:   true,
	apperror.KindInvalidDiscountCode: true,
	apperror.KindCustomerNotFound:    true,
	apperror.KindProductNotFound:     true,
	apperror.KindInvalidPayment:      true,
	apperror.KindEmptyCart:           true,
	apperror.KindInsufficientPayment: true,
}

// Cashier is the authenticated user driving a session.
type Cashier struct {
	ID     uuid.UUID
	Name   string
	Branch string
}

type sessionDeps struct {
	catalog   repository.CatalogService
	customers repository.CustomerService
	discounts repository.DiscountService
	sequencer *SubmissionSequencer
	bannerTTL time.Duration
	onBanner  func(apperror.Kind)
	log       zerolog.Logger
}

// Session is one till tab's checkout. Commands run one at a time; reads
// (Snapshot, Subscribe) never wait for a command, including a submission.
type Session struct {
	ID       uuid.UUID
	Cashier  Cashier
	OpenedAt time.Time

	deps *sessionDeps

	// op serializes commands
	op sync.Mutex

	mu           sync.Mutex
	state        checkout.State
	version      uint64
	banner       *Banner
	bannerTimer  *time.Timer
	refocus      bool
	submitting   bool
	closed       bool
	lastActivity time.Time
	lastReceipt  *entity.Receipt
	subscribers  map[chan View]struct{}
}

func newSession(cashier Cashier, products []entity.Product, deps *sessionDeps) *Session {
	now := time.Now()
	s := &Session{
		ID:           uuid.New(),
		Cashier:      cashier,
		OpenedAt:     now,
		deps:         deps,
		lastActivity: now,
		subscribers:  make(map[chan View]struct{}),
	}
	s.state, _ = checkout.Apply(checkout.State{}, checkout.CatalogLoaded{Products: products})
	return s
}

// Snapshot returns the current view.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// State returns the current checkout state.
func (s *Session) State() checkout.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe streams views, starting with the current one. Slow readers only
// ever see the latest view. The channel is closed when the session closes or
// cancel is called.
func (s *Session) Subscribe() (<-chan View, func()) {
	ch := make(chan View, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	ch <- s.viewLocked()
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subscribers[ch]; ok {
				delete(s.subscribers, ch)
				close(ch)
			}
		})
	}
}

// Products searches the session's catalog snapshot.
func (s *Session) Products(query string) []entity.Product {
	return s.State().Catalog.Search(query)
}

// RefreshCatalog reloads the branch catalog from the backend.
func (s *Session) RefreshCatalog(ctx context.Context) error {
	done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	products, err := s.deps.catalog.GetProducts(ctx, repository.ProductFilter{Branch: s.Cashier.Branch})
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	return s.apply(checkout.CatalogLoaded{Products: products})
}

// ScanBarcode resolves code at the backend and adds one unit.
func (s *Session) ScanBarcode(ctx context.Context, code string) error {
	done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	code = strings.TrimSpace(code)
	product, err := s.deps.catalog.LookupByBarcode(ctx, code, s.Cashier.Branch)
	if err != nil {
		s.deps.log.Warn().Err(err).Str("barcode", code).Msg("barcode lookup failed")
		return s.raise(apperror.NewCheckoutError(apperror.KindProductNotFound,
			fmt.Sprintf("Could not look up barcode %s", code)))
	}
	if product == nil {
		return s.raise(apperror.NewCheckoutError(apperror.KindProductNotFound,
			fmt.Sprintf("No product with barcode %s", code)))
	}
	return s.apply(checkout.ScanProduct{Product: *product})
}

func (s *Session) AddProduct(productID int64) error {
	return s.command(checkout.AddProduct{ProductID: productID})
}

func (s *Session) SetQuantity(productID int64, quantity int) error {
	return s.command(checkout.SetQuantity{ProductID: productID, Quantity: quantity})
}

func (s *Session) RemoveProduct(productID int64) error {
	return s.command(checkout.RemoveProduct{ProductID: productID})
}

// ApplyDiscountCode validates code at the backend and makes it the active
// discount. Any failure reads as an invalid code and leaves the state alone.
func (s *Session) ApplyDiscountCode(ctx context.Context, code string) error {
	done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	code = strings.TrimSpace(code)
	if code == "" {
		return s.raise(apperror.ErrInvalidDiscountCode)
	}
	validation, err := s.deps.discounts.ValidateCode(ctx, code)
	if err != nil || validation == nil {
		if err != nil {
			s.deps.log.Debug().Err(err).Str("code", code).Msg("discount code rejected")
		}
		return s.raise(apperror.ErrInvalidDiscountCode)
	}
	applied := checkout.AppliedDiscount{
		Code:  code,
		Kind:  validation.DiscountType,
		Value: validation.Value,
	}
	if validation.Code != "" {
		applied.Code = validation.Code
	}
	return s.apply(checkout.ApplyDiscount{Discount: applied})
}

func (s *Session) RemoveDiscount() error {
	return s.command(checkout.RemoveDiscount{})
}

// LookupCustomer attaches the loyalty customer with this phone number.
func (s *Session) LookupCustomer(ctx context.Context, phone string) error {
	done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	customer, err := s.deps.customers.LookupByPhone(ctx, phone)
	if err != nil {
		s.deps.log.Warn().Err(err).Msg("customer lookup failed")
	}
	if err != nil || customer == nil {
		return s.raise(apperror.NewCheckoutError(apperror.KindCustomerNotFound, "Customer not found"))
	}
	return s.apply(checkout.SelectCustomer{Customer: *customer})
}

func (s *Session) ClearCustomer() error {
	return s.command(checkout.ClearCustomer{})
}

func (s *Session) RedeemPoints(points int) error {
	return s.command(checkout.RedeemPoints{Points: points})
}

func (s *Session) AddPayment(method enum.PaymentMethod, amount *decimal.Decimal) error {
	return s.command(checkout.AddPayment{Method: method, Amount: amount})
}

func (s *Session) RemovePayment(method enum.PaymentMethod) error {
	return s.command(checkout.RemovePayment{Method: method})
}

// Submit runs the submission sequence. Commands arriving meanwhile are refused.
func (s *Session) Submit(ctx context.Context, notes string) (*SubmissionResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	s.submitting = true
	s.lastActivity = time.Now()
	s.publishLocked()
	s.mu.Unlock()

	s.op.Lock()
	defer s.op.Unlock()

	state := s.State()
	sc := SubmissionContext{
		SessionID: s.ID,
		CashierID: s.Cashier.ID,
		Cashier:   s.Cashier.Name,
		Branch:    s.Cashier.Branch,
		Notes:     notes,
	}
	next, result, err := s.deps.sequencer.Submit(ctx, sc, state)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	s.state = next
	s.lastActivity = time.Now()
	if err != nil {
		s.setBannerLocked(err)
		s.publishLocked()
		return nil, err
	}
	s.lastReceipt = result.Receipt
	s.refocus = true
	s.clearBannerLocked()
	s.publishLocked()
	return result, nil
}

// DismissBanner clears the current banner.
func (s *Session) DismissBanner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.banner == nil {
		return
	}
	s.clearBannerLocked()
	s.publishLocked()
}

// HasPendingSale reports whether a backend sale was created but not completed.
func (s *Session) HasPendingSale() bool {
	return s.State().Pending.Exists()
}

// Submitting reports whether a submission is running.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// IdleSince returns the time of the last command.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.bannerTimer != nil {
		s.bannerTimer.Stop()
	}
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) begin() (func(), error) {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return nil, ErrSessionClosed
	case s.submitting:
		s.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	s.mu.Unlock()

	s.op.Lock()
	return s.op.Unlock, nil
}

func (s *Session) command(e checkout.Event) error {
	done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()
	return s.apply(e)
}

func (s *Session) apply(e checkout.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActivity = time.Now()
	next, err := checkout.Apply(s.state, e)
	if err != nil {
		s.setBannerLocked(err)
		s.publishLocked()
		return err
	}
	s.state = next
	s.refocus = false
	s.publishLocked()
	return nil
}

// raise shows err as a banner without touching the checkout state.
func (s *Session) raise(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
	s.setBannerLocked(err)
	s.publishLocked()
	return err
}

func (s *Session) setBannerLocked(err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Kind == "" {
		s.deps.log.Error().Err(err).Str("session_id", s.ID.String()).Msg("checkout command failed")
		return
	}

	s.clearBannerLocked()
	b := &Banner{
		ID:      uuid.New(),
		Kind:    appErr.Kind,
		Message: appErr.Message,
		Details: appErr.Details,
	}
	if transientKinds[appErr.Kind] && s.deps.bannerTTL > 0 {
		expires := time.Now().Add(s.deps.bannerTTL)
		b.ExpiresAt = &expires
		id := b.ID
		s.bannerTimer = time.AfterFunc(s.deps.bannerTTL, func() { s.expireBanner(id) })
	}
	s.banner = b
	if s.deps.onBanner != nil {
		s.deps.onBanner(appErr.Kind)
	}
}

func (s *Session) clearBannerLocked() {
	if s.bannerTimer != nil {
		s.bannerTimer.Stop()
		s.bannerTimer = nil
	}
	s.banner = nil
}

func (s *Session) expireBanner(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.banner == nil || s.banner.ID != id {
		return
	}
	s.banner = nil
	s.bannerTimer = nil
	s.publishLocked()
}

func (s *Session) viewLocked() View {
	v := buildView(s.ID, s.version, s.state)
	v.Submitting = s.submitting
	v.Refocus = s.refocus
	v.LastReceipt = s.lastReceipt
	if s.banner != nil {
		b := *s.banner
		v.Banner = &b
	}
	if s.submitting {
		v.CanSubmit = false
	}
	return v
}

func (s *Session) publishLocked() {
	s.version++
	if len(s.subscribers) == 0 {
		return
	}
	v := s.viewLocked()
	for ch := range s.subscribers {
		select {
		case ch <- v:
		default:
			// drop the stale view the reader has not picked up yet
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}
