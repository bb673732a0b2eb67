package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/investify-pos/internal/domain/repository"
	"github.com/sangkips/investify-pos/internal/metrics"
	"github.com/sangkips/investify-pos/pkg/apperror"
)

var (
	ErrSessionNotFound  = apperror.NewNotFoundError("Checkout session")
	ErrSessionForbidden = apperror.NewAppError(http.StatusForbidden, "Checkout session belongs to another cashier")
)

// CheckoutConfig tunes session behaviour.
type CheckoutConfig struct {
	// Branch is used when the cashier's token names none.
	Branch    string
	BannerTTL time.Duration
	IdleTTL   time.Duration
}

// CheckoutService owns the open checkout sessions of this terminal.
type CheckoutService struct {
	catalog   repository.CatalogService
	customers repository.CustomerService
	discounts repository.DiscountService
	sequencer *SubmissionSequencer
	journal   repository.PendingSaleRepository
	metrics   *metrics.CheckoutMetrics
	cfg       CheckoutConfig
	log       zerolog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

type CheckoutDeps struct {
	Catalog   repository.CatalogService
	Customers repository.CustomerService
	Discounts repository.DiscountService
	Sequencer *SubmissionSequencer
	Journal   repository.PendingSaleRepository
	Metrics   *metrics.CheckoutMetrics
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(deps CheckoutDeps, cfg CheckoutConfig, log zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		catalog:   deps.Catalog,
		customers: deps.Customers,
		discounts: deps.Discounts,
		sequencer: deps.Sequencer,
		journal:   deps.Journal,
		metrics:   deps.Metrics,
		cfg:       cfg,
		log:       log.With().Str("component", "checkout").Logger(),
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// OpenSession starts an empty checkout with a fresh catalog snapshot.
func (s *CheckoutService) OpenSession(ctx context.Context, cashier Cashier) (*Session, error) {
	if cashier.Branch == "" {
		cashier.Branch = s.cfg.Branch
	}

	products, err := s.catalog.GetProducts(ctx, repository.ProductFilter{Branch: cashier.Branch})
	if err != nil {
		s.log.Error().Err(err).Str("branch", cashier.Branch).Msg("catalog load failed")
		return nil, apperror.NewAppError(http.StatusBadGateway, "Could not load product catalog").WithDetails(errorDetails(err))
	}

	session := newSession(cashier, products, &sessionDeps{
		catalog:   s.catalog,
		customers: s.customers,
		discounts: s.discounts,
		sequencer: s.sequencer,
		bannerTTL: s.cfg.BannerTTL,
		onBanner:  func(k apperror.Kind) { s.metrics.RecordBanner(string(k)) },
		log:       s.log,
	})

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	s.metrics.SessionOpened()

	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("cashier_id", cashier.ID.String()).
		Str("branch", cashier.Branch).
		Int("products", len(products)).
		Msg("checkout session opened")
	return session, nil
}

// GetSession returns the session if cashierID owns it.
func (s *CheckoutService) GetSession(id, cashierID uuid.UUID) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Cashier.ID != cashierID {
		return nil, ErrSessionForbidden
	}
	return session, nil
}

// CloseSession drops the session. A sale created but never completed is
// flagged abandoned in the journal; it is not voided at the backend.
// Sessions in the middle of a submission cannot be closed.
func (s *CheckoutService) CloseSession(ctx context.Context, id, cashierID uuid.UUID) error {
	session, err := s.GetSession(id, cashierID)
	if err != nil {
		return err
	}
	if session.Submitting() {
		return ErrSubmissionInProgress
	}
	s.remove(ctx, session, "closed")
	return nil
}

// SweepIdle closes sessions without activity for longer than the idle TTL.
func (s *CheckoutService) SweepIdle(ctx context.Context) int {
	if s.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-s.cfg.IdleTTL)

	s.mu.RLock()
	var idle []*Session
	for _, session := range s.sessions {
		if !session.Submitting() && session.IdleSince().Before(cutoff) {
			idle = append(idle, session)
		}
	}
	s.mu.RUnlock()

	for _, session := range idle {
		s.remove(ctx, session, "idle")
	}
	return len(idle)
}

// RunSweeper sweeps idle sessions every interval until ctx is done.
func (s *CheckoutService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.SweepIdle(ctx); n > 0 {
				s.log.Info().Int("sessions", n).Msg("idle checkout sessions closed")
			}
		}
	}
}

// OpenSessions returns the number of open sessions.
func (s *CheckoutService) OpenSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown closes every session and waits for receipt prints in flight.
func (s *CheckoutService) Shutdown(ctx context.Context) {
	s.mu.RLock()
	all := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		all = append(all, session)
	}
	s.mu.RUnlock()

	for _, session := range all {
		s.remove(ctx, session, "shutdown")
	}
	if s.sequencer != nil {
		s.sequencer.Wait()
	}
}

func (s *CheckoutService) remove(ctx context.Context, session *Session, reason string) {
	s.mu.Lock()
	if _, ok := s.sessions[session.ID]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.sessions, session.ID)
	s.mu.Unlock()

	pending := session.HasPendingSale()
	session.close()
	s.metrics.SessionClosed()

	log := s.log.With().Str("session_id", session.ID.String()).Str("reason", reason).Logger()
	if pending && s.journal != nil {
		n, err := s.journal.MarkSessionAbandoned(ctx, session.ID)
		if err != nil {
			log.Error().Err(err).Msg("marking pending sale abandoned failed")
		} else if n > 0 {
			log.Warn().Int64("sales", n).Msg("session closed with an uncompleted sale")
		}
	}
	log.Info().Msg("checkout session closed")
}
