package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/investify-pos/internal/domain/checkout"
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/internal/domain/repository"
	"github.com/sangkips/investify-pos/internal/metrics"
	"github.com/sangkips/investify-pos/pkg/apperror"
)

// Submission steps, used as metric labels and log fields.
const (
	StepCreateSale     = "create_sale"
	StepResumeSale     = "resume_sale"
	StepRecordPayments = "record_payments"
	StepCompleteSale   = "complete_sale"
)

// SubmissionContext identifies who is submitting and from where.
type SubmissionContext struct {
	SessionID uuid.UUID
	CashierID uuid.UUID
	Cashier   string
	Branch    string
	Notes     string
}

// SubmissionResult is what a successful submission leaves behind.
type SubmissionResult struct {
	Sale    *entity.Sale
	Receipt *entity.Receipt
}

// SubmissionSequencer turns a paid checkout into a completed backend sale:
// ensure the sale exists, record payments, then complete it.
type SubmissionSequencer struct {
	catalog  repository.CatalogService
	sales    repository.SaleService
	payments repository.PaymentService
	journal  repository.PendingSaleRepository
	receipts ReceiptPrinter
	header   entity.ReceiptHeader
	metrics  *metrics.CheckoutMetrics
	log      zerolog.Logger

	prints sync.WaitGroup
}

type SequencerDeps struct {
	Catalog  repository.CatalogService
	Sales    repository.SaleService
	Payments repository.PaymentService
	Journal  repository.PendingSaleRepository
	Receipts ReceiptPrinter
	Header   entity.ReceiptHeader
	Metrics  *metrics.CheckoutMetrics
}

func NewSubmissionSequencer(deps SequencerDeps, log zerolog.Logger) *SubmissionSequencer {
	return &SubmissionSequencer{
		catalog:  deps.Catalog,
		sales:    deps.Sales,
		payments: deps.Payments,
		journal:  deps.Journal,
		receipts: deps.Receipts,
		header:   deps.Header,
		metrics:  deps.Metrics,
		log:      log.With().Str("component", "submission").Logger(),
	}
}

// Submit runs the sequence against s. The returned state is always the one to
// keep: on failure it still carries the cart, the tenders and the pending sale
// so a retry reuses the same backend sale.
func (q *SubmissionSequencer) Submit(ctx context.Context, sc SubmissionContext, s checkout.State) (checkout.State, *SubmissionResult, error) {
	start := time.Now()
	q.metrics.RecordSubmissionStarted()

	if s.Cart.IsEmpty() {
		return q.reject(s, apperror.ErrEmptyCart, start)
	}
	totals := s.Totals()
	if s.Tenders.TotalPaid().LessThan(totals.Total) {
		return q.reject(s, apperror.ErrInsufficientPayment, start)
	}

	log := q.log.With().
		Str("session_id", sc.SessionID.String()).
		Str("cashier_id", sc.CashierID.String()).
		Str("total", totals.Total.StringFixed(2)).
		Logger()

	s, sale, err := q.ensureSale(ctx, sc, s, log)
	if err != nil {
		return q.fail(ctx, s, err, start, log)
	}
	log = log.With().Int64("sale_id", sale.ID).Logger()

	s, err = q.recordPayments(ctx, s, sale.ID, log)
	if err != nil {
		return q.fail(ctx, s, err, start, log)
	}

	s, err = q.completeSale(ctx, s, sale.ID)
	if err != nil {
		return q.fail(ctx, s, err, start, log)
	}

	// From here on the sale is done at the backend; nothing below can fail it.
	products, err := q.catalog.GetProducts(ctx, repository.ProductFilter{Branch: sc.Branch})
	if err != nil {
		log.Warn().Err(err).Msg("catalog refresh after completion failed, keeping local stock")
		products = nil
	}
	if s, err = checkout.Apply(s, checkout.SaleCompleted{Products: products}); err != nil {
		return q.fail(ctx, s, err, start, log)
	}

	final, err := q.sales.GetSale(ctx, sale.ID)
	if err != nil {
		log.Warn().Err(err).Msg("fetching finalized sale failed, using local totals")
		final = sale
	}
	q.markJournal(ctx, sale.ID, enum.PendingSaleStatusCompleted, nil, log)

	receipt := BuildReceipt(q.header, final, s, sc.Cashier)
	q.printAsync(ctx, receipt, log)

	s, _ = checkout.Apply(s, checkout.Reset{})

	q.metrics.RecordSubmission(metrics.OutcomeCompleted, time.Since(start))
	log.Info().Dur("duration", time.Since(start)).Msg("sale completed")
	return s, &SubmissionResult{Sale: final, Receipt: receipt}, nil
}

// Wait blocks until in-flight receipt prints have finished.
func (q *SubmissionSequencer) Wait() {
	q.prints.Wait()
}

func (q *SubmissionSequencer) ensureSale(ctx context.Context, sc SubmissionContext, s checkout.State, log zerolog.Logger) (checkout.State, *entity.Sale, error) {
	if s.Pending.Exists() {
		id := *s.Pending.ID
		stepStart := time.Now()
		sale, err := q.sales.GetSale(ctx, id)
		q.metrics.RecordStepDuration(StepResumeSale, time.Since(stepStart))
		if err != nil {
			return s, nil, apperror.NewCheckoutError(apperror.KindSaleCreationFailed,
				fmt.Sprintf("Could not load pending sale #%d", id)).WithDetails(errorDetails(err))
		}
		next, err := checkout.Apply(s, checkout.SaleResumed{})
		if err != nil {
			return s, nil, err
		}
		log.Info().Int64("sale_id", id).Msg("resuming pending sale")
		return next, sale, nil
	}

	stepStart := time.Now()
	sale, err := q.sales.CreateSale(ctx, buildSaleRequest(s, sc.Notes))
	q.metrics.RecordStepDuration(StepCreateSale, time.Since(stepStart))
	if err != nil {
		return s, nil, apperror.NewCheckoutError(apperror.KindSaleCreationFailed,
			"Could not create sale").WithDetails(errorDetails(err))
	}
	if sale == nil || sale.ID == 0 {
		return s, nil, apperror.NewCheckoutError(apperror.KindSaleCreationFailed,
			"Backend did not return a sale id")
	}

	next, err := checkout.Apply(s, checkout.SaleCreated{SaleID: sale.ID})
	if err != nil {
		return s, nil, err
	}

	if q.journal != nil {
		row := &entity.PendingSale{
			SaleID:    sale.ID,
			SessionID: sc.SessionID,
			CashierID: sc.CashierID,
			BranchID:  sc.Branch,
			Total:     next.Totals().Total,
			Status:    enum.PendingSaleStatusPending,
		}
		if err := q.journal.Record(ctx, row); err != nil {
			log.Error().Err(err).Int64("sale_id", sale.ID).Msg("journal record failed")
		}
	}
	log.Info().Int64("sale_id", sale.ID).Msg("sale created")
	return next, sale, nil
}

func (q *SubmissionSequencer) recordPayments(ctx context.Context, s checkout.State, saleID int64, log zerolog.Logger) (checkout.State, error) {
	stepStart := time.Now()
	defer func() { q.metrics.RecordStepDuration(StepRecordPayments, time.Since(stepStart)) }()

	for _, t := range s.Pending.Outstanding(s.Tenders) {
		_, err := q.payments.CreatePayment(ctx, &entity.CreatePaymentRequest{
			SaleID: saleID,
			Method: t.Method,
			Amount: t.Amount,
		})
		if err != nil {
			return s, apperror.NewCheckoutError(apperror.KindPaymentFailed,
				fmt.Sprintf("Could not record %s payment", t.Method)).WithDetails(errorDetails(err))
		}
		next, err := checkout.Apply(s, checkout.PaymentRecorded{Method: t.Method, Amount: t.Amount})
		if err != nil {
			return s, err
		}
		s = next
		log.Debug().Str("method", t.Method.String()).Str("amount", t.Amount.String()).Msg("payment recorded")
	}
	return checkout.Apply(s, checkout.PaymentsRecorded{})
}

func (q *SubmissionSequencer) completeSale(ctx context.Context, s checkout.State, saleID int64) (checkout.State, error) {
	stepStart := time.Now()
	defer func() { q.metrics.RecordStepDuration(StepCompleteSale, time.Since(stepStart)) }()

	reserve := checkout.StockReserved{Adjustment: checkout.NewStockDecrement(s.Catalog, s.Cart.Lines())}
	return compensate(s, reserve, checkout.StockReleased{}, func() error {
		if err := q.sales.CompleteSale(ctx, saleID); err != nil {
			return apperror.NewCheckoutError(apperror.KindCompletionFailed,
				fmt.Sprintf("Could not complete sale #%d", saleID)).WithDetails(errorDetails(err))
		}
		return nil
	})
}

// compensate applies do, runs action, and applies undo if action fails.
func compensate(s checkout.State, do, undo checkout.Event, action func() error) (checkout.State, error) {
	applied, err := checkout.Apply(s, do)
	if err != nil {
		return s, err
	}
	if err := action(); err != nil {
		reverted, undoErr := checkout.Apply(applied, undo)
		if undoErr != nil {
			return applied, errors.Join(err, undoErr)
		}
		return reverted, err
	}
	return applied, nil
}

func (q *SubmissionSequencer) printAsync(ctx context.Context, receipt *entity.Receipt, log zerolog.Logger) {
	if q.receipts == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	q.prints.Add(1)
	go func() {
		defer q.prints.Done()
		if err := q.receipts.PrintReceipt(ctx, receipt); err != nil {
			q.metrics.RecordReceiptFailure()
			log.Warn().Err(err).Msg("receipt print failed")
		}
	}()
}

func (q *SubmissionSequencer) reject(s checkout.State, err *apperror.AppError, start time.Time) (checkout.State, *SubmissionResult, error) {
	q.metrics.RecordFailure(string(err.Kind))
	q.metrics.RecordSubmission(metrics.OutcomeRejected, time.Since(start))
	return s, nil, err
}

func (q *SubmissionSequencer) fail(ctx context.Context, s checkout.State, err error, start time.Time, log zerolog.Logger) (checkout.State, *SubmissionResult, error) {
	s, _ = checkout.Apply(s, checkout.SubmissionFailed{})

	kind := apperror.KindOf(err)
	q.metrics.RecordFailure(string(kind))
	q.metrics.RecordSubmission(metrics.OutcomeFailed, time.Since(start))

	if s.Pending.Exists() {
		msg := err.Error()
		q.markJournal(ctx, *s.Pending.ID, enum.PendingSaleStatusPending, &msg, log)
	}
	log.Error().Err(err).Str("kind", string(kind)).Msg("submission failed")
	return s, nil, err
}

func (q *SubmissionSequencer) markJournal(ctx context.Context, saleID int64, status enum.PendingSaleStatus, lastErr *string, log zerolog.Logger) {
	if q.journal == nil {
		return
	}
	if err := q.journal.MarkStatus(ctx, saleID, status, lastErr); err != nil {
		log.Error().Err(err).Int64("sale_id", saleID).Msg("journal update failed")
	}
}

func buildSaleRequest(s checkout.State, notes string) *entity.CreateSaleRequest {
	totals := s.Totals()
	req := &entity.CreateSaleRequest{
		DiscountAmount: totals.DiscountAmount,
		PointsDiscount: totals.PointsDiscount,
		Notes:          notes,
	}
	if s.Customer != nil {
		id := s.Customer.ID
		req.CustomerID = &id
	}
	if s.Discount != nil {
		req.DiscountCode = s.Discount.Code
	}
	for _, l := range s.Cart.Lines() {
		req.Items = append(req.Items, entity.SaleItemInput{
			ProductID: l.Product.ID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.LineDiscount,
		})
	}
	return req
}

// payloadError is implemented by collaborator errors that carry the raw
// upstream error body.
type payloadError interface {
	Payload() interface{}
}

func errorDetails(err error) interface{} {
	var pe payloadError
	if errors.As(err, &pe) {
		if p := pe.Payload(); p != nil {
			return p
		}
	}
	return err.Error()
}
