package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var errBackendDown = errors.New("backend unavailable")

// payloadErr mimics a backend error carrying the upstream body.
type payloadErr struct {
	body map[string]interface{}
}

func (e *payloadErr) Error() string        { return "backend rejected request" }
func (e *payloadErr) Payload() interface{} { return e.body }

func productA() entity.Product {
	return entity.Product{ID: 1, Name: "Product A", Price: "100.00", StockQuantity: 5, Barcode: "600100"}
}

func productB() entity.Product {
	return entity.Product{ID: 2, Name: "Product B", Price: "58.00", StockQuantity: 3}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

type stubCatalog struct {
	mu       sync.Mutex
	products []entity.Product
	err      error
	calls    int
}

func (s *stubCatalog) GetProducts(_ context.Context, _ repository.ProductFilter) ([]entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]entity.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *stubCatalog) LookupByBarcode(_ context.Context, code, _ string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Barcode == code {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (s *stubCatalog) getCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubSales struct {
	mu          sync.Mutex
	nextID      int64
	createErr   error
	getErr      error
	completeErr error
	printErr    error
	// hold, when set, blocks CreateSale until closed
	hold      chan struct{}
	created   []*entity.CreateSaleRequest
	gets      int
	completed int
	printed   []int64
}

func (s *stubSales) CreateSale(_ context.Context, req *entity.CreateSaleRequest) (*entity.Sale, error) {
	if s.hold != nil {
		<-s.hold
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, req)
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	return &entity.Sale{ID: 500 + s.nextID, Status: "pending"}, nil
}

func (s *stubSales) GetSale(_ context.Context, id int64) (*entity.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &entity.Sale{
		ID:        id,
		InvoiceNo: "INV-0001",
		Status:    "completed",
		CreatedAt: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
	}, nil
}

func (s *stubSales) CompleteSale(_ context.Context, _ int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed++
	return s.completeErr
}

func (s *stubSales) PrintReceipt(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.printed = append(s.printed, id)
	return s.printErr
}

func (s *stubSales) createdCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

type stubPayments struct {
	mu       sync.Mutex
	failOn   map[enum.PaymentMethod]error
	recorded []entity.CreatePaymentRequest
}

func (s *stubPayments) CreatePayment(_ context.Context, req *entity.CreatePaymentRequest) (*entity.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, *req)
	if err := s.failOn[req.Method]; err != nil {
		return nil, err
	}
	return &entity.Payment{ID: int64(len(s.recorded)), SaleID: req.SaleID, Method: req.Method, Amount: req.Amount}, nil
}

type stubJournal struct {
	mu        sync.Mutex
	rows      map[int64]*entity.PendingSale
	abandoned []uuid.UUID
}

func newStubJournal() *stubJournal {
	return &stubJournal{rows: make(map[int64]*entity.PendingSale)}
}

func (s *stubJournal) Record(_ context.Context, sale *entity.PendingSale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sale
	s.rows[sale.SaleID] = &cp
	return nil
}

func (s *stubJournal) GetBySaleID(_ context.Context, saleID int64) (*entity.PendingSale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[saleID], nil
}

func (s *stubJournal) MarkStatus(_ context.Context, saleID int64, status enum.PendingSaleStatus, lastErr *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[saleID]; ok {
		if status == enum.PendingSaleStatusPending && row.Status == enum.PendingSaleStatusAbandoned {
			return nil
		}
		row.Status = status
		row.LastError = lastErr
	}
	return nil
}

func (s *stubJournal) MarkSessionAbandoned(_ context.Context, sessionID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandoned = append(s.abandoned, sessionID)
	var n int64
	for _, row := range s.rows {
		if row.SessionID == sessionID && row.Status == enum.PendingSaleStatusPending {
			row.Status = enum.PendingSaleStatusAbandoned
			n++
		}
	}
	return n, nil
}

func (s *stubJournal) List(_ context.Context, _ *repository.PendingSaleFilterParams) ([]entity.PendingSale, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.PendingSale
	for _, row := range s.rows {
		out = append(out, *row)
	}
	return out, int64(len(out)), nil
}

type stubCustomers struct {
	customers map[string]entity.Customer
	err       error
}

func (s *stubCustomers) LookupByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	if c, ok := s.customers[phone]; ok {
		return &c, nil
	}
	return nil, nil
}

type stubDiscounts struct {
	codes map[string]entity.DiscountValidation
}

func (s *stubDiscounts) ValidateCode(_ context.Context, code string) (*entity.DiscountValidation, error) {
	if d, ok := s.codes[code]; ok {
		return &d, nil
	}
	return nil, errors.New("not found")
}

// fixture wires a checkout service over stubs.
type fixture struct {
	catalog   *stubCatalog
	sales     *stubSales
	payments  *stubPayments
	journal   *stubJournal
	customers *stubCustomers
	discounts *stubDiscounts
	sequencer *SubmissionSequencer
	service   *CheckoutService
	cashier   Cashier
}

func newFixture() *fixture {
	f := &fixture{
		catalog:  &stubCatalog{products: []entity.Product{productA(), productB()}},
		sales:    &stubSales{},
		payments: &stubPayments{failOn: map[enum.PaymentMethod]error{}},
		journal:  newStubJournal(),
		customers: &stubCustomers{customers: map[string]entity.Customer{
			"0711000111": {ID: 7, Name: "Wanjiru", Phone: "0711000111", TotalPoints: 30},
		}},
		discounts: &stubDiscounts{codes: map[string]entity.DiscountValidation{
			"TEN": {Code: "TEN", DiscountType: enum.DiscountTypePercentage, Value: dec("10")},
		}},
		cashier: Cashier{ID: uuid.New(), Name: "Achieng", Branch: "nairobi-cbd"},
	}
	receipts := NewPrinterService(nil, f.sales, PrinterOptions{Mode: PrintModeBackend}, zerolog.Nop())
	f.sequencer = NewSubmissionSequencer(SequencerDeps{
		Catalog:  f.catalog,
		Sales:    f.sales,
		Payments: f.payments,
		Journal:  f.journal,
		Receipts: receipts,
		Header:   entity.ReceiptHeader{StoreName: "Investify Store"},
	}, zerolog.Nop())
	f.service = NewCheckoutService(CheckoutDeps{
		Catalog:   f.catalog,
		Customers: f.customers,
		Discounts: f.discounts,
		Sequencer: f.sequencer,
		Journal:   f.journal,
	}, CheckoutConfig{BannerTTL: 30 * time.Millisecond, IdleTTL: time.Hour}, zerolog.Nop())
	return f
}
