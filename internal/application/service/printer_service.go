package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sangkips/investify-pos/internal/domain/checkout"
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/repository"
	"github.com/sangkips/investify-pos/pkg/printer"
	"github.com/shopspring/decimal"
)

// Receipt printing modes
const (
	PrintModeBackend = "backend"
	PrintModeLocal   = "local"
	PrintModeNone    = "none"
)

// ReceiptPrinter prints the receipt of a completed sale.
type ReceiptPrinter interface {
	PrintReceipt(ctx context.Context, receipt *entity.Receipt) error
}

// PrinterService routes receipts to the backend's print endpoint or to a
// thermal printer attached to this till.
type PrinterService struct {
	printer     printer.Printer
	sales       repository.SaleService
	mode        string
	printerType string
	paperWidth  int
	header      entity.ReceiptHeader
	log         zerolog.Logger
}

type PrinterOptions struct {
	Mode        string
	PrinterType string
	PaperWidth  int
	Header      entity.ReceiptHeader
}

// NewPrinterService creates a new printer service. p may be nil outside local mode.
func NewPrinterService(p printer.Printer, sales repository.SaleService, opts PrinterOptions, log zerolog.Logger) *PrinterService {
	if p == nil {
		p = printer.NewNullPrinter()
	}
	mode := opts.Mode
	if mode == "" {
		mode = PrintModeBackend
	}
	return &PrinterService{
		printer:     p,
		sales:       sales,
		mode:        mode,
		printerType: opts.PrinterType,
		paperWidth:  opts.PaperWidth,
		header:      opts.Header,
		log:         log.With().Str("component", "printer").Logger(),
	}
}

// Header is the store header printed on receipts.
func (s *PrinterService) Header() entity.ReceiptHeader {
	return s.header
}

func (s *PrinterService) PrintReceipt(ctx context.Context, receipt *entity.Receipt) error {
	switch s.mode {
	case PrintModeNone:
		return nil
	case PrintModeLocal:
		if err := s.printer.Print(ctx, FormatReceipt(receipt, s.paperWidth)); err != nil {
			return fmt.Errorf("failed to print receipt: %w", err)
		}
		return nil
	default:
		if receipt.SaleID == 0 {
			return fmt.Errorf("failed to print receipt: no sale id")
		}
		if err := s.sales.PrintReceipt(ctx, receipt.SaleID); err != nil {
			return fmt.Errorf("failed to print receipt: %w", err)
		}
		return nil
	}
}

// PrinterStatus describes the receipt printing setup.
type PrinterStatus struct {
	Mode       string `json:"mode"`
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	status := &PrinterStatus{Mode: s.mode, Type: s.printerType}
	switch s.mode {
	case PrintModeLocal:
		status.Configured = s.printerType != "none" && s.printerType != ""
		status.Connected = s.printer.IsConnected(ctx)
	case PrintModeBackend:
		status.Configured = true
		status.Connected = true
	}
	return status
}

// TestPrint sends a sample receipt to the local printer. The receipt is
// returned either way so the caller can show it.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:    s.header,
		InvoiceNo: "TEST-001",
		Date:      "Test Date",
		Cashier:   "System",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: decimal.NewFromInt(5), Total: decimal.NewFromInt(10)},
		},
		SubTotal: decimal.NewFromInt(20),
		VAT:      checkout.ExtractTax(decimal.NewFromInt(20)),
		Total:    decimal.NewFromInt(20),
		Paid:     decimal.NewFromInt(20),
	}
	if s.mode != PrintModeLocal {
		return receipt, nil
	}
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.paperWidth)); err != nil {
		s.log.Warn().Err(err).Msg("test print failed")
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}
