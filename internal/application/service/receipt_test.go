package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sangkips/investify-pos/internal/domain/checkout"
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReceipt_LocalTotals(t *testing.T) {
	s := stateWith(t,
		checkout.AddProduct{ProductID: 1},
		checkout.AddProduct{ProductID: 2},
		checkout.AddPayment{Method: enum.PaymentMethodCash, Amount: decPtr("200")},
	)

	r := BuildReceipt(entity.ReceiptHeader{StoreName: "Investify Store"}, &entity.Sale{ID: 9}, s, "Achieng")

	assert.Equal(t, int64(9), r.SaleID)
	assert.Equal(t, "Achieng", r.Cashier)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "Product B", r.Items[1].Name)
	assert.True(t, dec("158").Equal(r.Total))
	assert.True(t, dec("21.79").Equal(r.VAT.Round(2)))
	assert.True(t, dec("200").Equal(r.Paid))
	assert.True(t, dec("42").Equal(r.Change))
	require.Len(t, r.Tenders, 1)
	assert.Equal(t, "cash", r.Tenders[0].Method)
}

func TestBuildReceipt_PrefersBackendTotals(t *testing.T) {
	s := stateWith(t,
		checkout.AddProduct{ProductID: 1},
		checkout.AddPayment{Method: enum.PaymentMethodCard},
	)
	sale := &entity.Sale{
		ID:           10,
		InvoiceNo:    "INV-0010",
		CustomerName: "Wanjiru",
		Items:        []entity.SaleItem{{ProductID: 1, Quantity: 1, UnitPrice: dec("100"), Subtotal: dec("100")}},
		Subtotal:     dec("100"),
		Tax:          dec("13.79"),
		Total:        dec("100"),
	}

	r := BuildReceipt(entity.ReceiptHeader{}, sale, s, "")

	assert.Equal(t, "INV-0010", r.InvoiceNo)
	assert.Equal(t, "Wanjiru", r.Customer)
	require.Len(t, r.Items, 1)
	assert.Equal(t, "Product A", r.Items[0].Name, "name filled from the catalog")
	assert.True(t, dec("13.79").Equal(r.VAT))
	assert.True(t, r.Change.IsZero())
}

func TestFormatReceipt(t *testing.T) {
	r := &entity.Receipt{
		Header:    entity.ReceiptHeader{StoreName: "Investify Store", TaxID: "P051234567X"},
		InvoiceNo: "INV-0042",
		Items:     []entity.ReceiptItem{{Name: "Product A", Quantity: 2, UnitPrice: dec("100"), Total: dec("200")}},
		SubTotal:  dec("200"),
		Discount:  dec("20"),
		Total:     dec("180"),
		Tenders:   []entity.ReceiptTender{{Method: "mobile_money", Amount: dec("180")}},
		Paid:      dec("180"),
	}

	out := string(FormatReceipt(r, printer.Width58mm))

	assert.Contains(t, out, "Investify Store")
	assert.Contains(t, out, "PIN: P051234567X")
	assert.Contains(t, out, "INV-0042")
	assert.Contains(t, out, "@ 100.00 each")
	assert.Contains(t, out, "-20.00")
	assert.Contains(t, out, "Mobile money:")
	assert.NotContains(t, out, "Points:")
}

func TestTenderLabel(t *testing.T) {
	assert.Equal(t, "Cash", tenderLabel("cash"))
	assert.Equal(t, "Mobile money", tenderLabel("mobile_money"))
	assert.Equal(t, "Paid", tenderLabel(""))
}

type recordingPrinter struct {
	data      [][]byte
	err       error
	connected bool
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	p.data = append(p.data, data)
	return p.err
}
func (p *recordingPrinter) IsConnected(context.Context) bool { return p.connected }
func (p *recordingPrinter) Close() error                     { return nil }

func TestPrinterService_Modes(t *testing.T) {
	receipt := &entity.Receipt{SaleID: 77, InvoiceNo: "INV-0077"}

	t.Run("backend", func(t *testing.T) {
		sales := &stubSales{}
		svc := NewPrinterService(nil, sales, PrinterOptions{}, zerolog.Nop())
		require.NoError(t, svc.PrintReceipt(context.Background(), receipt))
		assert.Equal(t, []int64{77}, sales.printed)
		assert.Error(t, svc.PrintReceipt(context.Background(), &entity.Receipt{}))
	})

	t.Run("local", func(t *testing.T) {
		p := &recordingPrinter{}
		svc := NewPrinterService(p, &stubSales{}, PrinterOptions{Mode: PrintModeLocal, PrinterType: "network"}, zerolog.Nop())
		require.NoError(t, svc.PrintReceipt(context.Background(), receipt))
		require.Len(t, p.data, 1)
		assert.Contains(t, string(p.data[0]), "INV-0077")

		p.err = errors.New("paper out")
		assert.ErrorContains(t, svc.PrintReceipt(context.Background(), receipt), "paper out")
	})

	t.Run("none", func(t *testing.T) {
		sales := &stubSales{}
		svc := NewPrinterService(nil, sales, PrinterOptions{Mode: PrintModeNone}, zerolog.Nop())
		require.NoError(t, svc.PrintReceipt(context.Background(), receipt))
		assert.Empty(t, sales.printed)
	})
}

func TestPrinterService_Status(t *testing.T) {
	p := &recordingPrinter{connected: true}
	local := NewPrinterService(p, nil, PrinterOptions{Mode: PrintModeLocal, PrinterType: "usb"}, zerolog.Nop())
	assert.Equal(t, &PrinterStatus{Mode: PrintModeLocal, Configured: true, Connected: true, Type: "usb"}, local.GetStatus(context.Background()))

	none := NewPrinterService(nil, nil, PrinterOptions{Mode: PrintModeNone}, zerolog.Nop())
	status := none.GetStatus(context.Background())
	assert.False(t, status.Configured)
	assert.False(t, status.Connected)
}

func TestPrinterService_TestPrint(t *testing.T) {
	p := &recordingPrinter{}
	svc := NewPrinterService(p, nil, PrinterOptions{Mode: PrintModeLocal, PrinterType: "usb", PaperWidth: printer.Width80mm}, zerolog.Nop())

	receipt, err := svc.TestPrint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TEST-001", receipt.InvoiceNo)
	assert.True(t, dec("2.76").Equal(receipt.VAT.Round(2)))
	assert.Len(t, p.data, 1)
}
