package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/investify-pos/internal/domain/checkout"
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/pkg/printer"
	"github.com/shopspring/decimal"
)

// BuildReceipt composes the receipt of a finished sale. Totals come from the
// backend's finalized sale when it reports them, otherwise from the till.
func BuildReceipt(header entity.ReceiptHeader, sale *entity.Sale, s checkout.State, cashier string) *entity.Receipt {
	totals := s.Totals()
	r := &entity.Receipt{
		Header:         header,
		Cashier:        cashier,
		Date:           time.Now().Format("2006-01-02 15:04"),
		SubTotal:       totals.Subtotal,
		Discount:       totals.DiscountAmount,
		PointsDiscount: totals.PointsDiscount,
		VAT:            totals.Tax,
		Total:          totals.Total,
	}
	if s.Customer != nil {
		r.Customer = s.Customer.Name
	}

	if sale != nil {
		r.SaleID = sale.ID
		r.InvoiceNo = sale.InvoiceNo
		if !sale.CreatedAt.IsZero() {
			r.Date = sale.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		if sale.CustomerName != "" {
			r.Customer = sale.CustomerName
		}
		if !sale.Total.IsZero() {
			r.SubTotal = sale.Subtotal
			r.Discount = sale.DiscountAmount
			r.PointsDiscount = sale.PointsDiscount
			r.VAT = sale.Tax
			r.Total = sale.Total
		}
		for _, it := range sale.Items {
			name := it.ProductName
			if name == "" {
				if p, ok := s.Catalog.Product(it.ProductID); ok {
					name = p.Name
				}
			}
			r.Items = append(r.Items, entity.ReceiptItem{
				Name:      name,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Total:     it.Subtotal,
			})
		}
	}

	if len(r.Items) == 0 {
		for _, l := range s.Cart.Lines() {
			r.Items = append(r.Items, entity.ReceiptItem{
				Name:      l.Product.Name,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				Total:     l.Subtotal(),
			})
		}
	}

	for _, t := range s.Tenders.List() {
		r.Tenders = append(r.Tenders, entity.ReceiptTender{Method: t.Method.String(), Amount: t.Amount})
	}
	r.Paid = s.Tenders.TotalPaid()
	r.Change = r.Paid.Sub(r.Total)
	if r.Change.IsNegative() {
		r.Change = decimal.Zero
	}
	return r
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Branch != "" {
		doc.Text(r.Header.Branch)
	}
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("PIN: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	invoice := r.InvoiceNo
	if invoice == "" && r.SaleID != 0 {
		invoice = "#" + strconv.FormatInt(r.SaleID, 10)
	}
	doc.KeyValue("Invoice:", invoice).
		KeyValue("Date:", r.Date)
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", money(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", money(r.SubTotal))
	if r.Discount.IsPositive() {
		doc.KeyValue("Discount:", "-"+money(r.Discount))
	}
	if r.PointsDiscount.IsPositive() {
		doc.KeyValue("Points:", "-"+money(r.PointsDiscount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false)
	doc.KeyValue("VAT incl.:", money(r.VAT))

	if len(r.Tenders) > 0 {
		doc.Separator('-')
		for _, t := range r.Tenders {
			doc.KeyValue(tenderLabel(t.Method)+":", money(t.Amount))
		}
		doc.KeyValue("Change:", money(r.Change))
	}

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for shopping with us!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func tenderLabel(method string) string {
	switch method {
	case "mobile_money":
		return "Mobile money"
	case "":
		return "Paid"
	}
	return strings.ToUpper(method[:1]) + method[1:]
}
