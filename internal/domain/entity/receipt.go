package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the store/business header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Branch    string `json:"branch,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// ReceiptTender is one payment line on a receipt.
type ReceiptTender struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// Receipt is a value object composed from a finalized sale at print time.
// It is not persisted by the terminal.
type Receipt struct {
	Header         ReceiptHeader   `json:"header"`
	SaleID         int64           `json:"sale_id"`
	InvoiceNo      string          `json:"invoice_no"`
	Date           string          `json:"date"`
	Cashier        string          `json:"cashier,omitempty"`
	Customer       string          `json:"customer,omitempty"`
	Items          []ReceiptItem   `json:"items"`
	Tenders        []ReceiptTender `json:"tenders,omitempty"`
	SubTotal       decimal.Decimal `json:"sub_total"`
	Discount       decimal.Decimal `json:"discount"`
	PointsDiscount decimal.Decimal `json:"points_discount"`
	VAT            decimal.Decimal `json:"vat"`
	Total          decimal.Decimal `json:"total"`
	Paid           decimal.Decimal `json:"paid"`
	Change         decimal.Decimal `json:"change"`
}
