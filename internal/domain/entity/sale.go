package entity

import (
	"time"

	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// SaleItemInput is one cart line sent when creating a sale.
type SaleItemInput struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateSaleRequest is the payload of the sale service's create call.
type CreateSaleRequest struct {
	CustomerID     *int64          `json:"customer_id,omitempty"`
	Items          []SaleItemInput `json:"items"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	PointsDiscount decimal.Decimal `json:"points_discount"`
	DiscountCode   string          `json:"discount_code,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// SaleItem is a line of a sale as stored by the backend.
type SaleItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Sale is the backend's sale record. Totals are the server-side figures.
type Sale struct {
	ID             int64           `json:"id"`
	InvoiceNo      string          `json:"invoice_no,omitempty"`
	Status         string          `json:"status,omitempty"`
	CustomerID     *int64          `json:"customer_id,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
	Items          []SaleItem      `json:"items,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	PointsDiscount decimal.Decimal `json:"points_discount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreatePaymentRequest records one tender against a sale.
type CreatePaymentRequest struct {
	SaleID int64              `json:"sale_id"`
	Method enum.PaymentMethod `json:"method"`
	Amount decimal.Decimal    `json:"amount"`
}

// Payment is the backend's payment record.
type Payment struct {
	ID     int64              `json:"id"`
	SaleID int64              `json:"sale_id"`
	Method enum.PaymentMethod `json:"method"`
	Amount decimal.Decimal    `json:"amount"`
}
