package request

import "github.com/shopspring/decimal"

// ScanRequest carries a scanned or typed barcode
type ScanRequest struct {
	Barcode string `json:"barcode" binding:"required,max=64"`
}

// AddItemRequest adds one unit of a catalog product
type AddItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,min=1"`
}

// UpdateQuantityRequest sets a line's quantity; zero or less removes the line
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// ApplyDiscountRequest represents a discount code entry
type ApplyDiscountRequest struct {
	Code string `json:"code" binding:"required,max=64"`
}

// CustomerLookupRequest looks up a loyalty customer by phone
type CustomerLookupRequest struct {
	Phone string `json:"phone" binding:"required,min=7,max=20"`
}

// RedeemPointsRequest sets how many loyalty points to redeem
type RedeemPointsRequest struct {
	Points *int `json:"points" binding:"required"`
}

// AddPaymentRequest takes a tender. Amount is required for cash only; mobile
// money and card take the remaining balance.
type AddPaymentRequest struct {
	Method string           `json:"method" binding:"required"`
	Amount *decimal.Decimal `json:"amount"`
}

// SubmitRequest finalizes the sale
type SubmitRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}
