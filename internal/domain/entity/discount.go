package entity

import (
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DiscountValidation is the discount service's answer for a valid code.
type DiscountValidation struct {
	Code         string            `json:"code,omitempty"`
	DiscountType enum.DiscountType `json:"discount_type"`
	Value        decimal.Decimal   `json:"value"`
}
