package checkout

import (
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Policy constants. Prices are VAT-inclusive at TaxRatePercent and each
// loyalty point is worth PointValue currency units.
const (
	TaxRatePercent = 16
	PointValue     = "0.1"
)

var (
	hundred    = decimal.NewFromInt(100)
	taxRate    = decimal.NewFromInt(TaxRatePercent)
	pointValue = decimal.RequireFromString(PointValue)
)

// AppliedDiscount is the single active discount code.
type AppliedDiscount struct {
	Code  string
	Kind  enum.DiscountType
	Value decimal.Decimal
}

// Amount is the currency value of the discount against subtotal.
func (d AppliedDiscount) Amount(subtotal decimal.Decimal) decimal.Decimal {
	if d.Kind == enum.DiscountTypePercentage {
		return subtotal.Mul(d.Value.Div(hundred))
	}
	return d.Value
}

// Totals is the order-level summary.
type Totals struct {
	Subtotal           decimal.Decimal
	DiscountAmount     decimal.Decimal
	PointsDiscount     decimal.Decimal
	DiscountedSubtotal decimal.Decimal
	Tax                decimal.Decimal
	Total              decimal.Decimal
}

// Resolve derives the totals in a fixed order: subtotal, code discount, points,
// clamp at zero, then extract the VAT already contained in what is left.
// pointsToRedeem is used as given; bounding it is the caller's job.
func Resolve(cart Cart, discount *AppliedDiscount, pointsToRedeem int) Totals {
	subtotal := cart.Subtotal()

	discountAmount := decimal.Zero
	if discount != nil {
		discountAmount = discount.Amount(subtotal)
	}

	pointsDiscount := PointsValue(pointsToRedeem)

	discounted := subtotal.Sub(discountAmount).Sub(pointsDiscount)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}

	return Totals{
		Subtotal:           subtotal,
		DiscountAmount:     discountAmount,
		PointsDiscount:     pointsDiscount,
		DiscountedSubtotal: discounted,
		Tax:                ExtractTax(discounted),
		Total:              discounted,
	}
}

// PointsValue converts loyalty points to currency.
func PointsValue(points int) decimal.Decimal {
	return decimal.NewFromInt(int64(points)).Mul(pointValue)
}

// ExtractTax returns the VAT contained in a tax-inclusive amount:
// amount × rate / (100 + rate).
func ExtractTax(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(taxRate).Div(hundred.Add(taxRate))
}
