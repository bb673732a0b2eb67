package checkout

import (
	"testing"

	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleProductCart(t *testing.T) Cart {
	t.Helper()
	cart, err := Cart{}.AddProduct(productA())
	require.NoError(t, err)
	return cart
}

func TestResolve_SingleProduct(t *testing.T) {
	totals := Resolve(singleProductCart(t), nil, 0)

	assertDecimal(t, "100", totals.Subtotal)
	assertDecimal(t, "0", totals.DiscountAmount)
	assertDecimal(t, "100", totals.Total)
	assert.Equal(t, "13.79", totals.Tax.StringFixed(2))
}

func TestResolve_PercentageDiscount(t *testing.T) {
	discount := &AppliedDiscount{Code: "TEN", Kind: enum.DiscountTypePercentage, Value: dec("10")}
	totals := Resolve(singleProductCart(t), discount, 0)

	assertDecimal(t, "10", totals.DiscountAmount)
	assertDecimal(t, "90", totals.DiscountedSubtotal)
	assertDecimal(t, "90", totals.Total)
}

func TestResolve_FixedDiscountAndPoints(t *testing.T) {
	discount := &AppliedDiscount{Code: "FIVE", Kind: enum.DiscountTypeFixed, Value: dec("5")}
	totals := Resolve(singleProductCart(t), discount, 50)

	assertDecimal(t, "5", totals.DiscountAmount)
	assertDecimal(t, "5", totals.PointsDiscount)
	assertDecimal(t, "90", totals.Total)
}

func TestResolve_DiscountedSubtotalNeverNegative(t *testing.T) {
	discount := &AppliedDiscount{Code: "BIG", Kind: enum.DiscountTypeFixed, Value: dec("500")}
	totals := Resolve(singleProductCart(t), discount, 10000)

	assertDecimal(t, "0", totals.DiscountedSubtotal)
	assertDecimal(t, "0", totals.Tax)
	assertDecimal(t, "0", totals.Total)
}

func TestResolve_TaxIsExtractedFromTotal(t *testing.T) {
	cases := []struct {
		name     string
		discount *AppliedDiscount
		points   int
	}{
		{name: "no discount"},
		{name: "percentage", discount: &AppliedDiscount{Kind: enum.DiscountTypePercentage, Value: dec("12.5")}},
		{name: "fixed with points", discount: &AppliedDiscount{Kind: enum.DiscountTypeFixed, Value: dec("3.33")}, points: 17},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals := Resolve(singleProductCart(t), tc.discount, tc.points)
			want := totals.Total.Mul(dec("16")).Div(dec("116"))
			assert.True(t, want.Equal(totals.Tax))
			assert.True(t, totals.Tax.LessThanOrEqual(totals.Total))
		})
	}
}

func TestResolve_EmptyCart(t *testing.T) {
	totals := Resolve(Cart{}, nil, 0)
	assertDecimal(t, "0", totals.Subtotal)
	assertDecimal(t, "0", totals.Total)
}
