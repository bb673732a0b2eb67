package checkout

import (
	"testing"

	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func productA() entity.Product {
	return entity.Product{ID: 1, Name: "Product A", Price: "100.00", StockQuantity: 5, Barcode: "600100"}
}

func productB() entity.Product {
	return entity.Product{ID: 2, Name: "Product B", Price: "58.00", StockQuantity: 3}
}
