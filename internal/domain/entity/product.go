package entity

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a tax-inclusive decimal as sent by the catalog. The backend sends
// strings ("100.00") but numbers are accepted too.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*p = Price(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*p = Price(num.String())
	return nil
}

// Decimal parses the price. Non-numeric or negative prices yield zero.
func (p Price) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(string(p)))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Product is a catalog entry as consumed by the till.
type Product struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Price         Price  `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
	Barcode       string `json:"barcode,omitempty"`
}

// UnitPrice returns the tax-inclusive price used for new cart lines.
func (p Product) UnitPrice() decimal.Decimal {
	return p.Price.Decimal()
}
