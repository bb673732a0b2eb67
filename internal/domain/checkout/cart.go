package checkout

import (
	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CartLine is one product in the cart. Product is the catalog entry the line was
// last checked against; its StockQuantity is the ceiling for Quantity.
type CartLine struct {
	Product      entity.Product
	Quantity     int
	UnitPrice    decimal.Decimal
	LineDiscount decimal.Decimal
}

// Subtotal is quantity × unit price, derived on every read.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered list of lines. Methods never mutate the receiver.
type Cart struct {
	lines []CartLine
}

// Lines returns a copy of the lines in insertion order.
func (c Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c Cart) Len() int {
	return len(c.lines)
}

func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Line returns the line for productID.
func (c Cart) Line(productID int64) (CartLine, bool) {
	if i := c.index(productID); i >= 0 {
		return c.lines[i], true
	}
	return CartLine{}, false
}

// Subtotal sums the line subtotals.
func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

// Items returns the number of units across all lines.
func (c Cart) Items() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// AddProduct puts one unit of p in the cart, creating the line when needed.
func (c Cart) AddProduct(p entity.Product) (Cart, error) {
	if p.StockQuantity <= 0 {
		return c, outOfStock(p)
	}
	if i := c.index(p.ID); i >= 0 {
		line := c.lines[i]
		if line.Quantity+1 > p.StockQuantity {
			return c, insufficientStock(p)
		}
		next := c.clone()
		line.Quantity++
		line.Product = p
		next.lines[i] = line
		return next, nil
	}

	next := c.clone()
	next.lines = append(next.lines, CartLine{
		Product:      p,
		Quantity:     1,
		UnitPrice:    p.UnitPrice(),
		LineDiscount: decimal.Zero,
	})
	return next, nil
}

// SetQuantity replaces a line's quantity. Zero or less removes the line; unknown
// products are ignored.
func (c Cart) SetQuantity(productID int64, quantity int) (Cart, error) {
	if quantity <= 0 {
		return c.RemoveProduct(productID), nil
	}
	i := c.index(productID)
	if i < 0 {
		return c, nil
	}
	line := c.lines[i]
	if quantity > line.Product.StockQuantity {
		return c, insufficientStock(line.Product)
	}
	next := c.clone()
	line.Quantity = quantity
	next.lines[i] = line
	return next, nil
}

// RemoveProduct drops the line for productID, if any.
func (c Cart) RemoveProduct(productID int64) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	next := Cart{lines: make([]CartLine, 0, len(c.lines)-1)}
	next.lines = append(next.lines, c.lines[:i]...)
	next.lines = append(next.lines, c.lines[i+1:]...)
	return next
}

// WithCatalog re-points every line at the catalog's current entry so stock
// ceilings follow the latest snapshot. Quantities are left as they are.
func (c Cart) WithCatalog(catalog Catalog) Cart {
	if len(c.lines) == 0 {
		return c
	}
	next := c.clone()
	for i, l := range next.lines {
		if p, ok := catalog.Product(l.Product.ID); ok {
			next.lines[i].Product = p
		}
	}
	return next
}

func (c Cart) index(productID int64) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	lines := make([]CartLine, len(c.lines), len(c.lines)+1)
	copy(lines, c.lines)
	return Cart{lines: lines}
}
