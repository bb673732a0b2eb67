package checkout

import (
	"strings"

	"github.com/sangkips/investify-pos/internal/domain/entity"
)

// Catalog is the till's last-fetched product snapshot for its branch.
// Stock figures in it are advisory; the backend is authoritative.
type Catalog struct {
	order    []int64
	products map[int64]entity.Product
}

// NewCatalog indexes products, keeping the first occurrence of duplicate ids.
func NewCatalog(products []entity.Product) Catalog {
	c := Catalog{
		order:    make([]int64, 0, len(products)),
		products: make(map[int64]entity.Product, len(products)),
	}
	for _, p := range products {
		if _, dup := c.products[p.ID]; dup {
			continue
		}
		c.order = append(c.order, p.ID)
		c.products[p.ID] = p
	}
	return c
}

func (c Catalog) Len() int {
	return len(c.order)
}

// Products returns the snapshot in backend order.
func (c Catalog) Products() []entity.Product {
	out := make([]entity.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

func (c Catalog) Product(id int64) (entity.Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// Upsert returns a catalog with p replacing (or appended as) its entry.
func (c Catalog) Upsert(p entity.Product) Catalog {
	next := c.clone()
	if _, ok := next.products[p.ID]; !ok {
		next.order = append(next.order, p.ID)
	}
	next.products[p.ID] = p
	return next
}

// Search matches name substrings case-insensitively, or an exact barcode.
func (c Catalog) Search(query string) []entity.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.Products()
	}
	var out []entity.Product
	for _, id := range c.order {
		p := c.products[id]
		if strings.Contains(strings.ToLower(p.Name), q) || (p.Barcode != "" && strings.EqualFold(p.Barcode, q)) {
			out = append(out, p)
		}
	}
	return out
}

func (c Catalog) withStock(stock map[int64]int) Catalog {
	next := c.clone()
	for id, qty := range stock {
		if p, ok := next.products[id]; ok {
			p.StockQuantity = qty
			next.products[id] = p
		}
	}
	return next
}

func (c Catalog) clone() Catalog {
	next := Catalog{
		order:    make([]int64, len(c.order), len(c.order)+1),
		products: make(map[int64]entity.Product, len(c.products)+1),
	}
	copy(next.order, c.order)
	for id, p := range c.products {
		next.products[id] = p
	}
	return next
}

// StockAdjustment is a reversible change to catalog stock levels. It carries
// both the before and after quantities so Undo restores the exact snapshot it
// was built from, whatever happened to the catalog in between.
type StockAdjustment struct {
	before map[int64]int
	after  map[int64]int
}

// NewStockDecrement prepares the optimistic decrement for a completed sale.
// Stock never goes below zero; lines whose product left the catalog are skipped.
func NewStockDecrement(catalog Catalog, lines []CartLine) StockAdjustment {
	adj := StockAdjustment{
		before: make(map[int64]int, len(lines)),
		after:  make(map[int64]int, len(lines)),
	}
	for _, l := range lines {
		p, ok := catalog.Product(l.Product.ID)
		if !ok {
			continue
		}
		current, seen := adj.after[p.ID]
		if !seen {
			adj.before[p.ID] = p.StockQuantity
			current = p.StockQuantity
		}
		next := current - l.Quantity
		if next < 0 {
			next = 0
		}
		adj.after[p.ID] = next
	}
	return adj
}

func (a StockAdjustment) Apply(c Catalog) Catalog {
	return c.withStock(a.after)
}

func (a StockAdjustment) Undo(c Catalog) Catalog {
	return c.withStock(a.before)
}

// IsZero reports whether the adjustment touches no product.
func (a StockAdjustment) IsZero() bool {
	return len(a.after) == 0
}
