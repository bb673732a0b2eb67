package checkout

import (
	"testing"

	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_SearchByNameOrBarcode(t *testing.T) {
	catalog := NewCatalog([]entity.Product{productA(), productB()})

	assert.Len(t, catalog.Search(""), 2)
	assert.Len(t, catalog.Search("product b"), 1)

	byCode := catalog.Search("600100")
	require.Len(t, byCode, 1)
	assert.Equal(t, int64(1), byCode[0].ID)
}

func TestCatalog_UpsertKeepsOrder(t *testing.T) {
	catalog := NewCatalog([]entity.Product{productA(), productB()})

	updated := productA()
	updated.StockQuantity = 9
	next := catalog.Upsert(updated).Upsert(entity.Product{ID: 3, Name: "Product C"})

	products := next.Products()
	require.Len(t, products, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{products[0].ID, products[1].ID, products[2].ID})
	assert.Equal(t, 9, products[0].StockQuantity)

	original, _ := catalog.Product(1)
	assert.Equal(t, 5, original.StockQuantity)
}

func TestStockDecrement_ApplyAndUndo(t *testing.T) {
	catalog := NewCatalog([]entity.Product{productA(), productB()})
	cart, err := Cart{}.SetQuantity(1, 1)
	require.NoError(t, err)
	cart, err = cart.AddProduct(productA())
	require.NoError(t, err)
	cart, err = cart.SetQuantity(1, 2)
	require.NoError(t, err)

	adj := NewStockDecrement(catalog, cart.Lines())
	decremented := adj.Apply(catalog)

	a, _ := decremented.Product(1)
	assert.Equal(t, 3, a.StockQuantity)
	b, _ := decremented.Product(2)
	assert.Equal(t, 3, b.StockQuantity)

	restored := adj.Undo(decremented)
	a, _ = restored.Product(1)
	assert.Equal(t, 5, a.StockQuantity)
	assert.Equal(t, catalog.Products(), restored.Products())
}

func TestStockDecrement_ClampsAndSkipsUnknown(t *testing.T) {
	low := productB()
	low.StockQuantity = 1
	catalog := NewCatalog([]entity.Product{low})

	lines := []CartLine{
		{Product: productB(), Quantity: 3},
		{Product: entity.Product{ID: 42, Name: "Gone"}, Quantity: 1},
	}
	adj := NewStockDecrement(catalog, lines)
	decremented := adj.Apply(catalog)

	b, _ := decremented.Product(2)
	assert.Equal(t, 0, b.StockQuantity)
	_, ok := decremented.Product(42)
	assert.False(t, ok)

	b, _ = adj.Undo(decremented).Product(2)
	assert.Equal(t, 1, b.StockQuantity)
}
