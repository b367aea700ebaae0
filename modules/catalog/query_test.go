package catalog

import (
	"testing"
	"time"

	"github.com/example/cityshades/domain/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixtures() []product.Product {
	return []product.Product{
		{ID: 1, Name: "Aviator Classic", Brand: "Ray-Ban", Description: "Timeless metal frame", Price: 150, Category: "Aviator", Gender: product.GenderUnisex, IsBestseller: true, CreatedAt: base},
		{ID: 2, Name: "Cat Eye Glam", Brand: "Vogue", Description: "Bold acetate", Price: 89.5, Category: "sunglasses", Subcategory: "Cat-Eye", Gender: product.GenderWomen, IsNew: true, CreatedAt: base.Add(48 * time.Hour)},
		{ID: 3, Name: "Sport Wrap", Brand: "Oakley", Price: 120, Category: "Sport", Gender: product.GenderMen, IsBestseller: true, IsNew: true, CreatedAt: base.Add(24 * time.Hour)},
		{ID: 4, Name: "Round Retro", Price: 89.5, Category: "aviator", Gender: product.GenderUnisex, CreatedAt: base.Add(24 * time.Hour)},
		{ID: 5, Name: "Wayfarer", Brand: "Ray-Ban", Price: 60, Category: "sunglasses", Gender: product.GenderMen, CreatedAt: base.Add(-time.Hour)},
	}
}

func ids(products []product.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestQuery_DefaultSortIsNewestFirstWithIDTiebreak(t *testing.T) {
	page, total := Query{}.Apply(fixtures())

	assert.Equal(t, 5, total)
	assert.Equal(t, []int64{2, 4, 3, 1, 5}, ids(page))
}

func TestQuery_SortByPrice(t *testing.T) {
	low, _ := Query{Sort: SortPriceLow}.Apply(fixtures())
	for i := 1; i < len(low); i++ {
		assert.LessOrEqual(t, low[i-1].Price, low[i].Price)
	}
	// Equal prices keep stored order.
	assert.Equal(t, []int64{5, 2, 4, 3, 1}, ids(low))

	high, _ := Query{Sort: SortPriceHigh}.Apply(fixtures())
	for i := 1; i < len(high); i++ {
		assert.GreaterOrEqual(t, high[i-1].Price, high[i].Price)
	}
	assert.Equal(t, []int64{1, 3, 2, 4, 5}, ids(high))
}

func TestQuery_CategoryMatchesCategoryOrSubcategory(t *testing.T) {
	page, _ := Query{Category: "AVIATOR", Sort: SortPriceLow}.Apply(fixtures())
	assert.Equal(t, []int64{4, 1}, ids(page))

	page, _ = Query{Category: "cat-eye"}.Apply(fixtures())
	assert.Equal(t, []int64{2}, ids(page))
}

func TestQuery_Filters(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []int64
	}{
		{"gender", Query{Gender: "men"}, []int64{3, 5}},
		{"gender is exact", Query{Gender: "Men"}, []int64{}},
		{"bestseller", Query{Bestseller: true}, []int64{3, 1}},
		{"new", Query{New: true}, []int64{2, 3}},
		{"bestseller and new", Query{Bestseller: true, New: true}, []int64{3}},
		{"search name", Query{Search: "wrap"}, []int64{3}},
		{"search brand", Query{Search: "ray-ban"}, []int64{1, 5}},
		{"search description", Query{Search: "ACETATE"}, []int64{2}},
		{"search skips missing fields", Query{Search: "retro"}, []int64{4}},
		{"no match", Query{Search: "nothing"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, total := tt.query.Apply(fixtures())
			assert.Equal(t, tt.want, ids(page))
			assert.Equal(t, len(tt.want), total)
		})
	}
}

func TestQuery_ApplyDoesNotModifyInput(t *testing.T) {
	in := fixtures()
	Query{Sort: SortPriceHigh}.Apply(in)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(in))
}

func TestPaginate(t *testing.T) {
	all := fixtures()

	assert.Len(t, Paginate(all, 0, 0), 5)
	assert.Len(t, Paginate(all, -1, 0), 5)
	assert.Equal(t, []int64{2, 3}, ids(Paginate(all, 2, 1)))
	assert.Equal(t, []int64{5}, ids(Paginate(all, 10, 4)))
	assert.Empty(t, Paginate(all, 2, 5))
	assert.Equal(t, []int64{1}, ids(Paginate(all, 1, -3)))
}

func TestQuery_TotalIsCountedBeforeSlicing(t *testing.T) {
	page, total := Query{Limit: 2, Offset: 1}.Apply(fixtures())
	assert.Equal(t, 5, total)
	assert.Equal(t, []int64{4, 3}, ids(page))
}

func TestCategories(t *testing.T) {
	cats := Categories(fixtures())

	require.Len(t, cats, 3)
	assert.Equal(t, []Category{
		{Name: "Aviator", Count: 2},
		{Name: "Sport", Count: 1},
		{Name: "sunglasses", Count: 2},
	}, cats)
}

func TestCategories_Empty(t *testing.T) {
	cats := Categories(nil)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)
}
