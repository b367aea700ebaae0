package catalog

import (
	"cmp"
	"slices"
	"sort"
	"strings"

	"github.com/example/cityshades/domain/product"
)

// Sort orders accepted by Query.Sort. Anything else sorts newest first.
const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNewest    = "newest"
)

// Query filters and orders a product listing. Zero values disable a filter.
type Query struct {
	Category   string
	Gender     string
	Bestseller bool
	New        bool
	Search     string
	Sort       string
	Limit      int
	Offset     int
}

// Apply filters and sorts products, returning the matches before slicing and
// the requested page. The input slice is not modified.
func (q Query) Apply(products []product.Product) (page []product.Product, total int) {
	matched := q.Filter(products)
	SortProducts(matched, q.Sort)
	return Paginate(matched, q.Limit, q.Offset), len(matched)
}

// Filter applies category, gender, bestseller, new and search filters in that order.
func (q Query) Filter(products []product.Product) []product.Product {
	search := strings.TrimSpace(q.Search)

	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && !p.InCategory(q.Category) {
			continue
		}
		if q.Gender != "" && string(p.Gender) != q.Gender {
			continue
		}
		if q.Bestseller && !bool(p.IsBestseller) {
			continue
		}
		if q.New && !bool(p.IsNew) {
			continue
		}
		if search != "" && !p.Matches(search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts orders products in place. Ties keep their relative order.
func SortProducts(products []product.Product, order string) {
	switch order {
	case SortPriceLow:
		slices.SortStableFunc(products, func(a, b product.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(products, func(a, b product.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	default:
		slices.SortStableFunc(products, func(a, b product.Product) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		})
	}
}

// Paginate slices products. A limit of zero or less returns everything from offset on.
func Paginate(products []product.Product, limit, offset int) []product.Product {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(products) {
		return []product.Product{}
	}
	products = products[offset:]
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	return products
}

// Category is a distinct category with the number of products in it.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Categories groups products by category, case-insensitively, keeping the
// first spelling seen. Products without a category are not counted.
func Categories(products []product.Product) []Category {
	index := make(map[string]int)
	var out []Category
	for _, p := range products {
		name := strings.TrimSpace(p.Category)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if i, ok := index[key]; ok {
			out[i].Count++
			continue
		}
		index[key] = len(out)
		out = append(out, Category{Name: name, Count: 1})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	if out == nil {
		out = []Category{}
	}
	return out
}
