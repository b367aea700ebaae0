package cart

import (
	"encoding/json"

	"github.com/example/cityshades/domain/product"
)

// Wishlist is a set of product snapshots keyed by product id.
type Wishlist struct {
	items   []product.Product
	storage Storage
}

// NewWishlist returns a wishlist restored from storage.
func NewWishlist(storage Storage) *Wishlist {
	w := &Wishlist{storage: storage}
	if storage == nil {
		return w
	}
	if data, err := storage.Load(wishlistKey); err == nil {
		var items []product.Product
		if json.Unmarshal(data, &items) == nil {
			w.items = items
		}
	}
	return w
}

// Toggle adds the product when absent and removes it when present. It
// reports whether the product is in the wishlist afterwards.
func (w *Wishlist) Toggle(p product.Product) (bool, error) {
	for i, it := range w.items {
		if it.ID == p.ID {
			w.items = append(w.items[:i], w.items[i+1:]...)
			return false, save(w.storage, wishlistKey, w.items)
		}
	}
	w.items = append(w.items, p)
	return true, save(w.storage, wishlistKey, w.items)
}

// Contains reports whether a product id is in the wishlist.
func (w *Wishlist) Contains(productID int64) bool {
	for _, it := range w.items {
		if it.ID == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the stored snapshots.
func (w *Wishlist) Items() []product.Product {
	out := make([]product.Product, len(w.items))
	copy(out, w.items)
	return out
}

// Len is the number of products in the wishlist.
func (w *Wishlist) Len() int {
	return len(w.items)
}
