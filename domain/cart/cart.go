// Package cart implements the shopper-side cart and wishlist.
//
// A cart is owned by one shopping session. Every mutation is written through
// to Storage, which plays the role of the browser's local storage; a nil
// Storage gives a transient cart.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/example/cityshades/domain/product"
)

const (
	cartKey     = "cart"
	wishlistKey = "wishlist"
)

// ErrNotFound is returned by Storage.Load when the key has never been saved.
var ErrNotFound = errors.New("key not found")

// Storage is a key/value store for serialized cart state.
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// LineItem is one (product, color, size) entry in a cart.
type LineItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand,omitempty"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
}

// Subtotal is price times quantity.
func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

func (li LineItem) matches(productID int64, color, size string) bool {
	return li.ProductID == productID && li.Color == color && li.Size == size
}

// Cart is an ordered collection of line items, unique by (product id, color, size).
type Cart struct {
	items   []LineItem
	storage Storage
}

// New returns a cart restored from storage. A missing or unreadable saved
// cart yields an empty one.
func New(storage Storage) *Cart {
	c := &Cart{storage: storage}
	if storage == nil {
		return c
	}
	if data, err := storage.Load(cartKey); err == nil {
		var items []LineItem
		if json.Unmarshal(data, &items) == nil {
			c.items = items
		}
	}
	return c
}

// FromItems builds a transient cart from existing line items, merging
// duplicates and dropping lines with a quantity below 1.
func FromItems(items []LineItem) *Cart {
	c := &Cart{}
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if i := c.index(it.ProductID, it.Color, it.Size); i >= 0 {
			c.items[i].Quantity += it.Quantity
			continue
		}
		c.items = append(c.items, it)
	}
	return c
}

// Add merges qty of the product in the given color and size into the cart.
// The quantity is added to an existing line, or to zero for a new one; a qty
// below 1 counts as 1.
func (c *Cart) Add(p product.Product, color, size product.Variant, qty int) error {
	if qty < 1 {
		qty = 1
	}
	colorKey, sizeKey := color.Key(), size.Key()

	if i := c.index(p.ID, colorKey, sizeKey); i >= 0 {
		c.items[i].Quantity += qty
		return c.persist()
	}

	item := LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Price:     p.Price,
		Color:     colorKey,
		Size:      sizeKey,
		Quantity:  qty,
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0]
	}
	c.items = append(c.items, item)
	return c.persist()
}

// Remove drops the line matching the stored color and size exactly.
func (c *Cart) Remove(productID int64, color, size string) error {
	i := c.index(productID, color, size)
	if i < 0 {
		return nil
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return c.persist()
}

// UpdateQuantity sets a line's quantity, removing it when qty is below 1.
func (c *Cart) UpdateQuantity(productID int64, color, size string, qty int) error {
	if qty < 1 {
		return c.Remove(productID, color, size)
	}
	i := c.index(productID, color, size)
	if i < 0 {
		return nil
	}
	c.items[i].Quantity = qty
	return c.persist()
}

// Clear empties the cart.
func (c *Cart) Clear() error {
	c.items = nil
	return c.persist()
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total is the sum of price times quantity, rounded to cents.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Subtotal()
	}
	return RoundCents(total)
}

// Count is the sum of quantities.
func (c *Cart) Count() int {
	var n int
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) index(productID int64, color, size string) int {
	for i, it := range c.items {
		if it.matches(productID, color, size) {
			return i
		}
	}
	return -1
}

func (c *Cart) persist() error {
	return save(c.storage, cartKey, c.items)
}

func save(storage Storage, key string, v any) error {
	if storage == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := storage.Save(key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// RoundCents rounds an amount to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
