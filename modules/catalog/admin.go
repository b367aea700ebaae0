package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/cityshades/domain/product"
	"github.com/example/cityshades/modules/datastore"
)

// Defaults applied to fields left blank on create.
const (
	DefaultName     = "Unnamed Product"
	DefaultCategory = "sunglasses"
	DefaultSize     = "M"
)

// ProductInput is a loosely typed product submission from the admin panel.
// Every field keeps its raw JSON so that an absent field can be told apart
// from an empty one, and so that numbers may arrive as strings and lists as
// JSON-encoded strings.
type ProductInput struct {
	Name         json.RawMessage `json:"name,omitempty"`
	Brand        json.RawMessage `json:"brand,omitempty"`
	SKU          json.RawMessage `json:"sku,omitempty"`
	Description  json.RawMessage `json:"description,omitempty"`
	Price        json.RawMessage `json:"price,omitempty"`
	Category     json.RawMessage `json:"category,omitempty"`
	Subcategory  json.RawMessage `json:"subcategory,omitempty"`
	Gender       json.RawMessage `json:"gender,omitempty"`
	Images       json.RawMessage `json:"images,omitempty"`
	Colors       json.RawMessage `json:"colors,omitempty"`
	Sizes        json.RawMessage `json:"sizes,omitempty"`
	Stock        json.RawMessage `json:"stock,omitempty"`
	IsBestseller json.RawMessage `json:"is_bestseller,omitempty"`
	IsNew        json.RawMessage `json:"is_new,omitempty"`
}

// NewProduct builds a product from in, substituting defaults for blank
// fields. The caller assigns the id.
func NewProduct(in ProductInput, now time.Time) (product.Product, error) {
	p := product.Product{
		Name:         text(in.Name),
		Brand:        text(in.Brand),
		SKU:          text(in.SKU),
		Description:  text(in.Description),
		Category:     text(in.Category),
		Subcategory:  text(in.Subcategory),
		Images:       product.DecodeStringList(in.Images),
		Colors:       product.DecodeVariantList(in.Colors),
		IsBestseller: product.Flag(product.ParseFlag(in.IsBestseller)),
		IsNew:        product.Flag(product.ParseFlag(in.IsNew)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p.Price, _ = product.ParseFloat(in.Price)
	p.Stock, _ = product.ParseInt(in.Stock)

	if strings.TrimSpace(p.Name) == "" {
		p.Name = DefaultName
	}
	if strings.TrimSpace(p.SKU) == "" {
		p.SKU = fmt.Sprintf("SKU-%d", now.UnixMilli())
	}
	if strings.TrimSpace(p.Category) == "" {
		p.Category = DefaultCategory
	}

	p.Gender = product.GenderUnisex
	if g := text(in.Gender); strings.TrimSpace(g) != "" {
		parsed, ok := product.ParseGender(g)
		if !ok {
			return product.Product{}, ErrInvalidGender
		}
		p.Gender = parsed
	}

	p.Sizes = product.DecodeVariantList(in.Sizes)
	if len(p.Sizes) == 0 {
		p.Sizes = product.VariantList{product.Plain(DefaultSize)}
	}

	if err := validate(p); err != nil {
		return product.Product{}, err
	}
	return p, nil
}

// ApplyUpdate returns p with every field present in in replaced. Absent or
// null fields keep their existing value; a blank gender does too, and images,
// colors and sizes are only replaced by a truthy value.
func ApplyUpdate(p product.Product, in ProductInput, now time.Time) (product.Product, error) {
	if present(in.Name) {
		p.Name = text(in.Name)
	}
	if present(in.Brand) {
		p.Brand = text(in.Brand)
	}
	if present(in.SKU) {
		p.SKU = text(in.SKU)
	}
	if present(in.Description) {
		p.Description = text(in.Description)
	}
	if present(in.Price) {
		p.Price, _ = product.ParseFloat(in.Price)
	}
	if present(in.Category) {
		p.Category = text(in.Category)
	}
	if present(in.Subcategory) {
		p.Subcategory = text(in.Subcategory)
	}
	if raw := text(in.Gender); raw != "" {
		g, ok := product.ParseGender(raw)
		if !ok {
			return product.Product{}, ErrInvalidGender
		}
		p.Gender = g
	}
	if truthy(in.Images) {
		p.Images = product.DecodeStringList(in.Images)
	}
	if truthy(in.Colors) {
		p.Colors = product.DecodeVariantList(in.Colors)
	}
	if truthy(in.Sizes) {
		p.Sizes = product.DecodeVariantList(in.Sizes)
	}
	if present(in.Stock) {
		p.Stock, _ = product.ParseInt(in.Stock)
	}
	if present(in.IsBestseller) {
		p.IsBestseller = product.Flag(product.ParseFlag(in.IsBestseller))
	}
	if present(in.IsNew) {
		p.IsNew = product.Flag(product.ParseFlag(in.IsNew))
	}
	p.UpdatedAt = now

	if err := validate(p); err != nil {
		return product.Product{}, err
	}
	return p, nil
}

// NextID returns one more than the largest id among products and the held
// records that did not decode as products, or 1 for an empty catalog.
func NextID(products []product.Product, held []json.RawMessage) int64 {
	maxID := datastore.MaxID(held)
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

func validate(p product.Product) error {
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && string(raw) != "null"
}

func truthy(raw json.RawMessage) bool {
	if !present(raw) {
		return false
	}
	switch string(bytes.TrimSpace(raw)) {
	case `""`, "false", "0":
		return false
	}
	return true
}

func text(raw json.RawMessage) string {
	s, _ := product.ParseString(raw)
	return strings.TrimSpace(s)
}
