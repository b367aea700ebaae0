// Package product defines the catalog entity shared by the storefront modules.
package product

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Gender is the target audience of a product.
type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderUnisex Gender = "unisex"
)

// ParseGender lower-cases s and reports whether it names a known gender.
func ParseGender(s string) (Gender, bool) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMen, GenderWomen, GenderUnisex:
		return g, true
	default:
		return "", false
	}
}

// Product is a sunglasses listing.
//
// Images, colors and sizes may be stored either as native arrays or as
// JSON-encoded strings; both forms decode to the same canonical lists.
// Keys the struct does not model are kept in Extra and written back.
type Product struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Brand        string      `json:"brand"`
	SKU          string      `json:"sku"`
	Description  string      `json:"description"`
	Price        float64     `json:"price"`
	Category     string      `json:"category"`
	Subcategory  string      `json:"subcategory"`
	Gender       Gender      `json:"gender"`
	Images       StringList  `json:"images"`
	Colors       VariantList `json:"colors"`
	Sizes        VariantList `json:"sizes"`
	Stock        int         `json:"stock"`
	IsBestseller Flag        `json:"is_bestseller"`
	IsNew        Flag        `json:"is_new"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Extra map[string]json.RawMessage `json:"-"`
}

// TimestampLayout is the stored timestamp form: UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var knownKeys = map[string]bool{
	"id": true, "name": true, "brand": true, "sku": true, "description": true,
	"price": true, "category": true, "subcategory": true, "gender": true,
	"images": true, "colors": true, "sizes": true, "stock": true,
	"is_bestseller": true, "is_new": true, "created_at": true, "updated_at": true,
}

// UnmarshalJSON accepts loosely typed legacy records: ids and numeric fields
// may be strings, text fields may be numbers, and timestamps may use any
// layout understood by ParseTime. A field of the wrong shape (an object
// where text is expected, a non-numeric id) is an error.
func (p *Product) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	type alias Product
	aux := struct {
		*alias
		ID          json.RawMessage `json:"id"`
		Name        json.RawMessage `json:"name"`
		Brand       json.RawMessage `json:"brand"`
		SKU         json.RawMessage `json:"sku"`
		Description json.RawMessage `json:"description"`
		Price       json.RawMessage `json:"price"`
		Category    json.RawMessage `json:"category"`
		Subcategory json.RawMessage `json:"subcategory"`
		Gender      json.RawMessage `json:"gender"`
		Stock       json.RawMessage `json:"stock"`
		CreatedAt   json.RawMessage `json:"created_at"`
		UpdatedAt   json.RawMessage `json:"updated_at"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if present(aux.ID) {
		id, ok := ParseInt(aux.ID)
		if !ok {
			return fmt.Errorf("product id must be numeric, got %s", aux.ID)
		}
		p.ID = int64(id)
	}

	text := []struct {
		key string
		raw json.RawMessage
		dst *string
	}{
		{"name", aux.Name, &p.Name},
		{"brand", aux.Brand, &p.Brand},
		{"sku", aux.SKU, &p.SKU},
		{"description", aux.Description, &p.Description},
		{"category", aux.Category, &p.Category},
		{"subcategory", aux.Subcategory, &p.Subcategory},
	}
	for _, f := range text {
		if !present(f.raw) {
			continue
		}
		s, ok := ParseString(f.raw)
		if !ok {
			return fmt.Errorf("product %s must be text, got %s", f.key, f.raw)
		}
		*f.dst = s
	}
	if present(aux.Gender) {
		s, ok := ParseString(aux.Gender)
		if !ok {
			return fmt.Errorf("product gender must be text, got %s", aux.Gender)
		}
		p.Gender = Gender(s)
	}

	p.Price, _ = ParseFloat(aux.Price)
	p.Stock, _ = ParseInt(aux.Stock)
	p.CreatedAt, _ = ParseTime(aux.CreatedAt)
	p.UpdatedAt, _ = ParseTime(aux.UpdatedAt)

	p.Extra = nil
	for k, v := range fields {
		if knownKeys[k] {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[k] = v
	}
	return nil
}

// MarshalJSON writes the modeled fields in declaration order followed by the
// Extra keys in sorted order. Zero timestamps are written as null.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	aux := struct {
		alias
		CreatedAt *string `json:"created_at"`
		UpdatedAt *string `json:"updated_at"`
	}{
		alias:     alias(p),
		CreatedAt: timestamp(p.CreatedAt),
		UpdatedAt: timestamp(p.UpdatedAt),
	}

	data, err := json.Marshal(aux)
	if err != nil || len(p.Extra) == 0 {
		return data, err
	}

	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		if !knownKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	buf := bytes.NewBuffer(data[:len(data)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(p.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func timestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(TimestampLayout)
	return &s
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && string(raw) != "null"
}

// Matches reports whether the lower-cased term occurs in the name, brand or description.
func (p Product) Matches(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Brand), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

// InCategory reports a case-insensitive match against category or subcategory.
func (p Product) InCategory(category string) bool {
	return strings.EqualFold(p.Category, category) ||
		(p.Subcategory != "" && strings.EqualFold(p.Subcategory, category))
}
