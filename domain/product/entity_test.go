package product

import (
	"encoding/json"
	"testing"
)

func TestProduct_UnmarshalLegacyRecord(t *testing.T) {
	raw := `{
		"id": 3,
		"name": "Aviator Classic",
		"price": "149.00",
		"stock": "12",
		"gender": "men",
		"images": "[\"aviator-1.jpg\",\"aviator-2.jpg\"]",
		"colors": "[\"Gold\",\"Silver\"]",
		"sizes": ["M", "L"],
		"is_bestseller": 1,
		"is_new": "0",
		"created_at": "2024-01-15T10:00:00.000Z"
	}`

	var p Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if p.Price != 149 {
		t.Errorf("Price = %v, want 149", p.Price)
	}
	if p.Stock != 12 {
		t.Errorf("Stock = %v, want 12", p.Stock)
	}
	if len(p.Images) != 2 || p.Images[1] != "aviator-2.jpg" {
		t.Errorf("Images = %v, want two decoded entries", p.Images)
	}
	if len(p.Colors) != 2 || p.Colors[0].Key() != "Gold" {
		t.Errorf("Colors = %v, want [Gold Silver]", p.Colors.Keys())
	}
	if !p.IsBestseller || p.IsNew {
		t.Errorf("flags = (%v, %v), want (true, false)", p.IsBestseller, p.IsNew)
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}
	if p.Description != "" || p.Brand != "" {
		t.Error("missing string fields should decode as empty")
	}
}

func TestProduct_MarshalNormalizedArrays(t *testing.T) {
	p := Product{ID: 1, Name: "Wayfarer", Images: StringList{"w.jpg"}, IsNew: true}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := m["images"].([]any); !ok {
		t.Errorf("images = %T, want array", m["images"])
	}
	if _, ok := m["sizes"].([]any); !ok {
		t.Errorf("sizes = %T, want array for nil list", m["sizes"])
	}
	if m["is_new"] != float64(1) || m["is_bestseller"] != float64(0) {
		t.Errorf("flags = (%v, %v), want (0, 1)", m["is_bestseller"], m["is_new"])
	}
}

func TestProduct_MatchesAndInCategory(t *testing.T) {
	p := Product{Name: "Round Metal", Brand: "Lumen", Description: "Polarized lenses", Category: "Sunglasses", Subcategory: "Polarized"}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"search name", p.Matches("round"), true},
		{"search brand", p.Matches("LUMEN"), true},
		{"search description", p.Matches("polar"), true},
		{"search miss", p.Matches("aviator"), false},
		{"category case-insensitive", p.InCategory("sunglasses"), true},
		{"subcategory", p.InCategory("POLARIZED"), true},
		{"category miss", p.InCategory("eyeglasses"), false},
		{"empty subcategory never matches empty", Product{Category: "x"}.InCategory(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestParseGender(t *testing.T) {
	if g, ok := ParseGender(" Women "); !ok || g != GenderWomen {
		t.Errorf("ParseGender(Women) = (%v, %v), want (women, true)", g, ok)
	}
	if _, ok := ParseGender("kids"); ok {
		t.Error("ParseGender(kids) should be rejected")
	}
}

func TestProduct_UnmarshalCoercesIDAndText(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`{"id":"3","sku":12345,"name":"Round","gender":"women"}`), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.ID != 3 || p.SKU != "12345" || p.Name != "Round" || p.Gender != GenderWomen {
		t.Errorf("got id=%d sku=%q name=%q gender=%q", p.ID, p.SKU, p.Name, p.Gender)
	}
}

func TestProduct_UnmarshalRejectsWrongShapes(t *testing.T) {
	for _, raw := range []string{
		`{"id":"abc"}`,
		`{"id":1,"name":{"en":"Aviator"}}`,
		`{"id":1,"brand":["a"]}`,
		`"not a product"`,
	} {
		var p Product
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			t.Errorf("Unmarshal(%s) should fail", raw)
		}
	}
}

func TestProduct_RoundTripKeepsUnknownKeys(t *testing.T) {
	raw := `{"id":1,"name":"Aviator","rating":4.5,"tags":["retro"],"created_at":"2024-01-15T10:30:00.000Z"}`

	var p Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(p.Extra) != 2 {
		t.Fatalf("Extra = %v, want rating and tags", p.Extra)
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m["rating"] != 4.5 {
		t.Errorf("rating = %v, want 4.5", m["rating"])
	}
	if tags, ok := m["tags"].([]any); !ok || len(tags) != 1 || tags[0] != "retro" {
		t.Errorf("tags = %v, want [retro]", m["tags"])
	}
	if m["created_at"] != "2024-01-15T10:30:00.000Z" {
		t.Errorf("created_at = %v, want the stored text", m["created_at"])
	}
	if m["updated_at"] != nil {
		t.Errorf("updated_at = %v, want null for a missing timestamp", m["updated_at"])
	}
	if _, ok := m["subcategory"]; !ok {
		t.Error("subcategory should always be written")
	}
}
