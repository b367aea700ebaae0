package product

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxEncodingDepth bounds how many times a list may be JSON-encoded inside a string.
const maxEncodingDepth = 3

// StringList is an ordered list of strings that decodes from either a JSON
// array or a JSON-encoded string holding an array. Malformed input decodes
// to an empty list.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	*l = DecodeStringList(data)
	return nil
}

// MarshalJSON always emits an array, never null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// DecodeStringList normalizes raw into a string list.
func DecodeStringList(raw json.RawMessage) StringList {
	items, ok := unwrapArray(raw, 0)
	if !ok {
		return StringList{}
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		if s, ok := scalarString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// Variant is a color or size option. It is stored either as a bare string
// ("Black") or as a record ({"name":"Black","hex":"#000"} or {"value":"M"}),
// and re-encodes in the form it was read.
type Variant struct {
	Name   string `json:"name,omitempty"`
	Hex    string `json:"hex,omitempty"`
	Value  string `json:"value,omitempty"`
	record bool
}

// Plain returns a bare-string variant.
func Plain(name string) Variant {
	return Variant{Name: name}
}

// Swatch returns a color record with a hex code.
func Swatch(name, hex string) Variant {
	return Variant{Name: name, Hex: hex, record: true}
}

// Key is the normalized identity of the variant: its name, or its value when unnamed.
func (v Variant) Key() string {
	if v.Name != "" {
		return v.Name
	}
	return v.Value
}

// IsRecord reports whether the variant was given as an object.
func (v Variant) IsRecord() bool {
	return v.record
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Variant) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		type fields Variant
		var f fields
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = Variant(f)
		v.record = true
		return nil
	}
	s, ok := scalarString(data)
	if !ok {
		return fmt.Errorf("variant must be a string or object, got %s", data)
	}
	*v = Variant{Name: s}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v Variant) MarshalJSON() ([]byte, error) {
	if !v.record {
		return json.Marshal(v.Name)
	}
	type fields Variant
	return json.Marshal(fields(v))
}

// VariantList is an ordered list of variants with the same string-or-array
// decoding rules as StringList.
type VariantList []Variant

// UnmarshalJSON implements json.Unmarshaler.
func (l *VariantList) UnmarshalJSON(data []byte) error {
	*l = DecodeVariantList(data)
	return nil
}

// MarshalJSON always emits an array, never null.
func (l VariantList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Variant(l))
}

// Keys returns the normalized key of every variant.
func (l VariantList) Keys() []string {
	keys := make([]string, 0, len(l))
	for _, v := range l {
		keys = append(keys, v.Key())
	}
	return keys
}

// DecodeVariantList normalizes raw into a variant list, skipping elements
// that are neither strings nor objects.
func DecodeVariantList(raw json.RawMessage) VariantList {
	items, ok := unwrapArray(raw, 0)
	if !ok {
		return VariantList{}
	}
	out := make(VariantList, 0, len(items))
	for _, item := range items {
		var v Variant
		if err := json.Unmarshal(item, &v); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// unwrapArray returns the elements of raw, following JSON-encoded strings
// up to maxEncodingDepth levels.
func unwrapArray(raw json.RawMessage, depth int) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || depth > maxEncodingDepth {
		return nil, false
	}
	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, false
		}
		return items, true
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, true
		}
		return unwrapArray(json.RawMessage(s), depth+1)
	default:
		return nil, false
	}
}

// ParseString decodes a JSON string, or renders a JSON number as text.
func ParseString(raw json.RawMessage) (string, bool) {
	return scalarString(raw)
}

// scalarString renders a JSON string or number as a Go string.
func scalarString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch {
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		return string(raw), true
	default:
		return "", false
	}
}

// Flag is a marketing tag stored as the integer 0 or 1.
type Flag bool

// UnmarshalJSON accepts 0/1 numbers, numeric strings, and booleans. Only the
// value 1 (or true) sets the flag.
func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = Flag(ParseFlag(data))
	return nil
}

// MarshalJSON emits 1 or 0.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// ParseFlag coerces raw to a 0/1 flag.
func ParseFlag(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "true":
		return true
	case "false", "null", "":
		return false
	}
	if s, ok := unquote(raw); ok && strings.EqualFold(strings.TrimSpace(s), "true") {
		return true
	}
	n, ok := ParseInt(raw)
	return ok && n == 1
}

// ParseFloat coerces a JSON number or numeric string. It reports false and
// returns 0 when raw is absent or not numeric.
func ParseFloat(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	text := string(raw)
	if s, ok := unquote(raw); ok {
		text = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseInt coerces a JSON number, numeric string, or boolean to an int,
// truncating fractions. It reports false and returns 0 on failure.
func ParseInt(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	f, ok := ParseFloat(raw)
	if !ok {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime decodes a timestamp given as a string in a common layout or as
// epoch milliseconds. It returns the zero time when raw cannot be parsed.
func ParseTime(raw json.RawMessage) (time.Time, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, false
	}
	if s, ok := unquote(raw); ok {
		s = strings.TrimSpace(s)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	if ms, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

func unquote(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
