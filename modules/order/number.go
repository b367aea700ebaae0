package order

import (
	"fmt"
	"strings"
	"sync"

	nanoid "github.com/jaevor/go-nanoid"
)

const (
	// NumberPrefix starts every order number.
	NumberPrefix = "CS-"
	// NumberAlphabet is the character set of the random suffix.
	NumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// NumberLength is the length of the random suffix.
	NumberLength = 8
)

// NumberGenerator produces order numbers such as CS-7KQ2M0ZD.
type NumberGenerator struct {
	mu   sync.Mutex
	next func() string
}

// NewNumberGenerator creates a generator backed by nanoid.
func NewNumberGenerator() (*NumberGenerator, error) {
	next, err := nanoid.CustomASCII(NumberAlphabet, NumberLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create order number generator: %w", err)
	}
	return &NumberGenerator{next: next}, nil
}

// Next returns a fresh order number.
func (g *NumberGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return NumberPrefix + g.next()
}

// Unique returns a number for which taken reports false.
func (g *NumberGenerator) Unique(taken func(string) bool) string {
	for {
		n := g.Next()
		if !taken(n) {
			return n
		}
	}
}

// IsValidNumber reports whether s has the shape of an order number.
func IsValidNumber(s string) bool {
	suffix, ok := strings.CutPrefix(s, NumberPrefix)
	if !ok || len(suffix) != NumberLength {
		return false
	}
	for _, c := range suffix {
		if !strings.ContainsRune(NumberAlphabet, c) {
			return false
		}
	}
	return true
}
