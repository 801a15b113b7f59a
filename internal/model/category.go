package model

import (
	"fmt"
	"strings"
)

// Category classifies spending.
type Category string

const (
	CategoryFood          Category = "FOOD"
	CategoryTransport     Category = "TRANSPORT"
	CategoryRecreation    Category = "RECREATION"
	CategoryEntertainment Category = "ENTERTAINMENT"
)

var categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryRecreation,
	CategoryEntertainment,
}

// Categories returns the full enumeration in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory accepts any casing of a category name, e.g. "food".
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }
