package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trackstars/trackstars/internal/currency"
)

// DefaultTag labels transactions recorded without one.
const DefaultTag = "unnamed"

// Transaction is a single spend posted against a bank. It is a value: once
// built by NewTransaction it is never modified.
type Transaction struct {
	Value    decimal.Decimal
	Category Category
	Date     Date
	Currency currency.Code
	Tag      string
}

// NewTransaction validates every field. An empty tag becomes DefaultTag.
func NewTransaction(value decimal.Decimal, category Category, date Date, code currency.Code, tag string) (Transaction, error) {
	if !value.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: transaction value must be positive, got %s", ErrInvalidAmount, value)
	}
	if !category.Valid() {
		return Transaction{}, fmt.Errorf("%w: %q", ErrInvalidCategory, string(category))
	}
	if _, err := NewDate(date.Day, date.Month, date.Year); err != nil {
		return Transaction{}, err
	}
	if !code.Valid() {
		return Transaction{}, fmt.Errorf("%w: %q", currency.ErrInvalidCurrency, string(code))
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		tag = DefaultTag
	}
	return Transaction{
		Value:    value,
		Category: category,
		Date:     date,
		Currency: code,
		Tag:      tag,
	}, nil
}

// Matches reports whether keyword (case-insensitive) appears in the tag or category.
func (t Transaction) Matches(keyword string) bool {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return false
	}
	return strings.Contains(strings.ToLower(t.Tag), k) ||
		strings.Contains(strings.ToLower(string(t.Category)), k)
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s | %s(%s) | %s", currency.Format(t.Currency, t.Value), t.Tag, t.Category, t.Date.Long())
}
