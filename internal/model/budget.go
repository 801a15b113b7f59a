package model

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/trackstars/trackstars/internal/currency"
)

// GlobalBankID marks a budget that belongs to no bank.
const GlobalBankID = -1

// Budget caps spending in one category for one month. A nil Bank makes
// it a global budget.
type Budget struct {
	Category Category
	Amount   decimal.Decimal
	Currency currency.Code
	Month    Month
	Bank     *Bank
}

// NewBudget validates the fields. A bank-owned budget must be in the
// bank's currency.
func NewBudget(category Category, amount decimal.Decimal, code currency.Code, month Month, bank *Bank) (*Budget, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, string(category))
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: budget cannot be negative, got %s", ErrInvalidAmount, amount)
	}
	if !code.Valid() {
		return nil, fmt.Errorf("%w: %q", currency.ErrInvalidCurrency, string(code))
	}
	if !month.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMonth, int(month))
	}
	if bank != nil && bank.Currency != code {
		return nil, fmt.Errorf("%w: budget in %s for a %s bank", currency.ErrInvalidCurrency, code, bank.Currency)
	}
	return &Budget{
		Category: category,
		Amount:   amount,
		Currency: code,
		Month:    month,
		Bank:     bank,
	}, nil
}

// BankID returns the owning bank's id, or GlobalBankID.
func (b *Budget) BankID() int {
	if b.Bank == nil {
		return GlobalBankID
	}
	return b.Bank.ID
}

// IsGlobal reports whether the budget has no owning bank.
func (b *Budget) IsGlobal() bool { return b.Bank == nil }

// Matches reports whether the budget is keyed by (category, month, bank).
func (b *Budget) Matches(category Category, month Month, bank *Bank) bool {
	return b.Category == category && b.Month == month && b.Bank == bank
}

// Remaining returns what is left after spent; negative when overspent.
func (b *Budget) Remaining(spent decimal.Decimal) decimal.Decimal {
	return b.Amount.Sub(spent)
}

func (b *Budget) String() string {
	owner := "global"
	if b.Bank != nil {
		owner = fmt.Sprintf("bank %d", b.Bank.ID)
	}
	return fmt.Sprintf("%s budget of %s for %s (%s)", b.Month, currency.Format(b.Currency, b.Amount), b.Category, owner)
}
