package model

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/trackstars/trackstars/internal/currency"
)

// Bank is one account held in a single currency. Its balance is never
// negative; all mutators leave the bank untouched when they fail.
type Bank struct {
	ID           int
	Currency     currency.Code
	ExchangeRate decimal.Decimal // rate to the base currency recorded at creation

	balance      decimal.Decimal
	transactions []Transaction
	budgets      []*Budget
}

// NewBank validates the currency, balance and exchange rate.
func NewBank(id int, code currency.Code, balance, exchangeRate decimal.Decimal) (*Bank, error) {
	if id < 0 {
		return nil, fmt.Errorf("bank id must be non-negative, got %d", id)
	}
	if !code.Valid() {
		return nil, fmt.Errorf("%w: %q", currency.ErrInvalidCurrency, string(code))
	}
	b := &Bank{ID: id, Currency: code}
	if err := b.SetBalance(balance); err != nil {
		return nil, err
	}
	if err := b.SetExchangeRate(exchangeRate); err != nil {
		return nil, err
	}
	return b, nil
}

// Balance returns the current balance.
func (b *Bank) Balance() decimal.Decimal { return b.balance }

// SetBalance rejects negative values and clamps values above MaxBalance.
func (b *Bank) SetBalance(v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: balance cannot be negative, got %s", ErrInvalidBalance, v)
	}
	if v.GreaterThan(MaxBalance) {
		v = MaxBalance
	}
	b.balance = v
	return nil
}

// SetExchangeRate rejects negative rates.
func (b *Bank) SetExchangeRate(v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: exchange rate cannot be negative, got %s", ErrInvalidAmount, v)
	}
	b.ExchangeRate = v
	return nil
}

// Deposit adds a positive amount to the balance.
func (b *Bank) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit must be positive, got %s", ErrInvalidAmount, amount)
	}
	return b.SetBalance(b.balance.Add(amount))
}

// Withdraw removes a positive amount no greater than the balance.
func (b *Bank) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal must be positive, got %s", ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(b.balance) {
		return fmt.Errorf("%w: balance is %s", ErrInsufficientFunds, currency.Format(b.Currency, b.balance))
	}
	return b.SetBalance(b.balance.Sub(amount))
}

// Transactions returns a copy of the bank's transactions in insertion order.
func (b *Bank) Transactions() []Transaction {
	out := make([]Transaction, len(b.transactions))
	copy(out, b.transactions)
	return out
}

// TransactionCount returns the number of recorded transactions.
func (b *Bank) TransactionCount() int { return len(b.transactions) }

// AddTransaction posts t: it is appended and its value debited from the balance.
func (b *Bank) AddTransaction(t Transaction) error {
	if t.Currency != b.Currency {
		return fmt.Errorf("%w: transaction in %s cannot post to a %s bank", currency.ErrInvalidCurrency, t.Currency, b.Currency)
	}
	if t.Value.GreaterThan(b.balance) {
		return fmt.Errorf("%w: balance is %s", ErrInsufficientFunds, currency.Format(b.Currency, b.balance))
	}
	if err := b.SetBalance(b.balance.Sub(t.Value)); err != nil {
		return err
	}
	b.transactions = append(b.transactions, t)
	return nil
}

// RestoreTransaction appends t without touching the balance. Used when
// loading persisted state, where the stored balance already reflects t.
func (b *Bank) RestoreTransaction(t Transaction) error {
	if t.Currency != b.Currency {
		return fmt.Errorf("%w: transaction in %s cannot belong to a %s bank", currency.ErrInvalidCurrency, t.Currency, b.Currency)
	}
	b.transactions = append(b.transactions, t)
	return nil
}

// DeleteTransaction removes the transaction at the 0-based index and
// credits its value back to the balance.
func (b *Bank) DeleteTransaction(index int) (Transaction, error) {
	if index < 0 || index >= len(b.transactions) {
		return Transaction{}, fmt.Errorf("%w: %d not in 0..%d", ErrIndexOutOfRange, index, len(b.transactions)-1)
	}
	removed := b.transactions[index]
	if err := b.SetBalance(b.balance.Add(removed.Value)); err != nil {
		return Transaction{}, err
	}
	b.transactions = append(b.transactions[:index:index], b.transactions[index+1:]...)
	return removed, nil
}

// Budgets returns the budgets registered against this bank.
func (b *Bank) Budgets() []*Budget {
	out := make([]*Budget, len(b.budgets))
	copy(out, b.budgets)
	return out
}

// AttachBudget registers bgt in the bank's local set, replacing one with
// the same category and month.
func (b *Bank) AttachBudget(bgt *Budget) error {
	if bgt.Bank != b {
		return fmt.Errorf("budget for bank %d cannot attach to bank %d", bgt.BankID(), b.ID)
	}
	for i, existing := range b.budgets {
		if existing.Category == bgt.Category && existing.Month == bgt.Month {
			b.budgets[i] = bgt
			return nil
		}
	}
	b.budgets = append(b.budgets, bgt)
	return nil
}

func (b *Bank) String() string {
	return fmt.Sprintf("Bank Account %d in %s with balance %s and exchange rate %s",
		b.ID, b.Currency, currency.Format(b.Currency, b.balance), b.ExchangeRate.StringFixed(6))
}
