package registry

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/model"
)

var (
	// ErrBankNotFound is returned when no bank has the requested id.
	ErrBankNotFound = errors.New("bank not found")
	// ErrAlreadyLoggedIn is returned by Login while a bank is current.
	ErrAlreadyLoggedIn = errors.New("already logged into a bank")
)

// Registry owns the in-memory banks, budgets and the logged-in session.
type Registry struct {
	banks   []*model.Bank
	byID    map[int]*model.Bank
	budgets []*model.Budget
	current *model.Bank
}

// Entry pairs a transaction with its owning bank and its 0-based position
// in that bank's list.
type Entry struct {
	Bank        *model.Bank
	Position    int
	Transaction model.Transaction
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{byID: make(map[int]*model.Bank)}
}

// AddBank registers b, assigning it the next id.
func (r *Registry) AddBank(b *model.Bank) *model.Bank {
	b.ID = len(r.banks)
	r.banks = append(r.banks, b)
	r.byID[b.ID] = b
	return b
}

// OpenBank creates and registers a bank in code with an opening balance.
// Its exchange rate is the currency's rate to the base currency.
func (r *Registry) OpenBank(code currency.Code, balance decimal.Decimal) (*model.Bank, error) {
	rate, err := currency.RateToBase(code)
	if err != nil {
		return nil, err
	}
	b, err := model.NewBank(len(r.banks), code, balance, rate)
	if err != nil {
		return nil, err
	}
	return r.AddBank(b), nil
}

// Banks returns all banks in id order.
func (r *Registry) Banks() []*model.Bank {
	out := make([]*model.Bank, len(r.banks))
	copy(out, r.banks)
	return out
}

// Bank returns the bank with id.
func (r *Registry) Bank(id int) (*model.Bank, error) {
	b, ok := r.byID[id]
	if !ok {
		if len(r.banks) == 0 {
			return nil, fmt.Errorf("%w: %d, no banks registered", ErrBankNotFound, id)
		}
		return nil, fmt.Errorf("%w: %d, try an id in 0..%d", ErrBankNotFound, id, len(r.banks)-1)
	}
	return b, nil
}

// BanksIn returns the banks held in code.
func (r *Registry) BanksIn(code currency.Code) []*model.Bank {
	var out []*model.Bank
	for _, b := range r.banks {
		if b.Currency == code {
			out = append(out, b)
		}
	}
	return out
}

// AddBudget records b. A budget already keyed by the same (category,
// month, bank) is replaced. Bank-owned budgets are also registered with
// their bank.
func (r *Registry) AddBudget(b *model.Budget) error {
	if b.Bank != nil {
		if owner, ok := r.byID[b.Bank.ID]; !ok || owner != b.Bank {
			return fmt.Errorf("%w: budget refers to unregistered bank %d", ErrBankNotFound, b.Bank.ID)
		}
		if err := b.Bank.AttachBudget(b); err != nil {
			return err
		}
	}
	for i, existing := range r.budgets {
		if existing.Matches(b.Category, b.Month, b.Bank) {
			r.budgets[i] = b
			return nil
		}
	}
	r.budgets = append(r.budgets, b)
	return nil
}

// Budgets returns every budget, global and bank-owned, in insertion order.
func (r *Registry) Budgets() []*model.Budget {
	out := make([]*model.Budget, len(r.budgets))
	copy(out, r.budgets)
	return out
}

// BudgetsFor returns the budgets for month. A nil bank selects every budget.
func (r *Registry) BudgetsFor(month model.Month, bank *model.Bank) []*model.Budget {
	var out []*model.Budget
	for _, b := range r.budgets {
		if b.Month != month {
			continue
		}
		if bank != nil && b.Bank != bank {
			continue
		}
		out = append(out, b)
	}
	return out
}

// FindBudget returns the budget keyed by (category, month, bank), or nil.
// A nil bank matches global budgets only. If duplicates were ever
// recorded the last one wins.
func (r *Registry) FindBudget(category model.Category, month model.Month, bank *model.Bank) *model.Budget {
	var found *model.Budget
	for _, b := range r.budgets {
		if b.Matches(category, month, bank) {
			found = b
		}
	}
	return found
}

// TotalBudget sums allocated amounts for (category, month). With a bank it
// is that bank's budget (zero when unset); with nil it is the raw sum over
// every bank's budgets, without currency conversion.
func (r *Registry) TotalBudget(category model.Category, month model.Month, bank *model.Bank) decimal.Decimal {
	if bank != nil {
		if b := r.FindBudget(category, month, bank); b != nil {
			return b.Amount
		}
		return decimal.Zero
	}
	total := decimal.Zero
	for _, b := range r.budgets {
		if b.Bank != nil && b.Category == category && b.Month == month {
			total = total.Add(b.Amount)
		}
	}
	return total
}

// Transactions returns a flattened view in bank order, then insertion
// order. A non-nil bank restricts the view to that bank.
func (r *Registry) Transactions(bank *model.Bank) []Entry {
	banks := r.banks
	if bank != nil {
		banks = []*model.Bank{bank}
	}
	var out []Entry
	for _, b := range banks {
		for i, t := range b.Transactions() {
			out = append(out, Entry{Bank: b, Position: i, Transaction: t})
		}
	}
	return out
}

// Login makes the bank with id current.
func (r *Registry) Login(id int) (*model.Bank, error) {
	if r.current != nil {
		return nil, fmt.Errorf("%w: bank %d, logout first", ErrAlreadyLoggedIn, r.current.ID)
	}
	b, err := r.Bank(id)
	if err != nil {
		return nil, err
	}
	r.current = b
	return b, nil
}

// Logout clears the current bank. It reports whether one was set.
func (r *Registry) Logout() bool {
	was := r.current != nil
	r.current = nil
	return was
}

// Current returns the logged-in bank or nil.
func (r *Registry) Current() *model.Bank { return r.current }

// IsLoggedIn reports whether a bank is current.
func (r *Registry) IsLoggedIn() bool { return r.current != nil }
