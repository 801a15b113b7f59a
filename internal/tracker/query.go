package tracker

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/trackstars/trackstars/internal/model"
	"github.com/trackstars/trackstars/internal/registry"
)

func (t *Tracker) selectEntries(keep func(model.Transaction) bool) ([]registry.Entry, error) {
	b, err := t.current()
	if err != nil {
		return nil, err
	}
	var out []registry.Entry
	for _, e := range t.reg.Transactions(b) {
		if keep(e.Transaction) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Search returns the current bank's transactions whose tag or category
// contains keyword, ignoring case.
func (t *Tracker) Search(keyword string) ([]registry.Entry, error) {
	return t.selectEntries(func(tx model.Transaction) bool { return tx.Matches(keyword) })
}

// FilterCategory returns the current bank's transactions in category.
func (t *Tracker) FilterCategory(category model.Category) ([]registry.Entry, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidCategory, string(category))
	}
	return t.selectEntries(func(tx model.Transaction) bool { return tx.Category == category })
}

// FilterCost returns the current bank's transactions valued in [lo, hi].
func (t *Tracker) FilterCost(lo, hi decimal.Decimal) ([]registry.Entry, error) {
	if lo.IsNegative() || hi.IsNegative() {
		return nil, fmt.Errorf("%w: cost bounds cannot be negative", model.ErrInvalidAmount)
	}
	if hi.LessThan(lo) {
		return nil, fmt.Errorf("%w: maximum %s is below minimum %s", model.ErrInvalidAmount, hi, lo)
	}
	return t.selectEntries(func(tx model.Transaction) bool {
		return !tx.Value.LessThan(lo) && !tx.Value.GreaterThan(hi)
	})
}

// FilterDate returns the current bank's transactions dated in [start, end].
func (t *Tracker) FilterDate(start, end model.Date) ([]registry.Entry, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", model.ErrInvalidDate, start.Short(), end.Short())
	}
	return t.selectEntries(func(tx model.Transaction) bool {
		return !tx.Date.Before(start) && !tx.Date.After(end)
	})
}
