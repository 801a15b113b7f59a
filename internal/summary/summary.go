// Package summary computes monthly spend-versus-budget reports across
// banks held in different currencies.
package summary

import (
	"github.com/shopspring/decimal"

	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/model"
)

// Source is the read-only view of account state the engine works over.
type Source interface {
	Banks() []*model.Bank
	Budgets() []*model.Budget
	TotalBudget(category model.Category, month model.Month, bank *model.Bank) decimal.Decimal
}

// Line is one selected transaction.
type Line struct {
	Index       int // 1-based display index
	BankID      int
	Transaction model.Transaction
	Amount      decimal.Decimal // Transaction.Value in the display currency
}

// Result is the engine output. It carries no behaviour beyond derived views.
type Result struct {
	Month           model.Month
	Kind            Kind
	DisplayCurrency currency.Code
	BankID          int // scoped bank for KindBank, otherwise -1
	Lines           []Line
	Spend           map[model.Category]decimal.Decimal
	Budget          map[model.Category]decimal.Decimal
	Total           decimal.Decimal
}

// Generate builds the summary for month within scope. Transactions are
// selected by month alone; the year is not considered. It never mutates
// src and returns zero-valued maps when nothing matches.
func Generate(src Source, month model.Month, scope Scope) Result {
	res := Result{
		Month:           month,
		Kind:            scope.kind,
		DisplayCurrency: scope.currency,
		BankID:          -1,
		Spend:           make(map[model.Category]decimal.Decimal),
		Budget:          make(map[model.Category]decimal.Decimal),
		Total:           decimal.Zero,
	}
	if scope.kind == KindBank {
		res.BankID = scope.bank.ID
	}
	for _, c := range model.Categories() {
		res.Spend[c] = decimal.Zero
		res.Budget[c] = decimal.Zero
	}

	for _, b := range src.Banks() {
		if !scope.includes(b) {
			continue
		}
		for _, t := range b.Transactions() {
			if t.Date.Month != month {
				continue
			}
			amount := scope.amount(t.Value, t.Currency)
			res.Lines = append(res.Lines, Line{
				Index:       len(res.Lines) + 1,
				BankID:      b.ID,
				Transaction: t,
				Amount:      amount,
			})
			res.Spend[t.Category] = res.Spend[t.Category].Add(amount)
		}
	}

	for _, c := range model.Categories() {
		res.Budget[c] = budgetFor(src, c, month, scope)
		res.Total = res.Total.Add(res.Spend[c])
	}
	return res
}

func budgetFor(src Source, category model.Category, month model.Month, scope Scope) decimal.Decimal {
	if scope.kind == KindBank {
		return src.TotalBudget(category, month, scope.bank)
	}
	total := decimal.Zero
	for _, bgt := range src.Budgets() {
		if bgt.Category != category || bgt.Month != month {
			continue
		}
		switch scope.kind {
		case KindCurrency:
			if bgt.Bank == nil || bgt.Bank.Currency != scope.currency {
				continue
			}
			total = total.Add(bgt.Amount)
		case KindGlobal:
			total = total.Add(scope.amount(bgt.Amount, bgt.Currency))
		}
	}
	return total
}

// amount expresses v (held in from) in the scope's reporting currency.
// Only the global scope spans currencies, so only it converts.
func (s Scope) amount(v decimal.Decimal, from currency.Code) decimal.Decimal {
	if s.kind != KindGlobal {
		return v
	}
	return currency.MustConvert(v, from, s.currency)
}

// OverBudget reports whether spend in c exceeds a budget that was set.
// A zero budget means none was set and is never exceeded.
func (r Result) OverBudget(c model.Category) bool {
	budget := r.Budget[c]
	return budget.IsPositive() && r.Spend[c].GreaterThan(budget)
}

// Remaining returns budget minus spend for c; negative when overspent.
func (r Result) Remaining(c model.Category) decimal.Decimal {
	return r.Budget[c].Sub(r.Spend[c])
}

// TotalBudget sums the per-category budgets.
func (r Result) TotalBudget() decimal.Decimal {
	total := decimal.Zero
	for _, c := range model.Categories() {
		total = total.Add(r.Budget[c])
	}
	return total
}

// OverBudgetCategories lists flagged categories in enumeration order.
func (r Result) OverBudgetCategories() []model.Category {
	var out []model.Category
	for _, c := range model.Categories() {
		if r.OverBudget(c) {
			out = append(out, c)
		}
	}
	return out
}
