// Package report renders tracker state for people.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/trackstars/trackstars/internal/audit"
	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/model"
	"github.com/trackstars/trackstars/internal/registry"
	"github.com/trackstars/trackstars/internal/summary"
)

const overBudgetMarker = "OVER BUDGET"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Header returns the title line(s) for a summary result.
func Header(res summary.Result) string {
	switch res.Kind {
	case summary.KindBank:
		return fmt.Sprintf("Summary for %s for Bank %d", res.Month, res.BankID)
	case summary.KindCurrency:
		return fmt.Sprintf("Summary for %s (Showing only %s transactions)", res.Month, res.DisplayCurrency)
	default:
		return fmt.Sprintf("Summary for %s\nAll transactions, spending and budgeting are converted to %s", res.Month, res.DisplayCurrency)
	}
}

// Summary writes the header, the selected transactions, a per-category
// spend/budget table and the total.
func Summary(w io.Writer, res summary.Result) error {
	display := res.DisplayCurrency
	fmt.Fprintln(w, Header(res))
	fmt.Fprintln(w)

	if len(res.Lines) == 0 {
		fmt.Fprintf(w, "No transactions in %s\n", res.Month.LongName())
	} else {
		fmt.Fprintln(w, "Transactions:")
		for _, l := range res.Lines {
			line := fmt.Sprintf("  %d. ", l.Index)
			if res.Kind != summary.KindBank {
				line += fmt.Sprintf("[Bank %d] ", l.BankID)
			}
			line += l.Transaction.String()
			if l.Transaction.Currency != display {
				line += fmt.Sprintf(" (%s)", currency.Format(display, l.Amount))
			}
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)

	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tSPENT\tBUDGET\tREMAINING\t")
	for _, c := range model.Categories() {
		budget := "-"
		remaining := "-"
		if res.Budget[c].IsPositive() {
			budget = currency.Format(display, res.Budget[c])
			remaining = currency.Format(display, res.Remaining(c))
		}
		marker := ""
		if res.OverBudget(c) {
			marker = overBudgetMarker
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c, currency.Format(display, res.Spend[c]), budget, remaining, marker)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing summary table: %w", err)
	}

	fmt.Fprintf(w, "\nTotal spent: %s\n", currency.Format(display, res.Total))
	if budget := res.TotalBudget(); budget.IsPositive() {
		_, err := fmt.Fprintf(w, "Total budget: %s\n", currency.Format(display, budget))
		return err
	}
	return nil
}

// Banks lists bank accounts, marking the current one.
func Banks(w io.Writer, banks []*model.Bank, current *model.Bank) error {
	if len(banks) == 0 {
		_, err := fmt.Fprintln(w, "No bank accounts yet. Add one with addBank.")
		return err
	}
	fmt.Fprintln(w, "Your Bank Accounts are:")
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCURRENCY\tBALANCE\tRATE TO SGD\t")
	for _, b := range banks {
		mark := ""
		if b == current {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Currency, currency.Format(b.Currency, b.Balance()), b.ExchangeRate.String(), mark)
	}
	return tw.Flush()
}

// Transactions lists entries with their 1-based index within their bank.
func Transactions(w io.Writer, title string, entries []registry.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No transactions found.")
		return err
	}
	fmt.Fprintln(w, title)
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "  %d. [Bank %d] %s\n", e.Position+1, e.Bank.ID, e.Transaction); err != nil {
			return err
		}
	}
	return nil
}

// Budgets lists budgets for one month.
func Budgets(w io.Writer, month model.Month, budgets []*model.Budget) error {
	if len(budgets) == 0 {
		_, err := fmt.Fprintf(w, "No budgets set for %s.\n", month.LongName())
		return err
	}
	fmt.Fprintf(w, "Budgets for %s:\n", month.LongName())
	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tOWNER\t")
	for _, b := range budgets {
		owner := "global"
		if b.Bank != nil {
			owner = fmt.Sprintf("Bank %d", b.Bank.ID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", b.Category, currency.Format(b.Currency, b.Amount), owner)
	}
	return tw.Flush()
}

// History lists activity log entries, oldest first.
func History(w io.Writer, entries []audit.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No activity recorded.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "TIME\tACTION\tBANK\tDETAILS\t")
	for _, e := range entries {
		bank := "-"
		if e.BankID != audit.NoBank {
			bank = fmt.Sprint(e.BankID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Action, bank, e.Details)
	}
	return tw.Flush()
}
