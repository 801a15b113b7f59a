// Package tracker is the application service: it owns the registry,
// persists every successful mutation and records it in the activity log.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/trackstars/trackstars/internal/audit"
	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/importer"
	"github.com/trackstars/trackstars/internal/model"
	"github.com/trackstars/trackstars/internal/registry"
	"github.com/trackstars/trackstars/internal/storage"
	"github.com/trackstars/trackstars/internal/summary"
)

// ErrNotLoggedIn is returned by operations that need a current bank.
var ErrNotLoggedIn = errors.New("not logged in")

// DefaultRecentLimit is used when Options.RecentLimit is unset.
const DefaultRecentLimit = 10

// Versioner snapshots the data directory after a mutation.
type Versioner interface {
	Commit(message string) (string, error)
}

// Options configures Open.
type Options struct {
	Dir             string // data directory, home of logs/activity.csv
	Store           storage.Store
	Log             logrus.FieldLogger
	DisplayCurrency currency.Code
	RecentLimit     int
	Parsers         *importer.Registry
	Versioner       Versioner // optional
	Now             func() time.Time
}

// Tracker is a single-user session over persisted state.
type Tracker struct {
	reg         *registry.Registry
	store       storage.Store
	log         logrus.FieldLogger
	dir         string
	display     currency.Code
	recentLimit int
	parsers     *importer.Registry
	versioner   Versioner
	now         func() time.Time
}

// Open loads state from opts.Store. Bank ids are renumbered densely in
// load order; if that changed any id, all collections are rewritten.
func Open(ctx context.Context, opts Options) (*Tracker, error) {
	t := &Tracker{
		reg:         registry.New(),
		store:       opts.Store,
		log:         opts.Log,
		dir:         opts.Dir,
		display:     opts.DisplayCurrency,
		recentLimit: opts.RecentLimit,
		parsers:     opts.Parsers,
		versioner:   opts.Versioner,
		now:         opts.Now,
	}
	if t.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		t.log = l
	}
	if !t.display.Valid() {
		t.display = currency.Base
	}
	if t.recentLimit <= 0 {
		t.recentLimit = DefaultRecentLimit
	}
	if t.parsers == nil {
		t.parsers = importer.DefaultRegistry()
	}
	if t.now == nil {
		t.now = time.Now
	}

	snap, err := t.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	renumbered := false
	for _, b := range snap.Banks {
		old := b.ID
		if t.reg.AddBank(b).ID != old {
			renumbered = true
		}
	}
	for _, bgt := range snap.Budgets {
		if err := t.reg.AddBudget(bgt); err != nil {
			t.log.WithError(err).Warn("Skipping budget")
		}
	}
	t.log.WithFields(logrus.Fields{
		"banks":   len(snap.Banks),
		"budgets": len(snap.Budgets),
	}).Info("Loaded state")

	if renumbered {
		t.log.Info("Bank ids renumbered, rewriting storage")
		if err := t.persist(ctx, saveAll); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Close releases the store.
func (t *Tracker) Close() error { return t.store.Close() }

// Registry exposes the in-memory state for read-only use.
func (t *Tracker) Registry() *registry.Registry { return t.reg }

// DisplayCurrency is the currency global summaries convert to.
func (t *Tracker) DisplayCurrency() currency.Code { return t.display }

type saveSet int

const (
	saveBanks saveSet = 1 << iota
	saveTransactions
	saveBudgets

	saveAll = saveBanks | saveTransactions | saveBudgets
)

func (t *Tracker) persist(ctx context.Context, what saveSet) error {
	banks := t.reg.Banks()
	if what&saveBanks != 0 {
		if err := t.store.SaveBanks(ctx, banks); err != nil {
			return fmt.Errorf("saving banks: %w", err)
		}
	}
	if what&saveTransactions != 0 {
		if err := t.store.SaveTransactions(ctx, banks); err != nil {
			return fmt.Errorf("saving transactions: %w", err)
		}
	}
	if what&saveBudgets != 0 {
		if err := t.store.SaveBudgets(ctx, t.reg.Budgets()); err != nil {
			return fmt.Errorf("saving budgets: %w", err)
		}
	}
	return nil
}

// record appends to the activity log and commits a snapshot when
// versioning is on. Failures are logged, not returned: the mutation
// itself has already been persisted.
func (t *Tracker) record(action string, bankID int, details string) {
	e := audit.Entry{Timestamp: t.now().UTC(), Action: action, BankID: bankID, Details: details}
	if err := audit.Append(t.dir, []audit.Entry{e}); err != nil {
		t.log.WithError(err).Warn("Failed to write activity log")
	}
	if t.versioner == nil {
		return
	}
	hash, err := t.versioner.Commit(fmt.Sprintf("%s: %s", action, details))
	if err != nil {
		t.log.WithError(err).Warn("Failed to commit snapshot")
		return
	}
	if hash != "" {
		t.log.WithFields(logrus.Fields{"action": action, "commit": hash}).Debug("Committed snapshot")
	}
}

func (t *Tracker) current() (*model.Bank, error) {
	b := t.reg.Current()
	if b == nil {
		return nil, fmt.Errorf("%w: login to a bank first", ErrNotLoggedIn)
	}
	return b, nil
}

// AddBank opens a bank in code with an opening balance.
func (t *Tracker) AddBank(ctx context.Context, code currency.Code, balance decimal.Decimal) (*model.Bank, error) {
	b, err := t.reg.OpenBank(code, balance)
	if err != nil {
		return nil, err
	}
	if err := t.persist(ctx, saveBanks); err != nil {
		return nil, err
	}
	t.log.WithFields(logrus.Fields{"bank": b.ID, "currency": code}).Info("Added bank")
	t.record(audit.ActionAddBank, b.ID, fmt.Sprintf("%s opening balance %s", code, currency.Format(code, b.Balance())))
	return b, nil
}

// Banks returns all banks in id order.
func (t *Tracker) Banks() []*model.Bank { return t.reg.Banks() }

// Current returns the logged-in bank or nil.
func (t *Tracker) Current() *model.Bank { return t.reg.Current() }

// Login makes bank id current.
func (t *Tracker) Login(id int) (*model.Bank, error) {
	b, err := t.reg.Login(id)
	if err != nil {
		return nil, err
	}
	t.log.WithField("bank", id).Debug("Logged in")
	return b, nil
}

// Logout clears the current bank and reports whether one was set.
func (t *Tracker) Logout() bool { return t.reg.Logout() }

// Deposit credits the current bank.
func (t *Tracker) Deposit(ctx context.Context, amount decimal.Decimal) (*model.Bank, error) {
	b, err := t.current()
	if err != nil {
		return nil, err
	}
	if err := b.Deposit(amount); err != nil {
		return nil, err
	}
	if err := t.persist(ctx, saveBanks); err != nil {
		return nil, err
	}
	t.record(audit.ActionDeposit, b.ID, currency.Format(b.Currency, amount))
	return b, nil
}

// Withdraw debits the current bank.
func (t *Tracker) Withdraw(ctx context.Context, amount decimal.Decimal) (*model.Bank, error) {
	b, err := t.current()
	if err != nil {
		return nil, err
	}
	if err := b.Withdraw(amount); err != nil {
		return nil, err
	}
	if err := t.persist(ctx, saveBanks); err != nil {
		return nil, err
	}
	t.record(audit.ActionWithdraw, b.ID, currency.Format(b.Currency, amount))
	return b, nil
}

// AddTransaction records spending against the current bank in its currency.
func (t *Tracker) AddTransaction(ctx context.Context, tag string, category model.Category, amount decimal.Decimal, date model.Date) (model.Transaction, error) {
	b, err := t.current()
	if err != nil {
		return model.Transaction{}, err
	}
	tx, err := model.NewTransaction(amount, category, date, b.Currency, tag)
	if err != nil {
		return model.Transaction{}, err
	}
	if err := b.AddTransaction(tx); err != nil {
		return model.Transaction{}, err
	}
	if err := t.persist(ctx, saveBanks|saveTransactions); err != nil {
		return model.Transaction{}, err
	}
	t.record(audit.ActionAddTransaction, b.ID, tx.String())
	return tx, nil
}

// DeleteTransaction removes the current bank's transaction at the
// 1-based index and restores its value to the balance.
func (t *Tracker) DeleteTransaction(ctx context.Context, index int) (model.Transaction, error) {
	b, err := t.current()
	if err != nil {
		return model.Transaction{}, err
	}
	if n := b.TransactionCount(); index < 1 || index > n {
		if n == 0 {
			return model.Transaction{}, fmt.Errorf("%w: %d, bank %d has no transactions", model.ErrIndexOutOfRange, index, b.ID)
		}
		return model.Transaction{}, fmt.Errorf("%w: %d, choose 1..%d", model.ErrIndexOutOfRange, index, n)
	}
	tx, err := b.DeleteTransaction(index - 1)
	if err != nil {
		return model.Transaction{}, err
	}
	if err := t.persist(ctx, saveBanks|saveTransactions); err != nil {
		return model.Transaction{}, err
	}
	t.record(audit.ActionDeleteTransaction, b.ID, tx.String())
	return tx, nil
}

// SetBudget sets the budget for (category, month). Logged in, it belongs
// to the current bank in that bank's currency; otherwise it is a global
// budget in the base currency. An existing budget with the same key is
// replaced.
func (t *Tracker) SetBudget(ctx context.Context, category model.Category, amount decimal.Decimal, month model.Month) (*model.Budget, error) {
	bank := t.reg.Current()
	code := currency.Base
	if bank != nil {
		code = bank.Currency
	}
	bgt, err := model.NewBudget(category, amount, code, month, bank)
	if err != nil {
		return nil, err
	}
	if err := t.reg.AddBudget(bgt); err != nil {
		return nil, err
	}
	if err := t.persist(ctx, saveBudgets); err != nil {
		return nil, err
	}
	t.record(audit.ActionSetBudget, bgt.BankID(), bgt.String())
	return bgt, nil
}

// Budgets returns the current bank's budgets for month, or every budget
// for month when logged out.
func (t *Tracker) Budgets(month model.Month) []*model.Budget {
	return t.reg.BudgetsFor(month, t.reg.Current())
}

// Recent returns the last limit transactions of the current bank, or of
// all banks when logged out. limit <= 0 uses the configured default.
func (t *Tracker) Recent(limit int) []registry.Entry {
	if limit <= 0 {
		limit = t.recentLimit
	}
	entries := t.reg.Transactions(t.reg.Current())
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries
}

// Summary builds the monthly report. Logged in, it covers the current
// bank; otherwise code selects a single currency, and nil means every
// bank converted to the display currency.
func (t *Tracker) Summary(month model.Month, code *currency.Code) summary.Result {
	var scope summary.Scope
	switch {
	case t.reg.Current() != nil:
		scope = summary.ForBank(t.reg.Current())
	case code != nil:
		scope = summary.ForCurrency(*code)
	default:
		scope = summary.Global(t.display)
	}
	return summary.Generate(t.reg, month, scope)
}

// History returns the last limit activity entries, or all when limit <= 0.
func (t *Tracker) History(limit int) ([]audit.Entry, error) {
	return audit.Tail(t.dir, limit)
}
