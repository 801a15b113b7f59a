// Package storage persists banks, transactions and budgets.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/trackstars/trackstars/internal/model"
)

// Backend names accepted by Open.
const (
	BackendFlatFile = "flatfile"
	BackendSQLite   = "sqlite"
)

// Snapshot is everything a Store holds. Transactions are attached to
// their banks; budgets point at their banks (nil for global).
type Snapshot struct {
	Banks   []*model.Bank
	Budgets []*model.Budget
}

// Store loads and rewrites persisted state. Each Save call replaces the
// whole collection it names.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	SaveBanks(ctx context.Context, banks []*model.Bank) error
	SaveTransactions(ctx context.Context, banks []*model.Bank) error
	SaveBudgets(ctx context.Context, budgets []*model.Budget) error
	Close() error
}

// Options selects and locates a backend.
type Options struct {
	Backend    string
	Dir        string
	SQLitePath string // relative paths resolve against Dir
}

// Open returns the Store named by opts.Backend.
func Open(ctx context.Context, opts Options, log logrus.FieldLogger) (Store, error) {
	switch opts.Backend {
	case "", BackendFlatFile:
		return NewFlatFile(opts.Dir, log), nil
	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			path = "trackstars.db"
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(opts.Dir, path)
		}
		return NewSQLite(ctx, path, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s or %s)", opts.Backend, BackendFlatFile, BackendSQLite)
	}
}

// LineError locates a record that could not be decoded.
type LineError struct {
	Source string
	Line   int
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
