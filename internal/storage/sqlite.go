package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/trackstars/trackstars/internal/model"
)

// SQLite stores state in a single SQLite database. Rows go through the
// same record codecs as the flat files.
type SQLite struct {
	db   *sql.DB
	path string
	log  logrus.FieldLogger
}

// NewSQLite opens (creating if needed) and migrates the database at path.
func NewSQLite(ctx context.Context, path string, log logrus.FieldLogger) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(path); err != nil {
		db.Close()
		return nil, err
	}
	log.WithField("path", path).Debug("Opened sqlite store")
	return &SQLite{db: db, path: path, log: log}, nil
}

// Load reads banks, then transactions in ledger order, then budgets.
func (s *SQLite) Load(ctx context.Context) (*Snapshot, error) {
	b := newBuilder(s.log, s.path)

	queries := []struct {
		query string
		add   func(int, []string)
	}{
		{`SELECT id, currency, balance, exchange_rate FROM banks ORDER BY id`, b.addBank},
		{`SELECT bank_id, tag, category, value, day, month, year, currency FROM transactions ORDER BY bank_id, position`, b.addTransaction},
		{`SELECT bank_id, category, month, amount, currency FROM budgets ORDER BY rowid`, b.addBudget},
	}
	for _, q := range queries {
		if err := s.scan(ctx, q.query, q.add); err != nil {
			return nil, err
		}
	}
	return b.snap, nil
}

func (s *SQLite) scan(ctx context.Context, query string, add func(int, []string)) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("columns: %w", err)
	}
	row := 0
	for rows.Next() {
		row++
		record := make([]string, len(cols))
		dest := make([]any, len(cols))
		for i := range record {
			dest[i] = &record[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scan row %d: %w", row, err)
		}
		add(row, record)
	}
	return rows.Err()
}

// SaveBanks replaces the banks table.
func (s *SQLite) SaveBanks(ctx context.Context, banks []*model.Bank) error {
	records := make([][]string, 0, len(banks))
	for _, b := range banks {
		records = append(records, MarshalBank(b))
	}
	return s.replace(ctx, "banks",
		`INSERT INTO banks (id, currency, balance, exchange_rate) VALUES (?, ?, ?, ?)`, records)
}

// SaveTransactions replaces the transactions table.
func (s *SQLite) SaveTransactions(ctx context.Context, banks []*model.Bank) error {
	var records [][]string
	for _, b := range banks {
		for i, t := range b.Transactions() {
			rec := MarshalTransaction(b.ID, t)
			row := make([]string, 0, len(rec)+1)
			row = append(row, rec[colTxBank], strconv.Itoa(i))
			row = append(row, rec[colTxBank+1:]...)
			records = append(records, row)
		}
	}
	return s.replace(ctx, "transactions",
		`INSERT INTO transactions (bank_id, position, tag, category, value, day, month, year, currency) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, records)
}

// SaveBudgets replaces the budgets table.
func (s *SQLite) SaveBudgets(ctx context.Context, budgets []*model.Budget) error {
	records := make([][]string, 0, len(budgets))
	for _, b := range budgets {
		records = append(records, MarshalBudget(b))
	}
	return s.replace(ctx, "budgets",
		`INSERT INTO budgets (bank_id, category, month, amount, currency) VALUES (?, ?, ?, ?, ?)`, records)
}

func (s *SQLite) replace(ctx context.Context, table, insert string, records [][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare %s: %w", table, err)
	}
	defer stmt.Close()

	for i, rec := range records {
		args := make([]any, len(rec))
		for j, v := range rec {
			args[j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}
	s.log.WithFields(logrus.Fields{"table": table, "rows": len(records)}).Debug("Saved")
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
