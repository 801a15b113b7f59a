package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/trackstars/trackstars/internal/model"
)

// Flat file names inside the data directory.
const (
	BanksFile        = "banks.txt"
	TransactionsFile = "transactions.txt"
	BudgetsFile      = "budgets.txt"
)

const separator = '|'

// FlatFile stores state as pipe-separated text files in one directory.
type FlatFile struct {
	dir string
	log logrus.FieldLogger
}

// NewFlatFile returns a FlatFile rooted at dir.
func NewFlatFile(dir string, log logrus.FieldLogger) *FlatFile {
	return &FlatFile{dir: dir, log: log}
}

// Dir returns the data directory.
func (f *FlatFile) Dir() string { return f.dir }

// Load reads all three files. Missing files load as empty; undecodable
// lines are logged and skipped.
func (f *FlatFile) Load(ctx context.Context) (*Snapshot, error) {
	b := newBuilder(f.log, "")
	steps := []struct {
		name string
		add  func(int, []string)
	}{
		{BanksFile, b.addBank},
		{TransactionsFile, b.addTransaction},
		{BudgetsFile, b.addBudget},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.source = step.name
		if err := f.readFile(step.name, step.add); err != nil {
			return nil, err
		}
	}
	return b.snap, nil
}

func (f *FlatFile) readFile(name string, add func(int, []string)) error {
	file, err := os.Open(filepath.Join(f.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer file.Close()

	return ReadRecords(file, func(line int, record []string, err error) {
		if err != nil {
			f.log.WithError(&LineError{Source: name, Line: line, Err: err}).Warn("Skipping malformed line")
			return
		}
		add(line, record)
	})
}

// ReadRecords decodes pipe-separated records from r and hands each one to
// fn with its line number. Parse errors on a single line are passed to fn
// and reading continues; I/O errors stop the read.
func ReadRecords(r io.Reader, fn func(line int, record []string, err error)) error {
	cr := csv.NewReader(r)
	cr.Comma = separator
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				fn(perr.StartLine, nil, err)
				continue
			}
			return fmt.Errorf("reading records: %w", err)
		}
		line, _ := cr.FieldPos(0)
		fn(line, record, nil)
	}
}

// WriteRecords encodes records as pipe-separated lines.
func WriteRecords(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = separator
	for i, rec := range records {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing record %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveBanks rewrites banks.txt.
func (f *FlatFile) SaveBanks(_ context.Context, banks []*model.Bank) error {
	records := make([][]string, 0, len(banks))
	for _, b := range banks {
		records = append(records, MarshalBank(b))
	}
	return f.writeFile(BanksFile, records)
}

// SaveTransactions rewrites transactions.txt from every bank's ledger.
func (f *FlatFile) SaveTransactions(_ context.Context, banks []*model.Bank) error {
	var records [][]string
	for _, b := range banks {
		for _, t := range b.Transactions() {
			records = append(records, MarshalTransaction(b.ID, t))
		}
	}
	return f.writeFile(TransactionsFile, records)
}

// SaveBudgets rewrites budgets.txt.
func (f *FlatFile) SaveBudgets(_ context.Context, budgets []*model.Budget) error {
	records := make([][]string, 0, len(budgets))
	for _, b := range budgets {
		records = append(records, MarshalBudget(b))
	}
	return f.writeFile(BudgetsFile, records)
}

// Close is a no-op.
func (f *FlatFile) Close() error { return nil }

// writeFile replaces name atomically via a temp file in the same directory.
func (f *FlatFile) writeFile(name string, records [][]string) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteRecords(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(f.dir, name)); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	f.log.WithFields(logrus.Fields{"file": name, "records": len(records)}).Debug("Saved")
	return nil
}
