package tracker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/trackstars/trackstars/internal/audit"
	"github.com/trackstars/trackstars/internal/importer"
	"github.com/trackstars/trackstars/internal/model"
)

// DefaultImportCategory is given to imported rows that carry none.
const DefaultImportCategory = model.CategoryFood

// ImportResult counts what an import did.
type ImportResult struct {
	File     string
	Added    int
	Deposits int
	Skipped  int
}

// Import posts a statement file to the current bank. Expense rows become
// transactions (category falls back to fallback); credit rows become
// deposits. Rows the bank rejects, such as those exceeding the balance,
// are skipped and counted. State is persisted once at the end.
func (t *Tracker) Import(ctx context.Context, path, format string, fallback model.Category) (ImportResult, error) {
	res := ImportResult{File: filepath.Base(path)}
	b, err := t.current()
	if err != nil {
		return res, err
	}
	if fallback == "" {
		fallback = DefaultImportCategory
	}
	if !fallback.Valid() {
		return res, fmt.Errorf("%w: %q", model.ErrInvalidCategory, string(fallback))
	}
	parser, err := t.parsers.Lookup(format)
	if err != nil {
		return res, err
	}

	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	rows, err := parser.Parse(f)
	if err != nil {
		return res, fmt.Errorf("parsing %s: %w", res.File, err)
	}

	log := t.log.WithFields(logrus.Fields{"file": res.File, "bank": b.ID, "format": parser.Format()})
	for i, row := range rows {
		if err := t.applyRow(b, row, fallback); err != nil {
			res.Skipped++
			log.WithField("row", i+1).WithError(err).Warn("Skipping statement row")
			continue
		}
		if row.Kind == importer.Credit {
			res.Deposits++
		} else {
			res.Added++
		}
	}

	if res.Added+res.Deposits > 0 {
		if err := t.persist(ctx, saveBanks|saveTransactions); err != nil {
			return res, err
		}
	}
	log.WithFields(logrus.Fields{"added": res.Added, "deposits": res.Deposits, "skipped": res.Skipped}).Info("Imported statement")
	t.record(audit.ActionImport, b.ID, fmt.Sprintf("%s: %d added, %d deposits, %d skipped", res.File, res.Added, res.Deposits, res.Skipped))
	return res, nil
}

func (t *Tracker) applyRow(b *model.Bank, row importer.Row, fallback model.Category) error {
	if err := model.CheckPrecision(row.Amount); err != nil {
		return err
	}
	if row.Kind == importer.Credit {
		return b.Deposit(row.Amount)
	}
	category := row.Category
	if category == "" {
		category = fallback
	}
	tx, err := model.NewTransaction(row.Amount, category, row.Date, b.Currency, row.Tag)
	if err != nil {
		return err
	}
	return b.AddTransaction(tx)
}

// ImportPending imports every CSV waiting in <dir>/import/ and moves each
// imported file to import/processed/. It stops at the first file that
// cannot be parsed, leaving it in place.
func (t *Tracker) ImportPending(ctx context.Context, format string, fallback model.Category) ([]ImportResult, error) {
	if _, err := t.current(); err != nil {
		return nil, err
	}
	if _, err := t.parsers.Lookup(format); err != nil {
		return nil, err
	}
	files, err := importer.Scan(t.dir)
	if err != nil {
		return nil, err
	}
	var results []ImportResult
	for _, f := range files {
		res, err := t.Import(ctx, f.Path, format, fallback)
		if err != nil {
			return results, err
		}
		if err := importer.MarkProcessed(t.dir, f.Name); err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
