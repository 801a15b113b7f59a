package storage

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/trackstars/trackstars/internal/model"
)

// builder assembles a Snapshot from decoded records, skipping (and
// logging) records that reference unknown banks.
type builder struct {
	log    logrus.FieldLogger
	snap   *Snapshot
	byID   map[int]*model.Bank
	source string
}

func newBuilder(log logrus.FieldLogger, source string) *builder {
	return &builder{
		log:    log,
		snap:   &Snapshot{},
		byID:   make(map[int]*model.Bank),
		source: source,
	}
}

func (b *builder) skip(kind string, line int, err error) {
	b.log.WithField("kind", kind).
		WithError(&LineError{Source: b.source, Line: line, Err: err}).
		Warn("Skipping record")
}

func (b *builder) addBank(line int, record []string) {
	bank, err := UnmarshalBank(record)
	if err != nil {
		b.skip("bank", line, err)
		return
	}
	if _, dup := b.byID[bank.ID]; dup {
		b.skip("bank", line, errDuplicateBank(bank.ID))
		return
	}
	b.byID[bank.ID] = bank
	b.snap.Banks = append(b.snap.Banks, bank)
}

func (b *builder) addTransaction(line int, record []string) {
	bankID, t, err := UnmarshalTransaction(record)
	if err != nil {
		b.skip("transaction", line, err)
		return
	}
	bank, ok := b.byID[bankID]
	if !ok {
		b.skip("transaction", line, errUnknownBank(bankID))
		return
	}
	if err := bank.RestoreTransaction(t); err != nil {
		b.skip("transaction", line, err)
	}
}

func (b *builder) addBudget(line int, record []string) {
	rec, err := UnmarshalBudget(record)
	if err != nil {
		b.skip("budget", line, err)
		return
	}
	var bank *model.Bank
	if rec.BankID != model.GlobalBankID {
		var ok bool
		if bank, ok = b.byID[rec.BankID]; !ok {
			b.skip("budget", line, errUnknownBank(rec.BankID))
			return
		}
	}
	bgt, err := model.NewBudget(rec.Category, rec.Amount, rec.Currency, rec.Month, bank)
	if err != nil {
		b.skip("budget", line, err)
		return
	}
	b.snap.Budgets = append(b.snap.Budgets, bgt)
}

func errUnknownBank(id int) error { return fmt.Errorf("unknown bank id %d", id) }

func errDuplicateBank(id int) error { return fmt.Errorf("duplicate bank id %d", id) }
