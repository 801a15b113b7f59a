package storage

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/trackstars/trackstars/internal/currency"
	"github.com/trackstars/trackstars/internal/model"
)

// bank: id|currency|balance|exchangeRate
const (
	numBankFields = 4
	colBankID     = 0
	colBankCcy    = 1
	colBankBal    = 2
	colBankRate   = 3
)

// transaction: bankId|tag|category|value|day|month|year|currency
const (
	numTxFields = 8
	colTxBank   = 0
	colTxTag    = 1
	colTxCat    = 2
	colTxValue  = 3
	colTxDay    = 4
	colTxMonth  = 5
	colTxYear   = 6
	colTxCcy    = 7
)

// budget: bankId|category|month|amount|currency
const (
	numBudgetFields = 5
	colBgtBank      = 0
	colBgtCat       = 1
	colBgtMonth     = 2
	colBgtAmount    = 3
	colBgtCcy       = 4
)

// MarshalBank converts a Bank to a record.
func MarshalBank(b *model.Bank) []string {
	row := make([]string, numBankFields)
	row[colBankID] = strconv.Itoa(b.ID)
	row[colBankCcy] = string(b.Currency)
	row[colBankBal] = b.Balance().String()
	row[colBankRate] = b.ExchangeRate.String()
	return row
}

// UnmarshalBank converts a record to a Bank carrying the stored id.
func UnmarshalBank(record []string) (*model.Bank, error) {
	if len(record) != numBankFields {
		return nil, fmt.Errorf("expected %d fields, got %d", numBankFields, len(record))
	}
	id, err := strconv.Atoi(record[colBankID])
	if err != nil {
		return nil, fmt.Errorf("parsing bank id %q: %w", record[colBankID], err)
	}
	code, err := currency.Parse(record[colBankCcy])
	if err != nil {
		return nil, err
	}
	balance, err := decimal.NewFromString(record[colBankBal])
	if err != nil {
		return nil, fmt.Errorf("parsing balance %q: %w", record[colBankBal], err)
	}
	rate, err := decimal.NewFromString(record[colBankRate])
	if err != nil {
		return nil, fmt.Errorf("parsing exchange rate %q: %w", record[colBankRate], err)
	}
	return model.NewBank(id, code, balance, rate)
}

// MarshalTransaction converts a Transaction owned by bankID to a record.
func MarshalTransaction(bankID int, t model.Transaction) []string {
	row := make([]string, numTxFields)
	row[colTxBank] = strconv.Itoa(bankID)
	row[colTxTag] = t.Tag
	row[colTxCat] = string(t.Category)
	row[colTxValue] = t.Value.String()
	row[colTxDay] = strconv.Itoa(t.Date.Day)
	row[colTxMonth] = t.Date.Month.String()
	row[colTxYear] = strconv.Itoa(t.Date.Year)
	row[colTxCcy] = string(t.Currency)
	return row
}

// UnmarshalTransaction converts a record to a Transaction and its bank id.
func UnmarshalTransaction(record []string) (int, model.Transaction, error) {
	if len(record) != numTxFields {
		return 0, model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numTxFields, len(record))
	}
	bankID, err := strconv.Atoi(record[colTxBank])
	if err != nil {
		return 0, model.Transaction{}, fmt.Errorf("parsing bank id %q: %w", record[colTxBank], err)
	}
	category, err := model.ParseCategory(record[colTxCat])
	if err != nil {
		return 0, model.Transaction{}, err
	}
	value, err := decimal.NewFromString(record[colTxValue])
	if err != nil {
		return 0, model.Transaction{}, fmt.Errorf("parsing value %q: %w", record[colTxValue], err)
	}
	day, err := strconv.Atoi(record[colTxDay])
	if err != nil {
		return 0, model.Transaction{}, fmt.Errorf("parsing day %q: %w", record[colTxDay], err)
	}
	month, err := model.ParseMonth(record[colTxMonth])
	if err != nil {
		return 0, model.Transaction{}, err
	}
	year, err := strconv.Atoi(record[colTxYear])
	if err != nil {
		return 0, model.Transaction{}, fmt.Errorf("parsing year %q: %w", record[colTxYear], err)
	}
	date, err := model.NewDate(day, month, year)
	if err != nil {
		return 0, model.Transaction{}, err
	}
	code, err := currency.Parse(record[colTxCcy])
	if err != nil {
		return 0, model.Transaction{}, err
	}
	t, err := model.NewTransaction(value, category, date, code, record[colTxTag])
	if err != nil {
		return 0, model.Transaction{}, err
	}
	return bankID, t, nil
}

// BudgetRecord is a decoded budget row whose bank is not yet resolved.
type BudgetRecord struct {
	BankID   int
	Category model.Category
	Month    model.Month
	Amount   decimal.Decimal
	Currency currency.Code
}

// MarshalBudget converts a Budget to a record. Global budgets store bank id -1.
func MarshalBudget(b *model.Budget) []string {
	row := make([]string, numBudgetFields)
	row[colBgtBank] = strconv.Itoa(b.BankID())
	row[colBgtCat] = string(b.Category)
	row[colBgtMonth] = b.Month.String()
	row[colBgtAmount] = b.Amount.String()
	row[colBgtCcy] = string(b.Currency)
	return row
}

// UnmarshalBudget converts a record to a BudgetRecord.
func UnmarshalBudget(record []string) (BudgetRecord, error) {
	if len(record) != numBudgetFields {
		return BudgetRecord{}, fmt.Errorf("expected %d fields, got %d", numBudgetFields, len(record))
	}
	bankID, err := strconv.Atoi(record[colBgtBank])
	if err != nil {
		return BudgetRecord{}, fmt.Errorf("parsing bank id %q: %w", record[colBgtBank], err)
	}
	category, err := model.ParseCategory(record[colBgtCat])
	if err != nil {
		return BudgetRecord{}, err
	}
	month, err := model.ParseMonth(record[colBgtMonth])
	if err != nil {
		return BudgetRecord{}, err
	}
	amount, err := decimal.NewFromString(record[colBgtAmount])
	if err != nil {
		return BudgetRecord{}, fmt.Errorf("parsing amount %q: %w", record[colBgtAmount], err)
	}
	if amount.IsNegative() {
		return BudgetRecord{}, fmt.Errorf("%w: budget cannot be negative, got %s", model.ErrInvalidAmount, amount)
	}
	code, err := currency.Parse(record[colBgtCcy])
	if err != nil {
		return BudgetRecord{}, err
	}
	return BudgetRecord{BankID: bankID, Category: category, Month: month, Amount: amount, Currency: code}, nil
}
