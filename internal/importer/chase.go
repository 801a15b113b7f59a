package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trackstars/trackstars/internal/model"
)

// ChaseFormat names the Chase statement format.
const ChaseFormat = "chase"

// ChaseParser parses Chase bank checking CSV exports. Debits become
// expenses without a category; credits become deposits.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return ChaseFormat }

// Parse reads a Chase CSV and returns Rows.
func (p *ChaseParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, err := parseChaseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseChaseRow(rec []string) (Row, error) {
	date, err := time.Parse(chaseDateFormat, rec[chaseColDate])
	if err != nil {
		return Row{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}

	kind := Expense
	if amount.IsPositive() {
		kind = Credit
	}

	return Row{
		Date:   model.DateOf(date),
		Kind:   kind,
		Amount: amount.Abs(),
		Tag:    chaseTag(rec[chaseColDesc]),
	}, nil
}

// chaseTag collapses runs of whitespace in a description like
// "GITHUB  *PRO SUBSCRIPTION".
func chaseTag(desc string) string {
	return strings.Join(strings.Fields(desc), " ")
}
