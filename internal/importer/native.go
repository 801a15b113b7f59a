package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/trackstars/trackstars/internal/model"
)

const (
	// NativeFormat names the trackstars statement format.
	NativeFormat = "trackstars"
	// NativeHeader is the header of a trackstars statement file.
	NativeHeader = "date,category,amount,tag"
)

const (
	nativeNumFields = 4
	nativeColDate   = 0
	nativeColCat    = 1
	nativeColAmount = 2
	nativeColTag    = 3
)

// NativeParser reads trackstars statement files: a header row followed
// by DD/MM/YYYY dates, category names, two-decimal amounts and a tag.
type NativeParser struct{}

// Format returns the parser name.
func (p *NativeParser) Format() string { return NativeFormat }

// Parse reads a trackstars CSV and returns expense Rows.
func (p *NativeParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = nativeNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading trackstars CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if got := strings.ToLower(strings.Join(records[0], ",")); got != NativeHeader {
		return nil, fmt.Errorf("unexpected header %q, want %q", got, NativeHeader)
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, err := parseNativeRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseNativeRow(rec []string) (Row, error) {
	date, err := model.ParseDate(rec[nativeColDate])
	if err != nil {
		return Row{}, err
	}
	category, err := model.ParseCategory(rec[nativeColCat])
	if err != nil {
		return Row{}, err
	}
	amount, err := model.ParsePositiveAmount(rec[nativeColAmount])
	if err != nil {
		return Row{}, err
	}
	return Row{
		Date:     date,
		Kind:     Expense,
		Category: category,
		Amount:   amount,
		Tag:      strings.TrimSpace(rec[nativeColTag]),
	}, nil
}
