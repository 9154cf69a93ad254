package equivalency

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/poiesic/coursefinder/core"
)

// Column names of the transfer-credit table.
const (
	ColumnCommunityCollege = "community_college"
	ColumnCollege          = "college"
	ColumnCode             = "code"
	ColumnName             = "name"
	ColumnCredits          = "credits"
	ColumnEquivalency      = "equivalency"
	ColumnTransferCredit   = "transfer_credit"
)

var requiredColumns = []string{ColumnCommunityCollege, ColumnEquivalency}

// Source returns the equivalency rows whose target equals a colon-stripped
// course code. Rows are returned in table order.
type Source interface {
	Lookup(ctx context.Context, code string) ([]core.EquivalencyRow, error)
}

// Table is an in-memory transfer-credit table indexed by target code.
type Table struct {
	rows   []core.EquivalencyRow
	byCode map[string][]int
}

var _ Source = (*Table)(nil)

// LoadTable reads a CSV equivalency table with a header row.
// Columns are bound by name, so column order and extra columns don't matter.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTableUnavailable, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrTableUnavailable, err)
	}
	defer f.Close()

	table, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ReadTable parses a CSV equivalency table from r.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedTable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTable, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedTable, name)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	t := &Table{byCode: make(map[string][]int)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedTable, err)
		}

		row := core.EquivalencyRow{
			CommunityCollege: field(record, ColumnCommunityCollege),
			College:          field(record, ColumnCollege),
			Code:             field(record, ColumnCode),
			Name:             field(record, ColumnName),
			Credits:          field(record, ColumnCredits),
			Equivalency:      core.NormalizeCode(field(record, ColumnEquivalency)),
			TransferCredit:   field(record, ColumnTransferCredit),
		}
		if row.CommunityCollege == "" || row.Equivalency == "" {
			// Rows without a source college or a target can never be returned
			continue
		}

		t.byCode[row.Equivalency] = append(t.byCode[row.Equivalency], len(t.rows))
		t.rows = append(t.rows, row)
	}

	return t, nil
}

// NewTable builds a table from rows already in memory. Equivalency codes are
// normalized to colon-stripped form.
func NewTable(rows []core.EquivalencyRow) *Table {
	t := &Table{byCode: make(map[string][]int)}
	for _, row := range rows {
		row.Equivalency = core.NormalizeCode(row.Equivalency)
		t.byCode[row.Equivalency] = append(t.byCode[row.Equivalency], len(t.rows))
		t.rows = append(t.rows, row)
	}
	return t
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	return len(t.rows)
}

// Lookup returns copies of the rows targeting code, in table order.
func (t *Table) Lookup(ctx context.Context, code string) ([]core.EquivalencyRow, error) {
	indices := t.byCode[core.NormalizeCode(code)]
	rows := make([]core.EquivalencyRow, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, t.rows[i])
	}
	return rows, nil
}
