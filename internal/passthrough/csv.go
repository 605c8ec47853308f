// Package passthrough reads and writes the formats that are carried rather
// than converted: tabular CSV and arbitrary XML.
package passthrough

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/cleared-dev/stmtconv/internal/errs"
)

// Table is a CSV document split into its header row and data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// ParseCSV decodes comma-separated data. The first record is the header
// and every row must have as many fields as the header.
func ParseCSV(data []byte) (*Table, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = 0

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("reading CSV: no header row")
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// ReadCSV reads r to the end and parses it.
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errs.IOError{Op: "reading CSV", Err: err}
	}
	return ParseCSV(data)
}

// WriteCSV writes the header followed by every row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return &errs.IOError{Op: "writing CSV", Err: err}
	}
	return nil
}

// Column returns the index of the named header column, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}
