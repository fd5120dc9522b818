// Package secretary owns the persisted state of the pipeline: CSV files,
// the sqlite store and the raw season files downloaded from
// football-data.co.uk.
package secretary

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
	"github.com/richard-senior/matchday/pkg/util"
)

// ReadCSV parses a CSV with a header row. Numbers become Number cells,
// True/False become Bool cells and everything else Text. Empty fields are
// kept as empty Text.
func ReadCSV(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV has no header row")
	}

	headers := records[0]
	// Clean up first header if it has a BOM
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	t := table.New(headers...)
	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(record), len(headers))
		}
		row := make(map[string]table.Cell, len(headers))
		for j, value := range record {
			row[headers[j]] = table.Parse(strings.TrimSpace(value))
		}
		t.Append(row)
	}
	return t, nil
}

// WriteCSV writes the header and every row in table order. Unset cells are
// written as empty fields.
func WriteCSV(w io.Writer, t *table.Table) error {
	writer := csv.NewWriter(w)
	columns := t.Columns()
	if err := writer.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for r := 0; r < t.Len(); r++ {
		for i, c := range columns {
			record[i] = t.Text(r, c)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// LoadCSV reads the table stored at path
func LoadCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("Loaded", t.Len(), "rows from", path)
	return t, nil
}

// SaveCSV replaces the file at path with t
func SaveCSV(path string, t *table.Table) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := util.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}
	logger.Info("Saved", t.Len(), "rows to", path)
	return nil
}

// Merge appends update to base. A match present in both keeps the row of
// update. The result holds the union of both tables' columns.
func Merge(base, update *table.Table) (*table.Table, error) {
	for _, t := range []*table.Table{base, update} {
		if err := t.Require(match.PrimaryKey); err != nil {
			return nil, err
		}
	}

	replaced := make(map[string]bool, update.Len())
	for r := 0; r < update.Len(); r++ {
		replaced[update.Text(r, match.PrimaryKey)] = true
	}

	out := base.Filter(func(r int) bool {
		return !replaced[base.Text(r, match.PrimaryKey)]
	})
	for r := 0; r < update.Len(); r++ {
		out.Append(update.Row(r))
	}
	if err := out.SortBy(match.PrimaryKey); err != nil {
		return nil, err
	}
	logger.Debug("Merged", update.Len(), "rows,", len(replaced), "keys updated or added")
	return out, nil
}
