package inputs

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gmmbatch/internal/logger"
	"gmmbatch/internal/models"
)

// LoadInputsFile reads an input table from a CSV file on disk
func LoadInputsFile(path string) (models.InputTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.InputTable{}, fmt.Errorf("%w: failed to open %s: %w", models.ErrInputFormat, path, err)
	}
	defer f.Close()

	return LoadInputs(f)
}

// LoadInputs reads a header record followed by value records. Lines starting
// with '#' and blank lines are skipped. A cell of "null" (or an empty cell)
// is the sentinel.
func LoadInputs(source io.Reader) (models.InputTable, error) {
	reader := csv.NewReader(source)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return models.InputTable{}, fmt.Errorf("%w: no header record", models.ErrInputFormat)
	}
	if err != nil {
		return models.InputTable{}, fmt.Errorf("%w: failed to read header: %w", models.ErrInputFormat, err)
	}

	table := models.InputTable{Header: make([]string, len(header))}
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		id := models.CanonicalFieldID(name)
		if id == "" {
			return models.InputTable{}, fmt.Errorf("%w: empty header name in column %d", models.ErrInputFormat, i+1)
		}
		if seen[strings.ToLower(id)] {
			return models.InputTable{}, fmt.Errorf("%w: duplicate header %q", models.ErrInputFormat, id)
		}
		seen[strings.ToLower(id)] = true
		table.Header[i] = id
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.InputTable{}, fmt.Errorf("%w: %w", models.ErrInputFormat, err)
		}
		line, _ := reader.FieldPos(0)

		if len(record) != len(table.Header) {
			return models.InputTable{}, fmt.Errorf("%w: line %d has %d columns, header has %d",
				models.ErrInputFormat, line, len(record), len(table.Header))
		}

		row := make(models.InputRow, len(record))
		for i, cell := range record {
			v, err := parseCell(table.Header[i], cell)
			if err != nil {
				return models.InputTable{}, fmt.Errorf("%w: line %d, column %s: %w",
					models.ErrInputFormat, line, table.Header[i], err)
			}
			row[table.Header[i]] = v
		}
		table.Rows = append(table.Rows, row)
	}

	logger.Debug("Loaded input table", map[string]interface{}{
		"columns": len(table.Header),
		"rows":    len(table.Rows),
	})
	return table, nil
}

func parseCell(id, cell string) (models.Value, error) {
	if models.IsSentinel(cell) {
		return models.Default, nil
	}
	cell = strings.TrimSpace(cell)

	if f, ok := models.LookupField(id); ok && f.Boolean {
		if b, err := strconv.ParseBool(cell); err == nil {
			if b {
				return models.Number(1), nil
			}
			return models.Number(0), nil
		}
	}

	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return models.Value{}, fmt.Errorf("not a number: %q", cell)
	}
	return models.Number(v), nil
}

// EncodeTable writes the table back out as CSV: header first, then one
// record per row with the sentinel spelled "null".
func EncodeTable(table models.InputTable) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(table.Header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(table.Header))
	for r, row := range table.Rows {
		for i, id := range table.Header {
			v, ok := row[id]
			if !ok {
				return nil, fmt.Errorf("%w: row %d has no value for %s", models.ErrInputFormat, r, id)
			}
			record[i] = v.Format(id)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// TableFromScenarios builds a table with every field column from typed scenarios
func TableFromScenarios(scenarios ...models.Scenario) models.InputTable {
	table := models.InputTable{Header: make([]string, len(models.Fields))}
	for i, f := range models.Fields {
		table.Header[i] = f.ID
	}
	for _, s := range scenarios {
		table.Rows = append(table.Rows, s.Row())
	}
	return table
}
