package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ParseCSV reads a headed CSV file into rows ordered like table.Columns.
// Columns missing from the header load as zero values and unknown header
// columns are ignored. The key column (the first one) must be present.
func ParseCSV(r io.Reader, table Table) ([][]any, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file", table.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", table.Name, err)
	}

	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	key := table.Columns[0].Name
	if _, ok := positions[key]; !ok {
		return nil, fmt.Errorf("%s: header is missing key column %q", table.Name, key)
	}

	rows := [][]any{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", table.Name, line, err)
		}

		row := make([]any, len(table.Columns))
		for i, col := range table.Columns {
			cell := ""
			if pos, ok := positions[col.Name]; ok && pos < len(record) {
				cell = strings.TrimSpace(record[pos])
			}
			value, err := convert(cell, col.Kind)
			if err != nil {
				return nil, fmt.Errorf("%s: line %d: column %s: %w", table.Name, line, col.Name, err)
			}
			row[i] = value
		}
		if row[0] == "" {
			return nil, fmt.Errorf("%s: line %d: empty %s", table.Name, line, key)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// convert turns a cell into the Go value for its column. Empty and NaN
// numeric cells load as zero; integers exported as floats ("3.0") are accepted.
func convert(cell string, kind columnKind) (any, error) {
	switch kind {
	case kindInt:
		if isBlankNumber(cell) {
			return int32(0), nil
		}
		if n, err := strconv.ParseInt(cell, 10, 32); err == nil {
			return int32(n), nil
		}
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
			return nil, fmt.Errorf("invalid integer %q", cell)
		}
		return int32(f), nil
	case kindFloat:
		if isBlankNumber(cell) {
			return float64(0), nil
		}
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", cell)
		}
		return f, nil
	default:
		return cell, nil
	}
}

func isBlankNumber(cell string) bool {
	return cell == "" || strings.EqualFold(cell, "nan")
}
