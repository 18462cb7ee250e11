package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"yhdash/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// ParseWorkbook reads an Excel workbook and builds a dataset from the first
// sheet whose header row contains the Län column. When no sheet qualifies the
// first sheet is used, which then fails the column check.
func ParseWorkbook(r io.Reader) (*domain.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}

	var fallback [][]string
	for i, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		if i == 0 {
			fallback = rows
		}
		if header, ok := headerRow(rows); ok && containsColumn(header, domain.ColumnCounty) {
			return buildDataset(rows)
		}
	}
	return buildDataset(fallback)
}

// ParseCSV reads a comma separated export of the workbook
func ParseCSV(r io.Reader) (*domain.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return buildDataset(rows)
}

// buildDataset turns raw rows into a dataset. The first non-empty row is the
// header; later empty rows are dropped and short rows padded to header width.
func buildDataset(rows [][]string) (*domain.Dataset, error) {
	start := -1
	for i, row := range rows {
		if !isEmptyRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoHeader
	}

	columns := normalizeHeader(rows[start])
	if !containsColumn(columns, domain.ColumnCounty) {
		return nil, ErrMissingCountyColumn
	}

	yearIdx := indexOf(columns, domain.ColumnYear)
	records := make([]domain.Record, 0, len(rows)-start-1)
	for _, row := range rows[start+1:] {
		if isEmptyRow(row) {
			continue
		}
		values := make([]string, len(columns))
		for j := range values {
			if j < len(row) {
				values[j] = strings.TrimSpace(row[j])
			}
		}
		rec := domain.Record{Values: values}
		if yearIdx >= 0 {
			rec.Year, rec.HasYear = ParseYear(values[yearIdx])
		}
		records = append(records, rec)
	}

	return domain.NewDataset(columns, records), nil
}

// ParseYear parses an År cell. Whole numbers written as floats ("2021.0")
// are accepted; anything else, including numbers outside
// [domain.MinYear, domain.MaxYear], is reported as not a year.
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if y, err := strconv.Atoi(s); err == nil {
		return checkYear(y)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < domain.MinYear || f > domain.MaxYear {
		return 0, false
	}
	return checkYear(int(f))
}

func checkYear(y int) (int, bool) {
	if !domain.ValidYear(y) {
		return 0, false
	}
	return y, true
}

func headerRow(rows [][]string) ([]string, bool) {
	for _, row := range rows {
		if !isEmptyRow(row) {
			return normalizeHeader(row), true
		}
	}
	return nil, false
}

// normalizeHeader trims header cells, strips a leading BOM and names blank
// cells after their position
func normalizeHeader(row []string) []string {
	columns := make([]string, len(row))
	for i, cell := range row {
		name := strings.TrimSpace(strings.TrimPrefix(cell, utf8BOM))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		columns[i] = name
	}
	return columns
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func containsColumn(columns []string, name string) bool {
	return indexOf(columns, name) >= 0
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
