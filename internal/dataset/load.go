package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Load reads a sales file. Workbooks (.xlsx, .xlsm) are read from their
// first sheet; anything else is parsed as comma-delimited text.
func Load(path string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path, "")
	}

	if err := checkReadable(path); err != nil {
		return Table{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	defer file.Close()

	return LoadCSV(file)
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory, not a file", ErrNotFound, path)
	}
	return nil
}

// LoadCSV parses comma-delimited text whose first line is the header.
func LoadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, malformed("file has no header row")
	}
	if err != nil {
		return Table{}, malformed("failed to read header: %v", err)
	}

	binding, err := bindHeader(header)
	if err != nil {
		return Table{}, err
	}

	var records []Record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return Table{}, malformed("line %d: %v", parseErr.Line, parseErr.Err)
			}
			return Table{}, malformed("%v", err)
		}

		line, _ := reader.FieldPos(0)
		rec, err := parseRecord(binding, fields, line)
		if err != nil {
			return Table{}, err
		}
		records = append(records, rec)
	}

	return Table{Records: records}, nil
}

// LoadXLSX reads the named sheet of a workbook, or the first sheet when
// sheet is empty. Row numbers in errors are spreadsheet row numbers.
func LoadXLSX(path, sheet string) (Table, error) {
	if err := checkReadable(path); err != nil {
		return Table{}, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, malformed("failed to open workbook %s: %v", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, malformed("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, malformed("failed to read sheet %q: %v", sheet, err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !blankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return Table{}, malformed("sheet %q has no header row", sheet)
	}

	binding, err := bindHeader(rows[headerIdx])
	if err != nil {
		return Table{}, err
	}

	var records []Record
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		// GetRows drops trailing empty cells.
		for len(row) < len(binding) {
			row = append(row, "")
		}
		rec, err := parseRecord(binding, row, i+1)
		if err != nil {
			return Table{}, err
		}
		records = append(records, rec)
	}

	return Table{Records: records}, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func bindHeader(header []string) ([]ColumnSpec, error) {
	binding := make([]ColumnSpec, len(header))
	seen := make(map[Column]bool)

	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		spec, ok := SalesSchema.lookup(name)
		if !ok {
			return nil, malformed("unexpected column %q, want columns %s", name, strings.Join(SalesSchema.Names(), ","))
		}
		if seen[spec.Column] {
			return nil, malformed("duplicate column %q", name)
		}
		seen[spec.Column] = true
		binding[i] = spec
	}

	for _, spec := range SalesSchema {
		if !seen[spec.Column] {
			return nil, malformed("missing column %q", spec.Name)
		}
	}

	return binding, nil
}

func parseRecord(binding []ColumnSpec, fields []string, line int) (Record, error) {
	if len(fields) != len(binding) {
		return Record{}, malformed("line %d: wrong number of fields: got %d, want %d", line, len(fields), len(binding))
	}

	rec := Record{Line: line}
	for i, spec := range binding {
		raw := fields[i]
		if !utf8.ValidString(raw) {
			return Record{}, &RowError{Line: line, Column: spec.Name, Value: raw, Reason: "invalid UTF-8"}
		}
		if isMissing(raw) {
			rec.Missing = rec.Missing.With(spec.Column)
			continue
		}
		value := strings.TrimSpace(raw)

		switch spec.Column {
		case ColDate:
			rec.Date = value
		case ColCategory:
			rec.Category = value
		case ColRegion:
			rec.Region = value
		case ColSales:
			sales, err := strconv.ParseFloat(value, 64)
			if err != nil || math.IsInf(sales, 0) || math.IsNaN(sales) {
				return Record{}, &RowError{Line: line, Column: spec.Name, Value: value, Reason: "not a number"}
			}
			if sales < 0 {
				return Record{}, &RowError{Line: line, Column: spec.Name, Value: value, Reason: "negative sales"}
			}
			rec.Sales = sales
		case ColQuantity:
			qty, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return Record{}, &RowError{Line: line, Column: spec.Name, Value: value, Reason: "not an integer"}
			}
			if qty < 0 {
				return Record{}, &RowError{Line: line, Column: spec.Name, Value: value, Reason: "negative quantity"}
			}
			rec.Quantity = qty
		}
	}

	return rec, nil
}
