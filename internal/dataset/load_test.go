package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const header = "Date,Product Category,Region,Sales,Quantity\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSample(t *testing.T) {
	table, err := Sample()
	require.NoError(t, err)

	rows, cols := table.Shape()
	assert.Equal(t, 14, rows)
	assert.Equal(t, 5, cols)

	first := table.Records[0]
	assert.Equal(t, "2023-01-01", first.Date)
	assert.Equal(t, "Electronics", first.Category)
	assert.Equal(t, "North", first.Region)
	assert.Equal(t, 1200.0, first.Sales)
	assert.Equal(t, int64(5), first.Quantity)
	assert.Equal(t, 2, first.Line)
	assert.True(t, first.Complete())
}

func TestLoad_NotFound(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "missing csv", path: filepath.Join(t.TempDir(), "nope.csv")},
		{name: "missing workbook", path: filepath.Join(t.TempDir(), "nope.xlsx")},
		{name: "directory", path: t.TempDir()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Load(tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))
			assert.Nil(t, table.Records)
		})
	}
}

func TestLoad_FromDisk(t *testing.T) {
	path := writeFile(t, "data.csv", header+"2023-01-01,Electronics,North,1200,5\n2023-01-02,Clothing,South,450.5,15\n")

	table, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, 450.5, table.Records[1].Sales)
}

func TestLoadCSV_HeaderOnly(t *testing.T) {
	table, err := LoadCSV(strings.NewReader(header))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())

	info := table.Info()
	assert.Equal(t, 0, info.Rows)
	assert.Len(t, info.Columns, 5)
}

func TestLoadCSV_MissingValues(t *testing.T) {
	input := header +
		"2023-01-01,Electronics,North,,5\n" +
		"2023-01-02,Clothing,NA,450,15\n" +
		"2023-01-03,Home Goods,East,800,8\n"

	table, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	assert.True(t, table.Records[0].Missing.Has(ColSales))
	assert.False(t, table.Records[0].Missing.Has(ColQuantity))
	assert.True(t, table.Records[1].Missing.Has(ColRegion))
	assert.True(t, table.Records[2].Complete())

	info := table.Info()
	byName := map[string]ColumnInfo{}
	for _, c := range info.Columns {
		byName[c.Name] = c
	}
	assert.Equal(t, 1, byName["Sales"].Missing)
	assert.Equal(t, 2, byName["Sales"].NonNull)
	assert.Equal(t, "float64", byName["Sales"].DType)
	assert.Equal(t, "int64", byName["Quantity"].DType)
	assert.Equal(t, "object", byName["Date"].DType)
	assert.Equal(t, 1, byName["Region"].Missing)
}

func TestLoadCSV_ColumnOrderAndWhitespace(t *testing.T) {
	input := "\ufeffSales, Quantity ,Date,Region,Product Category\n" +
		"1200, 5,2023-01-01,North,\"Electronics\"\n"

	table, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	rec := table.Records[0]
	assert.Equal(t, "Electronics", rec.Category)
	assert.Equal(t, int64(5), rec.Quantity)
	assert.Equal(t, "2023-01-01", rec.Date)
}

func TestLoadCSV_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "empty file", input: "", wantMsg: "no header"},
		{name: "unknown column", input: "Date,Product Category,Region,Sales,Units\n", wantMsg: "unexpected column"},
		{name: "missing column", input: "Date,Product Category,Region,Sales\n", wantMsg: "missing column"},
		{name: "duplicate column", input: "Date,Date,Product Category,Region,Sales,Quantity\n", wantMsg: "duplicate column"},
		{name: "wrong field count", input: header + "2023-01-01,Electronics,North,1200\n", wantMsg: "line 2"},
		{name: "non numeric sales", input: header + "2023-01-01,Electronics,North,lots,5\n", wantMsg: "not a number"},
		{name: "negative sales", input: header + "2023-01-01,Electronics,North,-5,5\n", wantMsg: "negative sales"},
		{name: "fractional quantity", input: header + "2023-01-01,Electronics,North,100,2.5\n", wantMsg: "not an integer"},
		{name: "negative quantity", input: header + "2023-01-01,Electronics,North,100,-1\n", wantMsg: "negative quantity"},
		{name: "infinite sales", input: header + "2023-01-01,Electronics,North,Inf,1\n", wantMsg: "not a number"},
		{name: "invalid utf8", input: header + "2023-01-01,Electr\xffnics,North,100,1\n", wantMsg: "invalid UTF-8"},
		{name: "bad quoting", input: header + "2023-01-01,\"Electronics,North,100,1\n", wantMsg: "malformed input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := LoadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Nil(t, table.Records)
		})
	}
}

func TestLoadCSV_RowErrorDetails(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(header + "2023-01-01,Electronics,North,100,1\n2023-01-02,Clothing,South,abc,2\n"))
	require.Error(t, err)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 3, rowErr.Line)
	assert.Equal(t, "Sales", rowErr.Column)
	assert.Equal(t, "abc", rowErr.Value)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sales"
	f.SetSheetName("Sheet1", sheet)
	rows := [][]interface{}{
		{"Date", "Product Category", "Region", "Sales", "Quantity"},
		{"2023-01-01", "Electronics", "North", 1200, 5},
		{"2023-01-02", "Clothing", "South", 450.5, 15},
		{},
		{"2023-01-03", "Home Goods", "East", 800, nil},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	assert.Equal(t, "Electronics", table.Records[0].Category)
	assert.Equal(t, 450.5, table.Records[1].Sales)
	assert.Equal(t, 5, table.Records[2].Line)
	assert.True(t, table.Records[2].Missing.Has(ColQuantity))

	_, err = LoadXLSX(path, "Nope")
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestTableHead(t *testing.T) {
	table, err := Sample()
	require.NoError(t, err)

	assert.Len(t, table.Head(5), 5)
	assert.Len(t, table.Head(100), 14)
	assert.Len(t, Table{}.Head(5), 0)
}

func TestColumnString(t *testing.T) {
	assert.Equal(t, "Product Category", ColCategory.String())
	assert.Equal(t, "Quantity", ColQuantity.String())
}
