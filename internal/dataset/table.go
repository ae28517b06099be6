package dataset

import "time"

// ColumnSet is a bit set of columns, used to mark missing fields.
type ColumnSet uint8

func (s ColumnSet) Has(c Column) bool {
	return s&(1<<uint(c)) != 0
}

func (s ColumnSet) With(c Column) ColumnSet {
	return s | 1<<uint(c)
}

// Record is one loaded row. Date is kept as it appeared in the source;
// fields listed in Missing hold their zero value.
type Record struct {
	Line     int
	Date     string
	Category string
	Region   string
	Sales    float64
	Quantity int64
	Missing  ColumnSet
}

func (r Record) Complete() bool {
	return r.Missing == 0
}

type Table struct {
	Records []Record
}

func (t Table) Len() int {
	return len(t.Records)
}

// Shape returns rows and columns.
func (t Table) Shape() (int, int) {
	return len(t.Records), len(SalesSchema)
}

// Head returns up to n leading records.
func (t Table) Head(n int) []Record {
	if n > len(t.Records) {
		n = len(t.Records)
	}
	if n < 0 {
		n = 0
	}
	return t.Records[:n]
}

type ColumnInfo struct {
	Name    string
	DType   string
	NonNull int
	Missing int
}

type Info struct {
	Rows    int
	Columns []ColumnInfo
}

// Info summarizes the table structure: one entry per schema column with its
// type and how many values are present or missing.
func (t Table) Info() Info {
	info := Info{Rows: len(t.Records), Columns: make([]ColumnInfo, len(SalesSchema))}
	for i, spec := range SalesSchema {
		ci := ColumnInfo{Name: spec.Name, DType: spec.Kind.DType()}
		for _, rec := range t.Records {
			if rec.Missing.Has(spec.Column) {
				ci.Missing++
			} else {
				ci.NonNull++
			}
		}
		info.Columns[i] = ci
	}
	return info
}

// Sale is a cleaned record: every field present and Date parsed.
type Sale struct {
	Date     time.Time
	Category string
	Region   string
	Sales    float64
	Quantity int64
}
