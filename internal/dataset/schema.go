package dataset

import "strings"

type Kind int

const (
	KindString Kind = iota
	KindFloat
	KindInt
	KindDate
)

// DType is the column type name shown in the structural summary.
func (k Kind) DType() string {
	switch k {
	case KindFloat:
		return "float64"
	case KindInt:
		return "int64"
	default:
		return "object"
	}
}

type Column int

const (
	ColDate Column = iota
	ColCategory
	ColRegion
	ColSales
	ColQuantity
)

type ColumnSpec struct {
	Column Column
	Name   string
	Kind   Kind
}

// Schema lists the columns of a sales file in declaration order.
type Schema []ColumnSpec

var SalesSchema = Schema{
	{Column: ColDate, Name: "Date", Kind: KindDate},
	{Column: ColCategory, Name: "Product Category", Kind: KindString},
	{Column: ColRegion, Name: "Region", Kind: KindString},
	{Column: ColSales, Name: "Sales", Kind: KindFloat},
	{Column: ColQuantity, Name: "Quantity", Kind: KindInt},
}

func (c Column) String() string {
	for _, spec := range SalesSchema {
		if spec.Column == c {
			return spec.Name
		}
	}
	return "unknown"
}

func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, spec := range s {
		names[i] = spec.Name
	}
	return names
}

func (s Schema) lookup(name string) (ColumnSpec, bool) {
	for _, spec := range s {
		if spec.Name == name {
			return spec, true
		}
	}
	return ColumnSpec{}, false
}

var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
}

func isMissing(raw string) bool {
	return missingTokens[strings.TrimSpace(raw)]
}
