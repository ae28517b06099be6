package dataset

import (
	_ "embed"
	"strings"
)

//go:embed sample.csv
var sampleCSV string

// Sample returns the bundled fourteen-day sales dataset.
func Sample() (Table, error) {
	return LoadCSV(strings.NewReader(sampleCSV))
}
