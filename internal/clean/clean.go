// Package clean turns a loaded sales table into complete, typed sales.
package clean

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"saleseda/internal/dataset"
)

const DefaultDateLayout = "2006-01-02"

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrIncomplete  = errors.New("incomplete record")
)

// DateError reports a Date value none of the layouts could parse.
type DateError struct {
	Line    int
	Value   string
	Layouts []string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: line %d: %q does not match %s", ErrInvalidDate, e.Line, e.Value, strings.Join(e.Layouts, " or "))
}

func (e *DateError) Unwrap() error {
	return ErrInvalidDate
}

// DropIncomplete returns a new table holding only records with every field
// present, in their original order.
func DropIncomplete(t dataset.Table) dataset.Table {
	kept := make([]dataset.Record, 0, len(t.Records))
	for _, rec := range t.Records {
		if rec.Complete() {
			kept = append(kept, rec)
		}
	}
	return dataset.Table{Records: kept}
}

// NormalizeDates parses the Date of every record. It fails on the first
// value that matches none of the layouts; nothing is dropped silently.
func NormalizeDates(t dataset.Table, layouts ...string) ([]dataset.Sale, error) {
	if len(layouts) == 0 {
		layouts = []string{DefaultDateLayout}
	}

	sales := make([]dataset.Sale, 0, len(t.Records))
	for _, rec := range t.Records {
		if !rec.Complete() {
			return nil, fmt.Errorf("%w at line %d", ErrIncomplete, rec.Line)
		}

		date, ok := parseDate(rec.Date, layouts)
		if !ok {
			return nil, &DateError{Line: rec.Line, Value: rec.Date, Layouts: layouts}
		}

		sales = append(sales, dataset.Sale{
			Date:     date,
			Category: rec.Category,
			Region:   rec.Region,
			Sales:    rec.Sales,
			Quantity: rec.Quantity,
		})
	}

	return sales, nil
}

func parseDate(value string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// Clean drops incomplete records and normalizes the rest.
func Clean(t dataset.Table, layouts ...string) (dataset.Table, []dataset.Sale, error) {
	complete := DropIncomplete(t)
	sales, err := NormalizeDates(complete, layouts...)
	if err != nil {
		return complete, nil, err
	}
	return complete, sales, nil
}
