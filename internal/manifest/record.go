// Package manifest turns spreadsheet rows into PBS shipping manifest records
// and keeps the ordered record list that gets previewed, pruned and exported.
package manifest

import (
	"fmt"
	"strings"
)

const (
	// DefaultDate is stamped on every record.
	DefaultDate = "26112024"
	// DefaultCourier is stamped on every record.
	DefaultCourier = "DPD"
	// DefaultStatus is stamped on every record.
	DefaultStatus = "1"
	// DefaultQuantity is used when a row has no usable quantity.
	DefaultQuantity = "1"

	lineNumberWidth = 5
	fieldSeparator  = ","
)

// RawRow is one decoded spreadsheet row keyed by header name.
// Values are strings, numbers, bools or nil.
type RawRow map[string]any

// Record is a single manifest line.
type Record struct {
	Reference   string
	LineNumber  string
	ISBN        string
	Date        string
	Courier     string
	Quantity    string
	Status      string
	TrackingRef string
}

// Fields returns the record's values in export column order.
func (r Record) Fields() []string {
	return []string{
		r.Reference,
		r.LineNumber,
		r.ISBN,
		r.Date,
		r.Courier,
		r.Quantity,
		r.Status,
		r.TrackingRef,
	}
}

// String renders the record as one export line.
func (r Record) String() string {
	return strings.Join(r.Fields(), fieldSeparator)
}

// LineNumber formats a 1-based position as a zero-padded line number.
func LineNumber(position int) string {
	return fmt.Sprintf("%0*d", lineNumberWidth, position)
}
