package manifest

import (
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

const (
	// TrackingPrefix starts every batch tracking reference.
	TrackingPrefix = "%0SL30HE1550"

	trackingMin int64 = 1_000_000_000_000
	trackingMax int64 = 9_999_999_999_999

	ReferenceColumn = "Reference"
	ISBNColumn      = "ISBN"
)

// QuantityAliases lists the accepted quantity headers in priority order.
// The first one present in a row wins.
var QuantityAliases = []string{"Quantity", "quantity", "QUANTITY", "Qty", "qty", "QTY"}

// Source supplies the randomness behind tracking references.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Int64N(n int64) int64
}

type globalSource struct{}

func (globalSource) Int64N(n int64) int64 {
	return rand.Int64N(n)
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSource replaces the random source used for tracking references.
func WithSource(src Source) Option {
	return func(n *Normalizer) {
		if src != nil {
			n.src = src
		}
	}
}

// Normalizer converts raw rows into manifest records.
type Normalizer struct {
	src Source
}

// NewNormalizer returns a Normalizer backed by the global random source
// unless an option overrides it.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{src: globalSource{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts rows using a fresh default Normalizer.
func Normalize(rows []RawRow) []Record {
	return NewNormalizer().Normalize(rows)
}

// Normalize converts rows into records in source order. All records of one
// call share a single tracking reference. An empty input returns an empty
// slice and draws no tracking reference.
func (n *Normalizer) Normalize(rows []RawRow) []Record {
	if len(rows) == 0 {
		return []Record{}
	}

	trackingRef := n.TrackingRef()
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = Record{
			Reference:   text(row, ReferenceColumn),
			LineNumber:  LineNumber(i + 1),
			ISBN:        text(row, ISBNColumn),
			Date:        DefaultDate,
			Courier:     DefaultCourier,
			Quantity:    Quantity(row),
			Status:      DefaultStatus,
			TrackingRef: trackingRef,
		}
	}
	return records
}

// TrackingRef draws a new batch tracking reference: TrackingPrefix followed by
// a 13 digit number.
func (n *Normalizer) TrackingRef() string {
	num := trackingMin + n.src.Int64N(trackingMax-trackingMin+1)
	return TrackingPrefix + strconv.FormatInt(num, 10)
}

// QuantityColumn finds the row's quantity header. Exact aliases are tried in
// priority order first, then any header matching an alias ignoring case and
// surrounding spaces.
func QuantityColumn(row RawRow) (string, bool) {
	for _, alias := range QuantityAliases {
		if _, ok := row[alias]; ok {
			return alias, true
		}
	}

	for _, header := range slices.Sorted(maps.Keys(row)) {
		name := strings.TrimSpace(header)
		for _, alias := range QuantityAliases {
			if strings.EqualFold(name, alias) {
				return header, true
			}
		}
	}
	return "", false
}

// Quantity returns the row's quantity as a canonical decimal string.
// A missing column, nil, non-numeric or non-finite value gives
// DefaultQuantity. Zero and blank cells give "0".
func Quantity(row RawRow) string {
	column, ok := QuantityColumn(row)
	if !ok {
		return DefaultQuantity
	}
	return canonicalQuantity(row[column])
}

func canonicalQuantity(v any) string {
	if v == nil {
		return DefaultQuantity
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			// a blank cell under a quantity header reads as zero
			return "0"
		}
		v = s
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultQuantity
	}
	if f == 0 {
		// folds -0
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func text(row RawRow, column string) string {
	v, ok := row[column]
	if !ok || v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}
