package manifest

import (
	"slices"
	"strings"
)

// Store holds the current ordered batch of records. Line numbers always run
// 00001..N in store order.
//
// A Store is not safe for concurrent use; it is meant to have one owner.
type Store struct {
	records []Record
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// ReplaceAll installs records as the whole batch, discarding whatever was
// there before.
func (s *Store) ReplaceAll(records []Record) {
	s.records = slices.Clone(records)
	s.renumber()
}

// DeleteAt removes the record at index.
func (s *Store) DeleteAt(index int) error {
	if index < 0 || index >= len(s.records) {
		return &IndexError{Index: index, Len: len(s.records)}
	}
	s.records = slices.Delete(s.records, index, index+1)
	s.renumber()
	return nil
}

// DeleteMany removes the records at the given positions, all interpreted
// against the sequence as it was before the call. Repeated positions count
// once. If any position is out of range nothing is removed.
func (s *Store) DeleteMany(indices []int) (int, error) {
	if len(indices) == 0 {
		return 0, nil
	}

	doomed := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(s.records) {
			return 0, &IndexError{Index: idx, Len: len(s.records)}
		}
		doomed[idx] = struct{}{}
	}

	kept := make([]Record, 0, len(s.records)-len(doomed))
	for i, rec := range s.records {
		if _, ok := doomed[i]; !ok {
			kept = append(kept, rec)
		}
	}
	s.records = kept
	s.renumber()
	return len(doomed), nil
}

// Clear empties the store.
func (s *Store) Clear() {
	s.records = nil
}

// Records returns a copy of the current batch.
func (s *Store) Records() []Record {
	return slices.Clone(s.records)
}

// Len reports the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// HasData reports whether there is anything to export.
func (s *Store) HasData() bool {
	return len(s.records) > 0
}

// Serialize renders one comma separated line per record, without a header
// or trailing newline. Fields are not quoted.
func (s *Store) Serialize() (string, error) {
	if len(s.records) == 0 {
		return "", ErrNoData
	}

	lines := make([]string, len(s.records))
	for i, rec := range s.records {
		lines[i] = rec.String()
	}
	return strings.Join(lines, "\n"), nil
}

// Filename suggests the export file name, T1.M<reference>.PBS, taken from
// the first record.
func (s *Store) Filename() (string, error) {
	if len(s.records) == 0 {
		return "", ErrNoData
	}
	return "T1.M" + s.records[0].Reference + ".PBS", nil
}

func (s *Store) renumber() {
	for i := range s.records {
		s.records[i].LineNumber = LineNumber(i + 1)
	}
}
