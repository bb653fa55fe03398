package model

import (
	"fmt"
	"sort"
)

// Table is the parsed contents of one log file: an ordered sequence of
// records with non-decreasing timestamps. A Table is never mutated after
// construction; accessors hand out copies of anything aliasable.
type Table struct {
	path    string
	columns []string
	records []Record
}

// NewTable builds a Table from decoded records. Records must already be
// in non-decreasing timestamp order; out-of-order input is rejected so
// that decoders, not consumers, carry the sorting obligation.
func NewTable(path string, columns []string, records []Record) (*Table, error) {
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp < records[i-1].Timestamp {
			return nil, fmt.Errorf("table %s: timestamp regression at record %d (%d < %d)",
				path, i, records[i].Timestamp, records[i-1].Timestamp)
		}
	}
	cols := append([]string(nil), columns...)
	return &Table{path: path, columns: cols, records: records}, nil
}

// Path returns the source file the table was decoded from.
func (t *Table) Path() string { return t.path }

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// Record returns the record at index i.
func (t *Table) Record(i int) Record { return t.records[i] }

// Records returns a copy of the record slice in timestamp order.
func (t *Table) Records() []Record {
	return append([]Record(nil), t.records...)
}

// Timestamps returns every record timestamp in order.
func (t *Table) Timestamps() []int64 {
	out := make([]int64, len(t.records))
	for i, r := range t.records {
		out[i] = r.Timestamp
	}
	return out
}

// Floats returns the named column as a float64 slice. Records where the
// field is missing or non-numeric contribute NaN-free zeros only when
// ok reports true for every row; otherwise ok is false and the partial
// slice is still returned for callers that tolerate gaps.
func (t *Table) Floats(name string) ([]float64, bool) {
	out := make([]float64, len(t.records))
	all := true
	for i, r := range t.records {
		v, ok := r.Float(name)
		if !ok {
			all = false
			continue
		}
		out[i] = v
	}
	return out, all
}

// IndexAtOrAfter returns the index of the first record whose timestamp
// is >= ts, or Len() when every record precedes ts.
func (t *Table) IndexAtOrAfter(ts int64) int {
	return sort.Search(len(t.records), func(i int) bool {
		return t.records[i].Timestamp >= ts
	})
}
