// Package tableio holds the shared CSV plumbing used by the concrete
// log formats: header-only probes, last-line timestamp probes, and the
// full decode into a model.Table. Probes read a bounded prefix (or
// suffix) of the file; only Decode reads the whole thing.
package tableio

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/crimson-sun/rigtrac/internal/model"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// TimestampColumn is the column every rig log carries: nanoseconds
// since the Unix epoch, written by the logging node.
const TimestampColumn = "timestamp"

// Header reads only the first line of a CSV file and returns its
// column names.
func Header(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(io.LimitReader(f, 64*1024))
	cols, err := r.Read()
	if err != nil {
		return nil, err
	}
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols, nil
}

// HasColumns reports whether the header of the CSV at path contains
// every name in required. Any read or parse error counts as "no".
func HasColumns(path string, required []string) bool {
	cols, err := Header(path)
	if err != nil {
		return false
	}
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c] = true
	}
	for _, want := range required {
		if !have[want] {
			return false
		}
	}
	return true
}

// LastLine returns the final non-empty line of the file without reading
// it from the front: it reads only a fixed-size window off the end.
func LastLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	const window = 64 * 1024
	off := info.Size() - window
	if off < 0 {
		off = 0
	}
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return "", err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	lines := strings.Split(string(data), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimRight(lines[i], "\r"); strings.TrimSpace(line) != "" {
			return line, nil
		}
	}
	return "", errors.New("no data lines")
}

// Timespan returns the first and last record timestamps by reading only
// the header, the first data row, and the last line. This is the cheap
// probe behind the session time-base facet.
func Timespan(path string) (start, end int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	cols, err := r.Read()
	if err != nil {
		return 0, 0, err
	}
	tsIdx := -1
	for i, c := range cols {
		if strings.TrimSpace(c) == TimestampColumn {
			tsIdx = i
			break
		}
	}
	if tsIdx < 0 {
		return 0, 0, errors.New("no timestamp column")
	}
	first, err := r.Read()
	if err != nil {
		return 0, 0, err
	}
	start, err = strconv.ParseInt(strings.TrimSpace(first[tsIdx]), 10, 64)
	if err != nil {
		return 0, 0, err
	}

	line, err := LastLine(path)
	if err != nil {
		return 0, 0, err
	}
	lastFields := strings.Split(line, ",")
	if tsIdx >= len(lastFields) {
		return 0, 0, errors.New("short final record")
	}
	end, err = strconv.ParseInt(strings.TrimSpace(lastFields[tsIdx]), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Decode parses the whole CSV into a Table. The timestamp column is
// parsed as int64 nanoseconds; every other cell is stored as float64
// when it parses as one and as a string otherwise. Rows must arrive in
// non-decreasing timestamp order; a regression, a malformed timestamp,
// or a ragged row produces a *registry.CorruptLogError carrying the
// offending record number.
func Decode(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &registry.CorruptLogError{Path: path, Offset: -1, Reason: "open failed", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // raggedness reported per row below
	cols, err := r.Read()
	if err != nil {
		return nil, &registry.CorruptLogError{Path: path, Offset: 0, Reason: "unreadable header", Err: err}
	}
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	tsIdx := -1
	for i, c := range cols {
		if c == TimestampColumn {
			tsIdx = i
			break
		}
	}
	if tsIdx < 0 {
		return nil, &registry.CorruptLogError{Path: path, Offset: 0, Reason: "no timestamp column"}
	}

	var records []model.Record
	var prev int64
	for row := int64(1); ; row++ {
		raw, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &registry.CorruptLogError{Path: path, Offset: row, Reason: "unreadable record", Err: err}
		}
		if len(raw) != len(cols) {
			return nil, &registry.CorruptLogError{Path: path, Offset: row, Reason: "ragged record"}
		}
		ts, err := strconv.ParseInt(strings.TrimSpace(raw[tsIdx]), 10, 64)
		if err != nil {
			return nil, &registry.CorruptLogError{Path: path, Offset: row, Reason: "malformed timestamp", Err: err}
		}
		if len(records) > 0 && ts < prev {
			return nil, &registry.CorruptLogError{Path: path, Offset: row, Reason: "timestamp regression"}
		}
		prev = ts

		fields := make(map[string]any, len(cols))
		for i, cell := range raw {
			if i == tsIdx {
				continue
			}
			cell = strings.TrimSpace(cell)
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				fields[cols[i]] = v
			} else {
				fields[cols[i]] = cell
			}
		}
		records = append(records, model.Record{Timestamp: ts, Fields: fields})
	}

	table, err := model.NewTable(path, cols, records)
	if err != nil {
		return nil, &registry.CorruptLogError{Path: path, Offset: -1, Reason: "unordered records", Err: err}
	}
	return table, nil
}
