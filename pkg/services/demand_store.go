package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// DemandPoint represents a single daily demand observation.
type DemandPoint struct {
	Date     time.Time
	Quantity float64
}

// DemandTable is an immutable snapshot of the loaded dataset: one shared
// date axis, one demand column per product. It is replaced wholesale on
// reload and never mutated in place, so readers can hold a reference
// without locking.
type DemandTable struct {
	Dates    []time.Time
	Products []string             // column order preserved from the file
	Columns  map[string][]float64 // product -> per-date quantities (0 where blank)
}

// DemandStore holds the current demand table behind a single write lock.
// Snapshot returns the current table; ReplaceFromRows swaps in a new one
// atomically, so concurrent readers see either the old or the new table,
// never a partial mix.
type DemandStore struct {
	mu          sync.RWMutex
	table       *DemandTable
	dateLayouts []string
}

// NewDemandStore creates an empty store. Data arrives via LoadFile or
// ReplaceFromRows.
func NewDemandStore() *DemandStore {
	return &DemandStore{
		dateLayouts: []string{
			time.RFC3339,
			"2006-01-02",
			"2006-1-2",
			"2006/01/02",
			"2006/1/2",
			"02/01/2006",
			"2/1/2006",
			"02-01-2006",
			"20060102",
		},
	}
}

// Snapshot returns the current table, or ErrDataNotLoaded if nothing has
// been loaded yet.
func (s *DemandStore) Snapshot() (*DemandTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, ErrDataNotLoaded
	}
	return s.table, nil
}

// Loaded reports whether a table is present.
func (s *DemandStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table != nil
}

// ReplaceFromRows parses raw table rows (header + data) and atomically
// replaces the current table. The header must contain a Date column; every
// other column becomes a product. Rows whose date cannot be parsed are
// dropped. On any error the previous table is left untouched.
func (s *DemandStore) ReplaceFromRows(rows [][]string) (int, error) {
	table, err := s.parseRows(rows)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
	return len(table.Products), nil
}

// LoadFile loads a CSV or XLSX dataset from disk.
func (s *DemandStore) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	rows, err := s.readRows(data, filepath.Ext(path))
	if err != nil {
		return 0, err
	}
	return s.ReplaceFromRows(rows)
}

// ReplaceFromUpload parses an uploaded file body (CSV or XLSX, chosen by
// extension) and replaces the current table.
func (s *DemandStore) ReplaceFromUpload(data []byte, filename string) (int, error) {
	rows, err := s.readRows(data, filepath.Ext(filename))
	if err != nil {
		return 0, err
	}
	return s.ReplaceFromRows(rows)
}

func (s *DemandStore) readRows(data []byte, ext string) ([][]string, error) {
	switch strings.ToLower(ext) {
	case ".xlsx":
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedInput)
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		return rows, nil
	default:
		r := csv.NewReader(bytes.NewReader(data))
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		return rows, nil
	}
}

// parseRows builds a DemandTable from header + data rows.
func (s *DemandStore) parseRows(rows [][]string) (*DemandTable, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: no data rows", ErrMalformedInput)
	}

	header := normalizeHeader(rows[0])
	dateIdx := findColumn(header, "date")
	if dateIdx == -1 {
		return nil, fmt.Errorf("%w: date column not found", ErrMalformedInput)
	}

	// All non-date columns are products; keep file order.
	products := make([]string, 0, len(rows[0])-1)
	colIdx := make([]int, 0, len(rows[0])-1)
	for i, raw := range rows[0] {
		if i == dateIdx {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
		if name == "" {
			continue
		}
		products = append(products, name)
		colIdx = append(colIdx, i)
	}

	type parsedRow struct {
		date   time.Time
		values []float64
	}
	parsed := make([]parsedRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if dateIdx >= len(row) {
			continue
		}
		dt, ok := parseAnyDate(row[dateIdx], s.dateLayouts)
		if !ok {
			continue // unparseable date: drop the row
		}
		values := make([]float64, len(products))
		for j, idx := range colIdx {
			if idx >= len(row) {
				continue
			}
			raw := strings.ReplaceAll(strings.TrimSpace(row[idx]), ",", "")
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 {
				continue // blanks and garbage count as zero demand
			}
			values[j] = v
		}
		parsed = append(parsed, parsedRow{date: dt, values: values})
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("%w: no rows with a parseable date", ErrMalformedInput)
	}

	// Sort ascending and deduplicate by day, last row wins.
	sort.SliceStable(parsed, func(i, j int) bool { return parsed[i].date.Before(parsed[j].date) })
	dedup := parsed[:0]
	for _, p := range parsed {
		if len(dedup) > 0 && dedup[len(dedup)-1].date.Equal(p.date) {
			dedup[len(dedup)-1] = p
			continue
		}
		dedup = append(dedup, p)
	}

	table := &DemandTable{
		Dates:    make([]time.Time, len(dedup)),
		Products: products,
		Columns:  make(map[string][]float64, len(products)),
	}
	for _, name := range products {
		table.Columns[name] = make([]float64, len(dedup))
	}
	for i, p := range dedup {
		table.Dates[i] = p.date
		for j, name := range products {
			table.Columns[name][i] = p.values[j]
		}
	}
	return table, nil
}

// Series returns the full daily series for a product, zeros included.
func (t *DemandTable) Series(productID string) ([]DemandPoint, error) {
	col, ok := t.Columns[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	out := make([]DemandPoint, len(col))
	for i, v := range col {
		out[i] = DemandPoint{Date: t.Dates[i], Quantity: v}
	}
	return out, nil
}

// PositiveSeries returns the series with zero-demand days removed,
// ascending by date.
func (t *DemandTable) PositiveSeries(productID string) ([]DemandPoint, error) {
	series, err := t.Series(productID)
	if err != nil {
		return nil, err
	}
	out := make([]DemandPoint, 0, len(series))
	for _, p := range series {
		if p.Quantity > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

// Tail returns the quantities of the last n days for a product (all of
// them if fewer exist), gaps counted as zero.
func (t *DemandTable) Tail(productID string, n int) ([]float64, error) {
	col, ok := t.Columns[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if n > len(col) {
		n = len(col)
	}
	out := make([]float64, n)
	copy(out, col[len(col)-n:])
	return out, nil
}

// LastDate returns the most recent date on the table's axis.
func (t *DemandTable) LastDate() time.Time {
	if len(t.Dates) == 0 {
		return time.Time{}
	}
	return t.Dates[len(t.Dates)-1]
}

func normalizeHeader(hdr []string) []string {
	out := make([]string, len(hdr))
	for i, v := range hdr {
		v = strings.TrimPrefix(v, "\ufeff")
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}

func findColumn(hdr []string, candidates ...string) int {
	for _, c := range candidates {
		for i, v := range hdr {
			if v == c {
				return i
			}
		}
	}
	return -1
}

func parseAnyDate(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return day(t), true
		}
	}
	// date part only if a time component is attached
	if i := strings.IndexAny(s, " T"); i > 0 {
		part := s[:i]
		for _, layout := range layouts {
			if t, err := time.Parse(layout, part); err == nil {
				return day(t), true
			}
		}
	}
	return time.Time{}, false
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
