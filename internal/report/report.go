// Package report reads the per-file CSV report written by
// `cloc --by-file --csv --out loc.csv <dir>`.
//
// A cloc CSV starts with a header whose last column carries the cloc
// signature and timing information, and ends with a SUM row. Parse drops
// both so that the remaining rows are one entry per counted file.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"locplot/pkg/log"

	"go.uber.org/zap"
)

// Signature is the marker cloc writes into the header of its CSV output.
const Signature = "github.com/AlDanial/cloc"

var (
	ErrEmptyReport    = errors.New("report is empty")
	ErrColumnNotFound = errors.New("column not found")
)

// Table is an in-memory copy of a report with the signature column and the
// summary row removed.
type Table struct {
	header []string
	rows   [][]string
}

// Load opens path and parses it as a cloc report.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	log.Debug("report loaded", zap.String("path", path), zap.Int("rows", t.Len()))
	return t, nil
}

// Parse reads a report from r.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyReport
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	keep := make([]int, 0, len(header))
	for i, name := range header {
		if strings.Contains(name, Signature) {
			log.Debug("dropping signature column", zap.Int("index", i))
			continue
		}
		keep = append(keep, i)
	}

	t := &Table{header: pick(header, keep)}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if len(record) > len(header) {
			return nil, fmt.Errorf("line %d: expected at most %d fields, got %d", line, len(header), len(record))
		}

		// cloc leaves the signature cell off data rows entirely.
		for len(record) < len(header) {
			record = append(record, "")
		}

		t.rows = append(t.rows, pick(record, keep))
	}

	if len(t.rows) > 0 {
		t.rows = t.rows[:len(t.rows)-1]
	}

	return t, nil
}

func pick(record []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = record[j]
	}
	return out
}

// Header returns the remaining column names.
func (t *Table) Header() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) index(name string) (int, error) {
	for i, h := range t.header {
		if h == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q (have %s)", ErrColumnNotFound, name, strings.Join(t.header, ", "))
}

// Column returns the cells of the named column exactly as they appear in
// the report.
func (t *Table) Column(name string) ([]string, error) {
	idx, err := t.index(name)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Float64s returns the named column parsed as numbers.
func (t *Table) Float64s(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// GroupBy splits the numeric column value by the cells of column key.
// Group names are returned in the order they first appear.
func (t *Table) GroupBy(key, value string) (map[string][]float64, []string, error) {
	keys, err := t.Column(key)
	if err != nil {
		return nil, nil, err
	}
	values, err := t.Float64s(value)
	if err != nil {
		return nil, nil, err
	}

	groups := make(map[string][]float64)
	var order []string
	for i, k := range keys {
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], values[i])
	}
	return groups, order, nil
}
