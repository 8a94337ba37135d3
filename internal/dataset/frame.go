package dataset

import (
	"strconv"
	"strings"

	"wastesense/internal/analytics"
)

// Frame is a row-oriented table as handed over by the upload boundary:
// a header plus string cells, with a numeric view computed per column.
// A column is numeric-typed when every non-empty cell parses as a number
// and at least one cell does; mixed columns stay text and are excluded
// from the correlation engine, exactly like an object-typed column.
type Frame struct {
	columns []string
	cells   map[string][]string
	numeric map[string][]analytics.Number
	rows    int
}

// NewFrame builds a Frame from a header and rows. Header names are
// whitespace-trimmed; short rows are padded with empty cells and long rows
// truncated to the header width.
func NewFrame(header []string, rows [][]string) *Frame {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	f := &Frame{
		columns: columns,
		cells:   make(map[string][]string, len(columns)),
		rows:    len(rows),
	}
	for i, col := range columns {
		values := make([]string, len(rows))
		for r, row := range rows {
			if i < len(row) {
				values[r] = row[i]
			}
		}
		f.cells[col] = values
	}

	f.numeric = make(map[string][]analytics.Number)
	for _, col := range columns {
		if parsed, ok := parseNumericColumn(f.cells[col]); ok {
			f.numeric[col] = parsed
		}
	}
	return f
}

// ParseNumber coerces one cell to an optional number. Empty or
// non-parseable cells become missing rather than failing the row.
func ParseNumber(cell string) analytics.Number {
	s := strings.TrimSpace(cell)
	if s == "" {
		return analytics.None()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return analytics.None()
	}
	return analytics.Num(v)
}

func parseNumericColumn(cells []string) ([]analytics.Number, bool) {
	parsed := make([]analytics.Number, len(cells))
	any := false
	for i, cell := range cells {
		s := strings.TrimSpace(cell)
		if s == "" {
			parsed[i] = analytics.None()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		parsed[i] = analytics.Num(v)
		any = true
	}
	return parsed, any
}

// Columns returns the header names in input order.
func (f *Frame) Columns() []string {
	return f.columns
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.rows
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.cells[name]
	return ok
}

// Column returns the raw text cells of the named column.
func (f *Frame) Column(name string) ([]string, bool) {
	cells, ok := f.cells[name]
	return cells, ok
}

// NumericColumn returns the parsed cells of a numeric-typed column.
func (f *Frame) NumericColumn(name string) ([]analytics.Number, bool) {
	parsed, ok := f.numeric[name]
	return parsed, ok
}

// NumericColumns returns the numeric-typed column names in header order.
func (f *Frame) NumericColumns() []string {
	var names []string
	for _, col := range f.columns {
		if _, ok := f.numeric[col]; ok {
			names = append(names, col)
		}
	}
	return names
}
