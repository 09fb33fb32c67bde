package stats

import "math"

// Frame is a small column-named result table produced by the statistical
// tests. Cells are strings, float64s, ints or bools.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// ColumnIndex returns the position of a column, -1 when absent.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the frame carries the named column.
func (f *Frame) HasColumn(name string) bool { return f.ColumnIndex(name) >= 0 }

// Floats extracts a column as float64 values; non-numeric cells come out
// as NaN.
func (f *Frame) Floats(name string) []float64 {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(f.Rows))
	for i, row := range f.Rows {
		switch v := row[idx].(type) {
		case float64:
			out[i] = v
		case int:
			out[i] = float64(v)
		default:
			out[i] = math.NaN()
		}
	}
	return out
}

// SetFloats replaces or appends a numeric column.
func (f *Frame) SetFloats(name string, values []float64) {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		f.Columns = append(f.Columns, name)
		for i := range f.Rows {
			f.Rows[i] = append(f.Rows[i], values[i])
		}
		return
	}
	for i := range f.Rows {
		f.Rows[i][idx] = values[i]
	}
}

// SetConstant replaces or appends a column holding the same cell in every
// row.
func (f *Frame) SetConstant(name string, value any) {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		f.Columns = append(f.Columns, name)
		for i := range f.Rows {
			f.Rows[i] = append(f.Rows[i], value)
		}
		return
	}
	for i := range f.Rows {
		f.Rows[i][idx] = value
	}
}

// prependColumn inserts a column at the front, used to label groupby
// fan-out results with their group level.
func (f *Frame) prependColumn(name string, value any) {
	f.Columns = append([]string{name}, f.Columns...)
	for i := range f.Rows {
		f.Rows[i] = append([]any{value}, f.Rows[i]...)
	}
}

// appendFrame concatenates rows of another frame with identical columns.
func (f *Frame) appendFrame(other *Frame) {
	if len(f.Columns) == 0 {
		f.Columns = other.Columns
	}
	f.Rows = append(f.Rows, other.Rows...)
}

// filterRows returns a copy keeping only rows where keep returns true.
func (f *Frame) filterRows(keep func(row []any) bool) *Frame {
	out := &Frame{Columns: append([]string(nil), f.Columns...)}
	for _, row := range f.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// dropColumn returns a copy without the named column.
func (f *Frame) dropColumn(name string) *Frame {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return f
	}
	out := &Frame{}
	for i, c := range f.Columns {
		if i != idx {
			out.Columns = append(out.Columns, c)
		}
	}
	for _, row := range f.Rows {
		var dst []any
		for i, cell := range row {
			if i != idx {
				dst = append(dst, cell)
			}
		}
		out.Rows = append(out.Rows, dst)
	}
	return out
}
