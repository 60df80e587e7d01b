package regress

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Frame is a fixed-length table of named float64 columns. Columns keep
// their insertion order. A frame is the tabular dataset both fitting
// routines consume.
type Frame struct {
	names []string
	cols  map[string][]float64
	rows  int
}

// NewFrame creates an empty frame. The first column added fixes the row
// count for all subsequent columns.
func NewFrame() *Frame {
	return &Frame{cols: make(map[string][]float64)}
}

// AddColumn appends a named column. The values are copied.
func (f *Frame) AddColumn(name string, values []float64) error {
	if len(values) == 0 {
		return errors.Wrapf(ErrColumnEmpty, "column %q", name)
	}
	if _, ok := f.cols[name]; ok {
		return errors.Wrapf(ErrColumnExists, "column %q", name)
	}
	if len(f.names) > 0 && len(values) != f.rows {
		return errors.Wrapf(ErrLengthMismatch, "column %q has %d values, frame has %d rows", name, len(values), f.rows)
	}

	cpy := make([]float64, len(values))
	copy(cpy, values)
	f.names = append(f.names, name)
	f.cols[name] = cpy
	f.rows = len(values)

	return nil
}

// Column returns the values of a named column. The returned slice is
// owned by the frame and must not be modified.
func (f *Frame) Column(name string) ([]float64, error) {
	col, ok := f.cols[name]
	if !ok {
		return nil, errors.Wrapf(ErrColumnNotFound, "column %q", name)
	}

	return col, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.rows
}

// Names returns the column names in insertion order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.names))
	copy(names, f.names)

	return names
}

// WithColumn returns a copy of the frame with one existing column
// replaced by the given values. The receiver is left untouched.
func (f *Frame) WithColumn(name string, values []float64) (*Frame, error) {
	if _, ok := f.cols[name]; !ok {
		return nil, errors.Wrapf(ErrColumnNotFound, "column %q", name)
	}
	if len(values) != f.rows {
		return nil, errors.Wrapf(ErrLengthMismatch, "column %q has %d values, frame has %d rows", name, len(values), f.rows)
	}

	derived := NewFrame()
	for _, colName := range f.names {
		src := f.cols[colName]
		if colName == name {
			src = values
		}
		err := derived.AddColumn(colName, src)
		if err != nil {
			return nil, err
		}
	}

	return derived, nil
}

// Corr returns the sample Pearson correlation between two columns.
func (f *Frame) Corr(a, b string) (float64, error) {
	colA, err := f.Column(a)
	if err != nil {
		return 0, err
	}
	colB, err := f.Column(b)
	if err != nil {
		return 0, err
	}

	return stat.Correlation(colA, colB, nil), nil
}
