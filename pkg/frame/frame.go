package frame

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/leapxfer/pkg/core"
)

// Series is a named column of homogeneous values.
type Series struct {
	Name   string
	Kind   core.Kind
	Values []any
}

// NewSeries validates that every non-nil value matches kind.
func NewSeries(name string, kind core.Kind, values []any) (*Series, error) {
	for i, v := range values {
		if v == nil {
			continue
		}
		if !fits(kind, v) {
			return nil, fmt.Errorf("column %q row %d: %T does not fit kind %s", name, i, v, kind)
		}
	}
	return &Series{Name: name, Kind: kind, Values: values}, nil
}

// Len returns the number of values.
func (s *Series) Len() int {
	return len(s.Values)
}

// HasNulls reports whether any value is nil.
func (s *Series) HasNulls() bool {
	for _, v := range s.Values {
		if v == nil {
			return true
		}
	}
	return false
}

func fits(kind core.Kind, v any) bool {
	switch kind {
	case core.KindInt:
		_, ok := v.(int64)
		return ok
	case core.KindFloat:
		_, ok := v.(float64)
		return ok
	case core.KindString, core.KindCategory:
		_, ok := v.(string)
		return ok
	case core.KindBool:
		_, ok := v.(bool)
		return ok
	case core.KindTimestamp:
		_, ok := v.(time.Time)
		return ok
	default:
		return false
	}
}

// Frame is an ordered set of equal-length Series.
type Frame struct {
	series []*Series
	index  map[string]int
	rows   int
}

// New builds a Frame. Names must be unique and lengths equal.
func New(series ...*Series) (*Frame, error) {
	f := &Frame{
		series: series,
		index:  make(map[string]int, len(series)),
	}
	for i, s := range series {
		if s == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := f.index[s.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", s.Name)
		}
		f.index[s.Name] = i
		if i == 0 {
			f.rows = s.Len()
			continue
		}
		if s.Len() != f.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", s.Name, s.Len(), f.rows)
		}
	}
	return f, nil
}

// Empty returns a frame with no columns and no rows.
func Empty() *Frame {
	f, _ := New()
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.rows
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return len(f.series)
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.series))
	for i, s := range f.series {
		names[i] = s.Name
	}
	return names
}

// Kinds returns the column kinds in order.
func (f *Frame) Kinds() []core.Kind {
	kinds := make([]core.Kind, len(f.series))
	for i, s := range f.series {
		kinds[i] = s.Kind
	}
	return kinds
}

// Schema returns one entry per column, in the same order as Names.
func (f *Frame) Schema() []core.Column {
	cols := make([]core.Column, len(f.series))
	for i, s := range f.series {
		cols[i] = core.Column{Name: s.Name, Type: s.Kind.String()}
	}
	return cols
}

// Series returns the columns in order.
func (f *Frame) Series() []*Series {
	return f.series
}

// Column looks up a column by name.
func (f *Frame) Column(name string) (*Series, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.series[i], true
}

// Select projects the frame onto columns, in the order given.
// An empty list selects every column.
func (f *Frame) Select(columns []string) (*Frame, error) {
	if len(columns) == 0 {
		return f, nil
	}
	out := make([]*Series, 0, len(columns))
	for _, name := range columns {
		s, ok := f.Column(name)
		if !ok {
			return nil, core.Errorf("Projection", core.KindProjection, "column %q not found; available: %v", name, f.Names())
		}
		out = append(out, &Series{Name: s.Name, Kind: s.Kind, Values: append([]any(nil), s.Values...)})
	}
	return New(out...)
}

// Head returns the first n rows. n <= 0 yields a frame with no rows.
func (f *Frame) Head(n int) *Frame {
	n = max(0, min(n, f.rows))
	out := make([]*Series, len(f.series))
	for i, s := range f.series {
		out[i] = &Series{Name: s.Name, Kind: s.Kind, Values: append([]any(nil), s.Values[:n]...)}
	}
	h, _ := New(out...)
	return h
}

// AsCategory marks a string column as categorical.
func (f *Frame) AsCategory(name string) error {
	s, ok := f.Column(name)
	if !ok {
		return core.Errorf("Projection", core.KindProjection, "column %q not found", name)
	}
	if s.Kind != core.KindString && s.Kind != core.KindCategory {
		return fmt.Errorf("column %q is %s, only string columns can be categorical", name, s.Kind)
	}
	s.Kind = core.KindCategory
	return nil
}

// Row returns the values of row i in column order.
func (f *Frame) Row(i int) []any {
	row := make([]any, len(f.series))
	for j, s := range f.series {
		row[j] = s.Values[i]
	}
	return row
}

// Rows returns every row as a slice of values.
func (f *Frame) Rows() [][]any {
	rows := make([][]any, f.rows)
	for i := range rows {
		rows[i] = f.Row(i)
	}
	return rows
}

// Records returns every row as a name → value mapping.
func (f *Frame) Records() []map[string]any {
	recs := make([]map[string]any, f.rows)
	for i := range recs {
		rec := make(map[string]any, len(f.series))
		for _, s := range f.series {
			rec[s.Name] = s.Values[i]
		}
		recs[i] = rec
	}
	return recs
}
