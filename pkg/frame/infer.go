package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapxfer/pkg/core"
)

// TimestampLayouts are the layouts recognised when inferring timestamp columns from text.
var TimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// Normalize converts a driver or decoder value into its canonical Go type
// and reports its kind. nil yields (nil, KindUnknown).
func Normalize(v any) (any, core.Kind) {
	switch x := v.(type) {
	case nil:
		return nil, core.KindUnknown
	case int64:
		return x, core.KindInt
	case int:
		return int64(x), core.KindInt
	case int8:
		return int64(x), core.KindInt
	case int16:
		return int64(x), core.KindInt
	case int32:
		return int64(x), core.KindInt
	case uint8:
		return int64(x), core.KindInt
	case uint16:
		return int64(x), core.KindInt
	case uint32:
		return int64(x), core.KindInt
	case uint:
		if uint64(x) > math.MaxInt64 {
			return strconv.FormatUint(uint64(x), 10), core.KindString
		}
		return int64(x), core.KindInt
	case uint64:
		if x > math.MaxInt64 {
			return strconv.FormatUint(x, 10), core.KindString
		}
		return int64(x), core.KindInt
	case float64:
		return x, core.KindFloat
	case float32:
		return float64(x), core.KindFloat
	case bool:
		return x, core.KindBool
	case string:
		return x, core.KindString
	case []byte:
		return string(x), core.KindString
	case time.Time:
		return x, core.KindTimestamp
	case *time.Time:
		if x == nil {
			return nil, core.KindUnknown
		}
		return *x, core.KindTimestamp
	case fmt.Stringer:
		return x.String(), core.KindString
	default:
		return fmt.Sprint(x), core.KindString
	}
}

// FromRows builds a frame from row-major values, normalising each value
// and resolving one kind per column.
func FromRows(names []string, rows [][]any) (*Frame, error) {
	cols := make([][]any, len(names))
	for j := range cols {
		cols[j] = make([]any, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(names))
		}
		for j, v := range row {
			cols[j][i] = v
		}
	}
	series := make([]*Series, len(names))
	for j, name := range names {
		series[j] = FromValues(name, cols[j])
	}
	return New(series...)
}

// FromValues builds a Series from arbitrary Go values.
// Integers mixed with floats widen to float; any other mix falls back to string.
// A column with no non-null value is a string column.
func FromValues(name string, values []any) *Series {
	out := make([]any, len(values))
	kinds := make(map[core.Kind]bool)
	for i, v := range values {
		nv, k := Normalize(v)
		out[i] = nv
		if nv != nil {
			kinds[k] = true
		}
	}

	kind := core.KindString
	switch {
	case len(kinds) == 1:
		for k := range kinds {
			kind = k
		}
	case len(kinds) == 2 && kinds[core.KindInt] && kinds[core.KindFloat]:
		kind = core.KindFloat
		for i, v := range out {
			if n, ok := v.(int64); ok {
				out[i] = float64(n)
			}
		}
	case len(kinds) > 1:
		for i, v := range out {
			if v != nil {
				out[i] = FormatValue(v)
			}
		}
	}
	return &Series{Name: name, Kind: kind, Values: out}
}

// FromStrings builds a frame from text records (e.g. delimited files),
// inferring a kind per column. Empty cells are null.
func FromStrings(names []string, records [][]string) (*Frame, error) {
	series := make([]*Series, len(names))
	cells := make([]string, len(records))
	for j, name := range names {
		for i, rec := range records {
			if j < len(rec) {
				cells[i] = rec[j]
			} else {
				cells[i] = ""
			}
		}
		series[j] = InferStrings(name, cells)
	}
	return New(series...)
}

// InferStrings picks the narrowest kind that parses every non-empty cell:
// int64, then float64, then bool, then timestamp, else string.
func InferStrings(name string, cells []string) *Series {
	for _, p := range parsers {
		if values, ok := parseAll(cells, p.parse); ok {
			return &Series{Name: name, Kind: p.kind, Values: values}
		}
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		if strings.TrimSpace(c) != "" {
			values[i] = c
		}
	}
	return &Series{Name: name, Kind: core.KindString, Values: values}
}

type cellParser struct {
	kind  core.Kind
	parse func(string) (any, bool)
}

var parsers = []cellParser{
	{core.KindInt, func(s string) (any, bool) {
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}},
	{core.KindFloat, func(s string) (any, bool) {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}},
	{core.KindBool, func(s string) (any, bool) {
		switch strings.ToLower(s) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
		return nil, false
	}},
	{core.KindTimestamp, func(s string) (any, bool) {
		t, ok := ParseTimestamp(s)
		return t, ok
	}},
}

// parseAll applies parse to every non-empty cell. It fails when any cell
// does not parse or when every cell is empty.
func parseAll(cells []string, parse func(string) (any, bool)) ([]any, bool) {
	values := make([]any, len(cells))
	seen := false
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		v, ok := parse(c)
		if !ok {
			return nil, false
		}
		values[i] = v
		seen = true
	}
	return values, seen
}

// ParseTimestamp tries every layout in TimestampLayouts.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range TimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatValue renders a canonical value as text. Floats always carry a
// decimal point or exponent so they read back as floats.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

// UniqueNames suffixes repeated names with ".1", ".2", ... so every
// column of a frame is addressable. Joins and spreadsheet headers produce
// repeats.
func UniqueNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]int, len(names))
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}
	for i, n := range names {
		c := seen[n]
		seen[n] = c + 1
		if c == 0 {
			out[i] = n
			continue
		}
		name := fmt.Sprintf("%s.%d", n, c)
		for taken[name] {
			c++
			name = fmt.Sprintf("%s.%d", n, c)
		}
		seen[n] = c + 1
		taken[name] = true
		out[i] = name
	}
	return out
}
