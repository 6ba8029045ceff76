package fileio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/leapstack-labs/leapxfer/pkg/frame"
)

// records accumulates objects whose keys may vary. Columns appear in
// first-seen key order; absent keys are null.
type records struct {
	names []string
	index map[string]int
	rows  [][]any
}

func newRecords() *records {
	return &records{index: make(map[string]int)}
}

func (rs *records) add(keys []string, values []any) {
	row := make([]any, len(rs.names), len(rs.names)+len(keys))
	for i, k := range keys {
		j, ok := rs.index[k]
		if !ok {
			j = len(rs.names)
			rs.index[k] = j
			rs.names = append(rs.names, k)
			row = append(row, nil)
		}
		row[j] = values[i]
	}
	rs.rows = append(rs.rows, row)
}

func (rs *records) frame() (*frame.Frame, error) {
	for i, row := range rs.rows {
		if len(row) < len(rs.names) {
			rs.rows[i] = append(row, make([]any, len(rs.names)-len(row))...)
		}
	}
	return frame.FromRows(rs.names, rs.rows)
}

// decodeJSON reads a top-level array of objects.
func decodeJSON(r source, _ codecOptions) (*frame.Frame, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return frame.Empty(), nil
	}
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("expected an array of records, found %v", tok)
	}

	rs := newRecords()
	for dec.More() {
		keys, values, err := decodeObject(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(rs.rows)+1, err)
		}
		rs.add(keys, values)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rs.frame()
}

// decodeJSONLines reads one object per line. Blank lines are skipped.
func decodeJSONLines(r source, _ codecOptions) (*frame.Frame, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	rs := newRecords()
	for {
		keys, values, err := decodeObject(dec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", len(rs.rows)+1, err)
		}
		rs.add(keys, values)
	}
	return rs.frame()
}

func decodeObject(dec *json.Decoder) ([]string, []any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected an object, found %v", tok)
	}

	var keys []string
	var values []any
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected a key, found %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("key %q: %w", key, err)
		}
		v, err = jsonValue(v)
		if err != nil {
			return nil, nil, fmt.Errorf("key %q: %w", key, err)
		}
		keys = append(keys, key)
		values = append(values, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

// jsonValue narrows numbers to int64 where exact and keeps nested
// structures as their JSON text.
func jsonValue(v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		if n, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return n, nil
		}
		return x.Float64()
	case string:
		if t, ok := frame.ParseTimestamp(x); ok {
			return t, nil
		}
		return x, nil
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	default:
		return x, nil
	}
}

func encodeJSON(w io.Writer, f *frame.Frame, _ codecOptions) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("["); err != nil {
		return err
	}
	for i := range f.Len() {
		sep := "\n"
		if i > 0 {
			sep = ",\n"
		}
		if _, err := bw.WriteString(sep); err != nil {
			return err
		}
		if err := writeObject(bw, f.Names(), f.Row(i)); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\n]\n"); err != nil {
		return err
	}
	return bw.Flush()
}

func encodeJSONLines(w io.Writer, f *frame.Frame, _ codecOptions) error {
	bw := bufio.NewWriter(w)
	for i := range f.Len() {
		if err := writeObject(bw, f.Names(), f.Row(i)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// jsonScalar keeps a decimal point on floats so they read back as floats.
// NaN and infinities have no JSON form and become null.
func jsonScalar(v any) ([]byte, error) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return []byte("null"), nil
		}
		return []byte(frame.FormatValue(x)), nil
	case time.Time:
		return json.Marshal(x.Format(time.RFC3339Nano))
	default:
		return json.Marshal(x)
	}
}

// writeObject writes one record with keys in column order.
func writeObject(w *bufio.Writer, names []string, row []any) error {
	_ = w.WriteByte('{')
	for j, name := range names {
		if j > 0 {
			_ = w.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return err
		}
		b, err := jsonScalar(row[j])
		if err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
		_, _ = w.Write(k)
		_ = w.WriteByte(':')
		_, _ = w.Write(b)
	}
	return w.WriteByte('}')
}
