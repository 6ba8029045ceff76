package output

import (
	"bytes"
	"fmt"
	"math"

	json "github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapxfer/pkg/frame"
)

// Table is an ordered tabular payload. It marshals to a JSON array of
// objects whose keys keep column order.
type Table struct {
	Columns []string
	Rows    [][]any
}

// FrameTable converts a frame.
func FrameTable(f *frame.Frame) Table {
	if f == nil {
		return Table{}
	}
	return Table{Columns: f.Names(), Rows: f.Rows()}
}

// MarshalJSON implements json.Marshaler.
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range t.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			var v any
			if j < len(row) {
				v = jsonCell(row[j])
			}
			val, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func jsonCell(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}

// Table renders t in the effective mode. JSON mode writes the bare array;
// commands that return envelopes marshal the envelope themselves.
func (r *Renderer) Table(t Table) error {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		return r.JSON(t)
	}

	w := table.NewWriter()
	w.SetOutputMirror(r.out)
	w.SetStyle(table.StyleLight)

	header := make(table.Row, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	w.AppendHeader(header)

	null := "NULL"
	if mode == ModeCSV {
		null = ""
	}
	for _, row := range t.Rows {
		out := make(table.Row, len(t.Columns))
		for i := range t.Columns {
			if i < len(row) {
				out[i] = cell(row[i], null)
			}
		}
		w.AppendRow(out)
	}

	switch mode {
	case ModeCSV:
		w.RenderCSV()
		return nil
	case ModeMarkdown:
		w.RenderMarkdown()
		return nil
	}
	if len(t.Rows) == 0 {
		r.Println("(0 rows)")
		return nil
	}
	w.Render()
	r.Printf("(%d rows)\n", len(t.Rows))
	return nil
}

func cell(v any, null string) string {
	if v == nil {
		return null
	}
	return frame.FormatValue(v)
}
