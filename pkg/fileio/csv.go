package fileio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/leapstack-labs/leapxfer/pkg/frame"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeDelimited reads a header row and data rows. Short rows are padded
// with nulls; rows longer than the header are rejected. A leading BOM is
// stripped (UTF-16 input is transcoded).
func decodeDelimited(r source, opts codecOptions) (*frame.Frame, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.Comma = opts.delimiter
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return frame.Empty(), nil
	}
	if err != nil {
		return nil, err
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", i+2, len(header), len(rec))
		}
	}
	return frame.FromStrings(frame.UniqueNames(header), records)
}

func encodeDelimited(w io.Writer, f *frame.Frame, opts codecOptions) error {
	cw := csv.NewWriter(w)
	cw.Comma = opts.delimiter

	if err := cw.Write(f.Names()); err != nil {
		return err
	}
	record := make([]string, f.Width())
	for i := range f.Len() {
		for j, v := range f.Row(i) {
			record[j] = frame.FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
