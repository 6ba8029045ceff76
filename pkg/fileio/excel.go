package fileio

import (
	"fmt"
	"io"
	"time"

	"github.com/leapstack-labs/leapxfer/pkg/frame"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// decodeExcel reads the first sheet; its first row is the header. Cell
// values are read as displayed text and inferred like delimited text.
func decodeExcel(r source, _ codecOptions) (*frame.Frame, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = book.Close() }()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return frame.Empty(), nil
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return frame.Empty(), nil
	}
	return frame.FromStrings(frame.UniqueNames(rows[0]), rows[1:])
}

// encodeExcel streams the frame into a single sheet. Timestamps are
// written as RFC 3339 text so they read back unchanged.
func encodeExcel(w io.Writer, f *frame.Frame, _ codecOptions) error {
	book := excelize.NewFile()
	defer func() { _ = book.Close() }()

	sw, err := book.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	header := make([]any, f.Width())
	for i, name := range f.Names() {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i := range f.Len() {
		row := f.Row(i)
		for j, v := range row {
			switch x := v.(type) {
			case nil:
				row[j] = ""
			case time.Time:
				row[j] = frame.FormatValue(x)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return book.Write(w)
}
