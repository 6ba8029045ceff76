package fileio

import (
	"errors"

	"github.com/extrame/xls"
	"github.com/leapstack-labs/leapxfer/pkg/frame"
)

// decodeXLS reads the first sheet of a legacy BIFF workbook. Like
// decodeExcel, the first row is the header and cells are inferred from
// their text. Missing rows read as all-null.
func decodeXLS(r source, _ codecOptions) (*frame.Frame, error) {
	book, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, err
	}
	if book == nil || book.NumSheets() == 0 {
		return frame.Empty(), nil
	}
	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("first sheet is unreadable")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return frame.Empty(), nil
	}
	return frame.FromStrings(frame.UniqueNames(rows[0]), rows[1:])
}
