package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/extblend/internal/core"
)

// ContentType is the MIME type of the exported workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxSheetName is Excel's limit on sheet name length.
const maxSheetName = 31

// Built-in number format 14 renders as the locale's short date.
const numFmtShortDate = 14

var errNoSheets = errors.New("no sheets to export")

// Export writes sheets, in order, as one .xlsx workbook.
// The header row is bold; time.Time values get a date format.
func Export(w io.Writer, sheets []core.Sheet) error {
	if len(sheets) == 0 {
		return errNoSheets
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtShortDate})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}

	seen := make(map[string]bool, len(sheets))
	for i, s := range sheets {
		if s.Name == "" || utf8.RuneCountInString(s.Name) > maxSheetName {
			return fmt.Errorf("sheet %d: invalid name %q", i, s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate sheet name %q", s.Name)
		}
		seen[s.Name] = true

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("sheet %q: %w", s.Name, err)
		}

		if err := writeSheet(f, s, headerStyle, dateStyle); err != nil {
			return fmt.Errorf("sheet %q: %w", s.Name, err)
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportBytes is Export into memory.
func ExportBytes(sheets []core.Sheet) ([]byte, error) {
	var buf bytes.Buffer
	if err := Export(&buf, sheets); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, s core.Sheet, headerStyle, dateStyle int) error {
	sw, err := f.NewStreamWriter(s.Name)
	if err != nil {
		return err
	}

	if n := len(s.Columns); n > 0 {
		if err := sw.SetColWidth(1, n, 18); err != nil {
			return err
		}
	}

	header := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: c}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r, row := range s.Rows {
		values := make([]any, len(row))
		for c, v := range row {
			if t, ok := v.(time.Time); ok {
				values[c] = excelize.Cell{StyleID: dateStyle, Value: t}
				continue
			}
			values[c] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}

	return sw.Flush()
}
