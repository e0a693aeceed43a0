// Package workbook decodes uploaded spreadsheets into core tables and
// writes pipeline results back out as a multi-sheet .xlsx file.
package workbook

// load.go turns uploaded bytes into a core.Table.
//
// Supported inputs:
//   - .xlsx via excelize, first sheet, raw cell values (dates arrive as
//     Excel serial numbers and are parsed downstream)
//   - .xls (BIFF) via xlsReader, first sheet
//   - .csv/.txt via encoding/csv, with BOM removal, UTF-16 detection and
//     invalid UTF-8 replaced
//
// Per-dataset header and footer offsets are applied here, never in core.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/extblend/internal/core"
)

var (
	// ErrEmptyFile is returned when a file has no header row after offsets.
	ErrEmptyFile = errors.New("empty file")
	// ErrUnsupportedFormat is returned for extensions we cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrInvalidWorkbook is returned when a workbook fails to open.
	ErrInvalidWorkbook = errors.New("invalid workbook")
)

// Format is a decoded file type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// sniffLines is how many lines sniffDelimiter inspects.
const sniffLines = 5

// File signatures.
var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// LoadOptions control which rows of the first sheet become the table.
type LoadOptions struct {
	// HeaderRow is the zero-based index of the header among non-blank rows.
	// Rows above it are discarded.
	HeaderRow int
	// SkipFooter drops this many trailing data rows.
	SkipFooter int
	// Sheet selects a sheet by name; empty means the first sheet.
	Sheet string
}

// DefaultOptions returns the offsets each export is known to need:
// Codate starts at the first row, IVRV has a title row above its header,
// and AR Invoice/Ship has a title row and a totals footer.
func DefaultOptions(kind core.DatasetKind) LoadOptions {
	switch kind {
	case core.KindIVRV:
		return LoadOptions{HeaderRow: 1}
	case core.KindARInvoice:
		return LoadOptions{HeaderRow: 1, SkipFooter: 1}
	default:
		return LoadOptions{}
	}
}

// DetectFormat identifies a file by its magic bytes, then by extension.
// Anything unrecognized is treated as delimited text.
func DetectFormat(name string, data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX, nil
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS, nil
	}

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm", ".xls":
		// Right extension, wrong bytes.
		return "", fmt.Errorf("%w: %s content does not match its extension", ErrInvalidWorkbook, ext)
	case "", ".csv", ".txt", ".tsv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Load decodes data and applies opts. The table name is set to name.
func Load(name string, data []byte, opts LoadOptions) (*core.Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyFile)
	}

	format, err := DetectFormat(name, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var rows [][]string
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(data, opts.Sheet)
	case FormatXLS:
		rows, err = readXLS(data, opts.Sheet)
	default:
		rows, err = readCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	table, err := buildTable(rows, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	table.Name = name
	return table, nil
}

// LoadReader reads r fully, then calls Load.
func LoadReader(name string, r io.Reader, opts LoadOptions) (*core.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: read: %w", name, err)
	}
	return Load(name, data, opts)
}

// =============================================================================
// Decoders
// =============================================================================

func readXLSX(data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyFile
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrInvalidWorkbook, sheet, err)
	}
	return rows, nil
}

func readXLS(data []byte, sheet string) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if len(wb.GetSheets()) == 0 {
		return nil, ErrEmptyFile
	}

	idx := 0
	if sheet != "" {
		idx = -1
		for i, s := range wb.GetSheets() {
			if s.GetName() == sheet {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: sheet %q not found", ErrInvalidWorkbook, sheet)
		}
	}

	ws, err := wb.GetSheet(idx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}

	var rows [][]string
	for _, row := range ws.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// textDecoder strips a UTF-8 BOM, decodes UTF-16 when a UTF-16 BOM is
// present, and replaces ill-formed UTF-8 with U+FFFD.
func textDecoder() transform.Transformer {
	return transform.Chain(unicode.BOMOverride(transform.Nop), runes.ReplaceIllFormed())
}

func readCSV(data []byte) ([][]string, error) {
	decoded, _, err := transform.Bytes(textDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = sniffDelimiter(decoded)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	return rows, nil
}

// sniffDelimiter picks the most frequent of comma, semicolon and tab in the
// first few lines. Commas win ties.
func sniffDelimiter(data []byte) rune {
	head := data
	for i, n := 0, 0; i < len(data); i++ {
		if data[i] == '\n' {
			if n++; n == sniffLines {
				head = data[:i]
				break
			}
		}
	}

	best, bestCount := ',', bytes.Count(head, []byte{','})
	for _, d := range []byte{';', '\t'} {
		if n := bytes.Count(head, []byte{d}); n > bestCount {
			best, bestCount = rune(d), n
		}
	}
	return best
}

// =============================================================================
// Offsets
// =============================================================================

// buildTable drops blank rows, applies the header and footer offsets, and
// names the columns.
func buildTable(raw [][]string, opts LoadOptions) (*core.Table, error) {
	if opts.HeaderRow < 0 || opts.SkipFooter < 0 {
		return nil, fmt.Errorf("invalid offsets: header row %d, skip footer %d", opts.HeaderRow, opts.SkipFooter)
	}

	rows := make([][]string, 0, len(raw))
	for _, row := range raw {
		if !isBlank(row) {
			rows = append(rows, trimCells(row))
		}
	}

	if len(rows) <= opts.HeaderRow {
		return nil, ErrEmptyFile
	}

	header := rows[opts.HeaderRow]
	data := rows[opts.HeaderRow+1:]
	if opts.SkipFooter >= len(data) {
		data = nil
	} else {
		data = data[:len(data)-opts.SkipFooter]
	}

	width := len(header)
	for _, row := range data {
		if n := lastNonBlank(row) + 1; n > width {
			width = n
		}
	}

	cols := columnNames(header, width)
	for i, row := range data {
		data[i] = fitRow(row, width)
	}

	return &core.Table{Columns: cols, Rows: data}, nil
}

// columnNames fills blank headers with "Unnamed: N" and suffixes repeats
// with ".1", ".2" so every column is addressable.
func columnNames(header []string, width int) []string {
	cols := make([]string, width)
	seen := make(map[string]int, width)
	for i := range cols {
		name := ""
		if i < len(header) {
			name = header[i]
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		cols[i] = name
	}
	return cols
}

func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isBlank(row []string) bool {
	return lastNonBlank(row) < 0
}

func lastNonBlank(row []string) int {
	for i := len(row) - 1; i >= 0; i-- {
		if strings.TrimSpace(row[i]) != "" {
			return i
		}
	}
	return -1
}
