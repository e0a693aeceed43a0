package core

// convert.go provides type conversion functions for spreadsheet cells.
//
// These functions handle the messy reality of exported spreadsheet data:
//   - Multiple date formats (US, EU, ISO, with or without a time part)
//   - Dates stored as Excel serial numbers
//   - Currency symbols and thousand separators in numbers
//   - Accounting negatives "(123.45)"
//   - Excel formula prefixes (="value")
//
// All Parse* functions report ok=false for empty or invalid input so callers
// can apply coerce-then-drop semantics.

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years after the reference date
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// maxExcelSerial is 9999-12-31, the last date Excel can represent.
const maxExcelSerial = 2958465

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06", "2-Jan-06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"2006-01-02 15:04:05", "2006-01-02T15:04:05", time.RFC3339,
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"1/2/2006 15:04", "1/2/2006 15:04:05",
		"Jan 2, 2006", "2 Jan 2006", "02-Jan-2006",
		"20060102",
	}
)

// ParseDate converts a cell to a date. Two-digit years are resolved
// against ref, normally Rules.Today.
// Layouts are tried before Excel serial numbers so "20240101" reads as a
// calendar date and "45292" as a serial.
func ParseDate(s string, ref time.Time) (time.Time, bool) {
	s = CleanCell(s)
	if s == "" {
		return time.Time{}, false
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	pivotYear := ref.Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return parseExcelSerial(s)
}

// parseExcelSerial converts a raw workbook date value such as "45292" or "45292.5".
func parseExcelSerial(s string) (time.Time, bool) {
	if !numericRegex.MatchString(s) {
		return time.Time{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || f > maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// ParseDecimal converts a cell to a decimal.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = CleanCell(s)
	if s == "" {
		return decimal.Zero, false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and thousands separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseOrderClass converts an LS cell to an integer.
// Workbooks often store integers as "2" or "2.0"; fractional values are rejected.
func ParseOrderClass(s string) (int, bool) {
	d, ok := ParseDecimal(s)
	if !ok || !d.IsInteger() {
		return 0, false
	}
	return int(d.IntPart()), true
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are cleaned but keep their case; the first duplicate wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := CleanCell(h)
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// getCell returns the cleaned cell for a column, or "" if absent.
func getCell(row []string, idx HeaderIndex, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(row) {
		return ""
	}
	return CleanCell(row[pos])
}
