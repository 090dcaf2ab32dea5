// Package csvio decodes uploaded tabular files into raw string records.
//
// CSV decoding keeps the stdlib tokenizer's line numbers intact so parse
// failures can be reported against the offending line. XLSX workbooks are
// read through excelize, first sheet only, and normalized to the same
// [][]string shape as CSV.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for file extensions other than .csv and
// .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Decode reads the raw records of an uploaded file, dispatching on the file
// extension.
func Decode(fileName string, data []byte) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".csv":
		return DecodeCSV(data)
	case ".xlsx":
		return DecodeXLSX(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// DecodeCSV reads comma-separated records. A leading UTF-8 byte order mark
// is stripped. Rows may have ragged lengths; callers pad against the header.
// Tokenizer failures come back as *csv.ParseError with the 1-based line
// number set.
func DecodeCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, byteOrderMark)

	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	return r.ReadAll()
}

// DecodeXLSX reads the first sheet of an Excel workbook.
func DecodeXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return rows, nil
}

// Encode renders records back to CSV bytes, used for template downloads and
// failed-row reports.
func Encode(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CleanHeader normalizes a raw header cell: trims whitespace and the
// artifacts spreadsheet tools leave behind (formula prefixes, stray quotes,
// non-breaking spaces).
func CleanHeader(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "=")
	s = strings.Trim(s, `"`)
	return strings.TrimSpace(s)
}

// CleanCell normalizes a data cell: trims whitespace and non-breaking
// spaces. Values are otherwise preserved verbatim.
func CleanCell(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(s)
}

// IsEmptyRow reports whether every cell in the row is blank after trimming.
func IsEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
