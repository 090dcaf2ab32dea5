package importer

import (
	"encoding/csv"
	"errors"
	"strings"

	"github.com/harbourops/importer/internal/csvio"
)

// ParseRows decodes an uploaded file into the category's row sequence.
//
// The first non-empty line is the header; its columns are matched
// case-insensitively against the category's canonical headers so that rows
// can be read by canonical name regardless of the spreadsheet's casing.
// Fully empty rows are dropped. Row numbers are the 1-based record
// positions, so with the header as record 1 the first data row is 2.
//
// Failure modes, in the order they are detected:
//   - *ParseError for tokenizer failures (line-numbered when the CSV reader
//     reports one) and unreadable workbooks;
//   - csvio.ErrUnsupportedFormat for unknown extensions;
//   - *MissingHeaderError when required columns are absent;
//   - ErrEmptyImport when no data rows remain.
func ParseRows(def CategoryDefinition, fileName string, data []byte) ([]Row, error) {
	records, err := csvio.Decode(fileName, data)
	if err != nil {
		if errors.Is(err, csvio.ErrUnsupportedFormat) {
			return nil, err
		}
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return nil, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
		}
		return nil, &ParseError{Err: err}
	}

	canonical := make(map[string]string, len(def.Headers))
	for _, h := range def.Headers {
		canonical[strings.ToLower(h)] = h
	}

	var (
		headers    []string
		headerSeen bool
		rows       []Row
	)

	for i, record := range records {
		if csvio.IsEmptyRow(record) {
			continue
		}

		if !headerSeen {
			headers = make([]string, len(record))
			for col, raw := range record {
				name := csvio.CleanHeader(raw)
				if canon, ok := canonical[strings.ToLower(name)]; ok {
					name = canon
				}
				headers[col] = name
			}
			headerSeen = true
			continue
		}

		values := make(map[string]string, len(headers))
		for col, name := range headers {
			if name == "" || col >= len(record) {
				continue
			}
			values[name] = csvio.CleanCell(record[col])
		}
		rows = append(rows, Row{Number: i + 1, Values: values})
	}

	if !headerSeen {
		return nil, ErrEmptyImport
	}

	if missing := missingHeaders(headers, def.Required); len(missing) > 0 {
		return nil, &MissingHeaderError{Missing: missing}
	}

	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}
	return rows, nil
}

func missingHeaders(headers, required []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, h := range required {
		if !present[h] {
			missing = append(missing, h)
		}
	}
	return missing
}
