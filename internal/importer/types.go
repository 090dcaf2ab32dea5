// Package importer implements the bulk-import pipeline: parsing uploaded
// spreadsheets, validating rows per category, resolving human-entered
// references against backend collections, assembling create payloads, and
// driving the row-by-row submission loop.
package importer

import "strings"

// Category identifies one of the supported import categories.
type Category string

const (
	CategoryCompanies  Category = "companies"
	CategoryPorts      Category = "ports"
	CategoryContainers Category = "containers"
)

// Row is one data line of an uploaded file, keyed by canonical header name.
// Number is the row's 1-based record position; with the header as record 1
// the first data row is 2, matching what users see in a spreadsheet. It is
// preserved through the pipeline for error messages.
type Row struct {
	Number int
	Values map[string]string
}

// Get returns the trimmed cell value for a canonical header, or "" when the
// column is absent.
func (r Row) Get(header string) string {
	return strings.TrimSpace(r.Values[header])
}

// Has reports whether the row carries a non-empty value for the header.
func (r Row) Has(header string) bool {
	return r.Get(header) != ""
}

// RunStatus is the overall verdict of an import run.
type RunStatus string

const (
	StatusSuccess RunStatus = "success" // every row imported, no warnings
	StatusPartial RunStatus = "partial" // some rows imported, some messages
	StatusFailed  RunStatus = "failed"  // nothing imported
)

// Outcome accumulates the result of one import run. It is owned and mutated
// exclusively by the run loop; rows never touch it directly.
type Outcome struct {
	Category Category `json:"category"`
	Success  int      `json:"success"`
	Failed   int      `json:"failed"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// Status maps the accumulated counts onto the user-facing run status. A run
// with messages but at least one imported row is a partial success; warnings
// from fallback resolution land here too.
func (o Outcome) Status() RunStatus {
	switch {
	case len(o.Errors) == 0 && o.Failed == 0:
		return StatusSuccess
	case o.Success > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}

// Defaults carries the configured fallback identifiers used when an owned
// container's port or depot cannot be resolved.
type Defaults struct {
	PortID  int
	DepotID int
}
