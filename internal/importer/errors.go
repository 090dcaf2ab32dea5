package importer

// errors.go defines the pipeline error taxonomy and the mapping from
// technical errors to user-facing messages.
//
// Two error tiers exist:
//
//   - Pipeline-level errors abort the whole run before or during setup:
//     *ParseError, ErrEmptyImport, *MissingHeaderError, *GeneralError.
//   - Row-level errors are recovered locally: the row is recorded as failed
//     (or skipped) and the loop continues. These surface as strings in
//     Outcome.Errors, keyed by row number.
//
// Error codes (quoted by users to support staff):
//
//	FILE001 - malformed CSV           FILE002 - empty file
//	FILE003 - missing headers         FILE004 - unsupported format
//	REF001  - reference fetch failed
//	API001  - backend rejected a request
//	ERR000  - fallback for unexpected errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyImport is returned when a file parses cleanly but contains no data
// rows. Distinct from a parse failure so the user message can say so.
var ErrEmptyImport = errors.New("the file contains no data rows")

// ParseError reports a malformed upload. Line is the 1-based line number
// from the CSV tokenizer when known, 0 otherwise.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingHeaderError reports required headers absent from the upload. The
// run aborts before any row is processed.
type MissingHeaderError struct {
	Missing []string
}

func (e *MissingHeaderError) Error() string {
	return "missing required headers: " + strings.Join(e.Missing, ", ")
}

// NotFoundError reports a failed reference lookup. Whether it voids the row
// or degrades to a fallback is the caller's decision, not this type's.
type NotFoundError struct {
	Kind  string // "country", "port", "depot", "leasor", "parent port"
	Token string // the value as entered in the file
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.Token)
}

// GeneralError reports a failure that prevents the run from proceeding at
// all, such as a reference collection fetch failing.
type GeneralError struct {
	Op  string
	Err error
}

func (e *GeneralError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GeneralError) Unwrap() error { return e.Err }

// UserMessage provides user-friendly error information with actionable
// guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive substring) to
// user messages. First match wins, so specific patterns come before general
// ones.
var errorPatterns = []errorPattern{
	{
		pattern: "missing required headers",
		msg: UserMessage{
			Message: "The file is missing required columns",
			Action:  "Download the template and make sure every required column is present",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The file contains no data rows",
			Action:  "Fill in the template before uploading",
			Code:    "FILE002",
		},
	},
	{
		pattern: "parse error",
		msg: UserMessage{
			Message: "The file could not be parsed",
			Action:  "Check for unbalanced quotes or inconsistent columns at the reported line",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "Only .csv and .xlsx files are supported",
			Action:  "Save the file as CSV or Excel and upload again",
			Code:    "FILE004",
		},
	},
	{
		pattern: "fetch reference data",
		msg: UserMessage{
			Message: "Reference data could not be loaded from the backend",
			Action:  "Check the backend connection and try again",
			Code:    "REF001",
		},
	},
	{
		pattern: "backend request failed",
		msg: UserMessage{
			Message: "The backend rejected the request",
			Action:  "Review the per-row messages and correct the data",
			Code:    "API001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. If no
// pattern matches, a generic fallback with code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}
