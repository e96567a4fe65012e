package dcerr

import (
	"encoding/json"
	"fmt"
)

// Code is a stable error-code string surfaced to callers of the command protocol.
// Additions to this set are a versioned extension; existing codes never change meaning.
type Code string

const (
	CodeParseError              Code = "PARSE_ERROR"
	CodeMissingField             Code = "MISSING_FIELD"
	CodeInvalidId                Code = "INVALID_ID"
	CodeDuplicateId              Code = "DUPLICATE_ID"
	CodeInvalidRef               Code = "INVALID_REF"
	CodeFormatMismatch           Code = "FORMAT_MISMATCH"
	CodePipelineUnknown          Code = "PIPELINE_UNKNOWN"
	CodeFrameState               Code = "FRAME_STATE"
	CodeIngestTruncated          Code = "INGEST_TRUNCATED"
	CodeValidationMissingGeometry Code = "VALIDATION_MISSING_GEOMETRY"
)

// Error is the single fallible-operation error type used across the core. Every
// fallible operation returns one of these (or nil) rather than panicking, except
// for conditions that indicate a caller bug.
type Error struct {
	Code    Code
	Message string
	Details json.RawMessage
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New constructs an *Error. details, if provided, is marshaled to JSON and attached
// as a diagnostic fragment; marshal failures are swallowed since details are best-effort.
func New(code Code, message string, details ...any) *Error {
	e := &Error{Code: code, Message: message}
	if len(details) > 0 {
		if b, err := json.Marshal(details[0]); err == nil {
			e.Details = b
		}
	}
	return e
}
