package data

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes the failures the engine reports to callers.
type ErrorCode string

const (
	// ErrCodeMissingParameter indicates a required field was absent.
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"

	// ErrCodeInvalidQuery indicates a field was present but unparsable.
	// The message is fixed per category (date, limit, channel list) so
	// clients can branch on it.
	ErrCodeInvalidQuery ErrorCode = "INVALID_QUERY"

	// ErrCodeValidation indicates an invariant violation at write time,
	// like a missing referenced entity or a backwards interval.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeNotFound indicates the query target does not exist. Zero
	// results for an existing target is an empty success, not this.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeStorage indicates a store failure outside the expected
	// idempotent path.
	ErrCodeStorage ErrorCode = "STORAGE"
)

// Fixed invalid-query messages, one per malformed-field category.
const (
	MsgMalformedDate        = "malformed date"
	MsgMalformedLimit       = "malformed limit"
	MsgMalformedChannelList = "malformed channel list"
)

// Error is the structured failure the engine hands to its caller. It never
// carries a stack trace or driver internals; those stay wrapped in cause.
type Error struct {
	Code    ErrorCode
	Message string

	// Field names the offending request field, when there is one.
	Field string

	cause error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// MissingParameter reports a required field absent from a request.
func MissingParameter(field string) *Error {
	return &Error{
		Code:    ErrCodeMissingParameter,
		Message: fmt.Sprintf("%s field is required", field),
		Field:   field,
	}
}

// MalformedDate reports a timestamp that does not match the wire layout.
func MalformedDate() *Error {
	return &Error{Code: ErrCodeInvalidQuery, Message: MsgMalformedDate}
}

// MalformedLimit reports a limit that is not a non-negative integer.
func MalformedLimit() *Error {
	return &Error{Code: ErrCodeInvalidQuery, Message: MsgMalformedLimit}
}

// MalformedChannelList reports a channel set that is not a non-empty JSON
// array of strings.
func MalformedChannelList() *Error {
	return &Error{Code: ErrCodeInvalidQuery, Message: MsgMalformedChannelList}
}

// Validation reports an invariant violation detected at write time.
func Validation(message string) *Error {
	return &Error{Code: ErrCodeValidation, Message: message}
}

// NotFound reports a query target that does not exist.
func NotFound(message string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: message}
}

// Storage wraps an unexpected store failure.
func Storage(err error) *Error {
	return &Error{Code: ErrCodeStorage, Message: "storage failure", cause: err}
}

// HasCode reports whether err is (or wraps) an Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
