// Package errors defines the typed failures a landed-cost calculation can
// report. Every failure carries a Type so the CLI can print it and the HTTP
// API can map it to a status code: a bad order item is an input error, a
// broken rates file is a config error, and an order too large for its
// container is a capacity error.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type classifies a failure.
type Type string

const (
	// TypeInput is an invalid order item or calculation parameter, such as
	// a zero quantity, a negative unit cost or a utilization target outside
	// (0, 1].
	TypeInput Type = "INPUT_ERROR"

	// TypeParsing is an order document, request body or rates file that
	// could not be decoded.
	TypeParsing Type = "PARSING_ERROR"

	// TypeConfig is a rates table or app config that decoded but is not
	// usable: a missing section, a negative rate, a duplicated key.
	TypeConfig Type = "CONFIG_ERROR"

	// TypeCapacity is an order whose volume at the utilization target does
	// not fit the chosen container.
	TypeCapacity Type = "CAPACITY_EXCEEDED"

	// TypeInternal is a failure writing a result, e.g. an export sheet.
	TypeInternal Type = "INTERNAL_ERROR"

	// TypeNotFound is an unknown container id or a missing order file.
	TypeNotFound Type = "NOT_FOUND"
)

// Error is a typed failure. Context holds the figures a caller needs to act
// on it (container id, required volume) and is echoed in API error bodies.
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether e has type t. It does not look at the cause; use IsType
// for that.
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext attaches a key to the error and returns it for chaining.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func New(errType Type, message string) *Error {
	return &Error{Type: errType, Message: message}
}

func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap types a lower-level failure, e.g. a yaml or hcl decode error.
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType reports whether the first *Error in err's chain has type t.
func IsType(err error, t Type) bool {
	if e, ok := As(err); ok {
		return e.Type == t
	}
	return false
}

// Input rejects an order item or calculation parameter.
func Input(message string) *Error {
	return New(TypeInput, message)
}

func Inputf(format string, args ...interface{}) *Error {
	return Newf(TypeInput, format, args...)
}

// Parsing reports a document that could not be decoded.
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Config reports an unusable rates table or app config.
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// Capacity reports an order that needs more room than the container
// allows. need and max are cubic feet, already formatted for display.
func Capacity(containerID, need, max string) *Error {
	return Newf(TypeCapacity, "exceeds container: need %s cu ft, max %s cu ft", need, max).
		WithContext("container_id", containerID)
}

// NotFound reports a missing container, order file or similar, e.g.
// `container "53ft" not found`.
func NotFound(kind, id string) *Error {
	return Newf(TypeNotFound, "%s %q not found", kind, id)
}

func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
