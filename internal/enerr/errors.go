// Package enerr provides standardized error handling for enumig.
// All errors have stable, machine-readable codes, structured context, and proper wrapping.
package enerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code represents a stable, machine-readable error code.
// Format: E{category}{number} where category is 1-6 and number is 001-999.
type Code string

// Error codes organized by category.
const (
	// State errors (E1xxx) - problems with the recorded enum state
	ErrStateInvalid  Code = "E1001" // Enum state file is malformed or invalid
	ErrStateNotFound Code = "E1002" // Referenced enum does not exist in state
	ErrStateConflict Code = "E1003" // Enum with the same name already exists

	// Alteration errors (E2xxx) - problems with a requested alteration
	ErrAlterInvalid         Code = "E2001" // Alteration request is malformed
	ErrIntegrity            Code = "E2002" // Protected column still references a removed value
	ErrUnsupportedReversal  Code = "E2003" // Value-removing alteration cannot be reversed
	ErrCapability           Code = "E2004" // Dialect lacks a capability the operation assumes
	ErrTransitionalState    Code = "E2005" // Mid-sequence failure left scratch types behind
	ErrPolicyInvalid        Code = "E2006" // Removal policy is malformed or inapplicable
	ErrDriftDetected        Code = "E2007" // Recorded enum state diverges from the live database
	ErrUnsupportedOperation Code = "E2008" // Operation is not supported for the dialect

	// SQL errors (E3xxx) - problems with database operations
	ErrSQLExecution   Code = "E3001" // SQL statement failed to execute
	ErrSQLConnection  Code = "E3002" // Database connection failed
	ErrSQLTransaction Code = "E3003" // Transaction operation failed

	// Config errors (E4xxx) - problems with user configuration
	ErrConfigInvalid Code = "E4001" // Configuration file is malformed or incomplete
)

// Error is the standard error type for enumig.
// It provides structured error information with codes, context, and wrapping support.
type Error struct {
	code    Code           // Machine-readable error code
	message string         // Human-readable error message
	context map[string]any // Structured context data
	cause   error          // Wrapped underlying error
}

// Error returns the formatted error string.
// Format:
//
//	[E2002] protected column references removed value
//	  column: status
//	  table: orders
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.code, e.message))

	// Write context in sorted order for deterministic output
	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			b.WriteString(fmt.Sprintf("\n  %s: %v", k, e.context[k]))
		}
	}

	if e.cause != nil {
		b.WriteString(fmt.Sprintf("\n  cause: %v", e.cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause error for errors.Unwrap compatibility.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether the target error matches this error.
// Two *Error values match when their codes are equal.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.code == targetErr.code
	}

	return false
}

// GetCode returns the error code.
func (e *Error) GetCode() Code {
	return e.code
}

// GetMessage returns the error message.
func (e *Error) GetMessage() string {
	return e.message
}

// GetContext returns the error context map.
func (e *Error) GetContext() map[string]any {
	return e.context
}

// With adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) With(key string, value any) *Error {
	if e.context == nil {
		e.context = make(map[string]any)
	}
	e.context[key] = value
	return e
}

// WithEnum adds the enum type name to the error context.
func (e *Error) WithEnum(name string) *Error {
	return e.With("enum", name)
}

// WithTable adds table context to the error.
func (e *Error) WithTable(table string) *Error {
	return e.With("table", table)
}

// WithColumn adds column context to the error.
func (e *Error) WithColumn(name string) *Error {
	return e.With("column", name)
}

// WithSQL adds SQL statement context to the error.
func (e *Error) WithSQL(sql string) *Error {
	return e.With("sql", sql)
}

// WithScratchType records the name of a scratch type left behind by a failed
// alteration, so manual or tooling-assisted cleanup knows what to drop.
func (e *Error) WithScratchType(name string) *Error {
	types, _ := e.context["scratch_types"].([]string)
	types = append(types, name)
	return e.With("scratch_types", types)
}

// ScratchTypes returns the scratch type names attached to this error.
func (e *Error) ScratchTypes() []string {
	types, _ := e.context["scratch_types"].([]string)
	return types
}

// New creates a new Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		code:    code,
		message: fmt.Sprintf(format, args...),
		context: make(map[string]any),
	}
}

// Wrap creates a new Error that wraps an existing error.
func Wrap(code Code, err error, msg string) *Error {
	if err == nil {
		return New(code, msg)
	}
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
		cause:   err,
	}
}

// Wrapf creates a new Error that wraps an existing error with a formatted message.
func Wrapf(code Code, err error, format string, args ...any) *Error {
	return Wrap(code, err, fmt.Sprintf(format, args...))
}

// GetErrorCode extracts the error code from an error chain.
// Returns empty string if no code is found.
func GetErrorCode(err error) Code {
	if err == nil {
		return ""
	}

	var ee *Error
	if errors.As(err, &ee) {
		return ee.code
	}

	return ""
}

// Is checks if an error has the specified code.
func Is(err error, code Code) bool {
	return GetErrorCode(err) == code
}

// HasCode checks if an error has any error code.
func HasCode(err error) bool {
	return GetErrorCode(err) != ""
}
