package errors

import (
	"errors"
	"fmt"
	"strings"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var msErr *MissingSamplesError
	if errors.As(err, &msErr) {
		return msErr.Code
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeSchemaError       = "SCHEMA_ERROR"
	CodeUnsupportedDesign = "UNSUPPORTED_DESIGN"
	CodeMissingSamples    = "MISSING_SAMPLES"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
)

// MissingSamplesError reports every sample referenced by the metadata that has
// no matching column in the counts matrix. The full list is collected before
// failing so callers can fix the input in one pass.
type MissingSamplesError struct {
	AppError
	Samples []string
}

// Common error constructors

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

// Schema reports a required column or field that is absent from an input table.
func Schema(message string) *AppError {
	return New(CodeSchemaError, message)
}

func Schemaf(format string, args ...interface{}) *AppError {
	return Schema(fmt.Sprintf(format, args...))
}

// UnsupportedDesign reports an input shape the testing engine cannot model,
// such as a metadata sheet with more or fewer than two conditions.
func UnsupportedDesign(message string) *AppError {
	return New(CodeUnsupportedDesign, message)
}

// MissingSamples builds a MissingSamplesError naming every absent sample.
func MissingSamples(samples []string) *MissingSamplesError {
	return &MissingSamplesError{
		AppError: AppError{
			Code:    CodeMissingSamples,
			Message: fmt.Sprintf("samples missing from counts matrix: %s", strings.Join(samples, ", ")),
		},
		Samples: samples,
	}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
