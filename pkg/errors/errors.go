package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Standard error types that can be used throughout the application
var (
	// Standard error sentinel values
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternalError      = errors.New("internal error")
	ErrTimeout            = errors.New("operation timed out")
	ErrUnavailable        = errors.New("service unavailable")
	ErrFailedPrecondition = errors.New("failed precondition")
	ErrCanceled           = errors.New("operation canceled")

	// Domain-specific error sentinel values
	ErrValidation          = errors.New("transcript validation failed")
	ErrNoProviderAvailable = errors.New("no analysis provider available")
	ErrProviderCall        = errors.New("analysis provider call failed")
	ErrResponseParse       = errors.New("analysis response could not be parsed")
	ErrJobNotFound         = errors.New("processing job not found")
	ErrPublishFailed       = errors.New("failed to publish intelligence record")
)

// Error represents a structured error with stack trace and additional context
type Error struct {
	// original is the underlying error
	original error

	// message is the error message
	message string

	// fields contains contextual information
	fields map[string]interface{}

	// stackPC is the program counter for the error's creation
	stackPC uintptr

	// file and line record where the error was created
	file string
	line int

	// Code is an optional error code for categorization
	Code string
}

// New creates a new structured error with the given message
func New(message string, fields ...map[string]interface{}) *Error {
	pc, file, line, _ := runtime.Caller(1)

	var fieldMap map[string]interface{}
	if len(fields) > 0 && fields[0] != nil {
		fieldMap = fields[0]
	} else {
		fieldMap = make(map[string]interface{})
	}

	return &Error{
		original: errors.New(message),
		message:  message,
		fields:   fieldMap,
		stackPC:  pc,
		file:     file,
		line:     line,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, message string, fields ...map[string]interface{}) *Error {
	if err == nil {
		return nil
	}

	pc, file, line, _ := runtime.Caller(1)

	var fieldMap map[string]interface{}
	if len(fields) > 0 && fields[0] != nil {
		fieldMap = fields[0]
	} else {
		fieldMap = make(map[string]interface{})
	}

	return &Error{
		original: err,
		message:  message,
		fields:   fieldMap,
		stackPC:  pc,
		file:     file,
		line:     line,
	}
}

// WithField adds a single field to the error context
func (e *Error) WithField(key string, value interface{}) *Error {
	if e == nil {
		return nil
	}

	// Create a copy to avoid modifying the original
	result := &Error{
		original: e.original,
		message:  e.message,
		fields:   make(map[string]interface{}, len(e.fields)+1),
		stackPC:  e.stackPC,
		file:     e.file,
		line:     e.line,
		Code:     e.Code,
	}

	for k, v := range e.fields {
		result.fields[k] = v
	}

	result.fields[key] = value

	return result
}

// WithFields adds multiple fields to the error context
func (e *Error) WithFields(fields map[string]interface{}) *Error {
	if e == nil {
		return nil
	}

	result := &Error{
		original: e.original,
		message:  e.message,
		fields:   make(map[string]interface{}, len(e.fields)+len(fields)),
		stackPC:  e.stackPC,
		file:     e.file,
		line:     e.line,
		Code:     e.Code,
	}

	for k, v := range e.fields {
		result.fields[k] = v
	}

	for k, v := range fields {
		result.fields[k] = v
	}

	return result
}

// WithCode adds an error code to the error
func (e *Error) WithCode(code string) *Error {
	if e == nil {
		return nil
	}

	return &Error{
		original: e.original,
		message:  e.message,
		fields:   e.fields,
		stackPC:  e.stackPC,
		file:     e.file,
		line:     e.line,
		Code:     code,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil || e.original == nil {
		return ""
	}

	if e.message == "" {
		return e.original.Error()
	}

	return fmt.Sprintf("%s: %v", e.message, e.original)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.original
}

// Location returns the file:line where the error was created
func (e *Error) Location() string {
	if e == nil {
		return ""
	}

	parts := strings.Split(e.file, "/")
	filename := parts[len(parts)-1]

	return fmt.Sprintf("%s:%d", filename, e.line)
}

// GetFields returns the error's context fields
func (e *Error) GetFields() map[string]interface{} {
	if e == nil {
		return nil
	}
	return e.fields
}

// GetCode returns the error's code
func (e *Error) GetCode() string {
	if e == nil {
		return ""
	}
	return e.Code
}

// Is reports whether any error in err's tree matches target.
// Implements the errors.Is interface.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}

	if errors.Is(e.original, target) {
		return true
	}

	return e == target
}

// AsJSON returns the error in JSON-friendly map format
func (e *Error) AsJSON() map[string]interface{} {
	if e == nil {
		return nil
	}

	result := map[string]interface{}{
		"message":  e.Error(),
		"location": e.Location(),
	}

	if e.Code != "" {
		result["code"] = e.Code
	}

	if len(e.fields) > 0 {
		result["context"] = e.fields
	}

	return result
}

// NewValidation creates a new ErrValidation error with additional context
func NewValidation(details string, fields ...map[string]interface{}) *Error {
	fieldMap := make(map[string]interface{})
	if len(fields) > 0 && fields[0] != nil {
		fieldMap = fields[0]
	}

	pc, file, line, _ := runtime.Caller(1)

	return &Error{
		original: ErrValidation,
		message:  fmt.Sprintf("transcript validation failed: %s", details),
		fields:   fieldMap,
		stackPC:  pc,
		file:     file,
		line:     line,
		Code:     "VALIDATION_FAILED",
	}
}

// NewNoProviderAvailable creates a new ErrNoProviderAvailable error with additional context
func NewNoProviderAvailable(details string, fields ...map[string]interface{}) *Error {
	fieldMap := make(map[string]interface{})
	if len(fields) > 0 && fields[0] != nil {
		fieldMap = fields[0]
	}

	pc, file, line, _ := runtime.Caller(1)

	return &Error{
		original: ErrNoProviderAvailable,
		message:  fmt.Sprintf("no analysis provider available: %s", details),
		fields:   fieldMap,
		stackPC:  pc,
		file:     file,
		line:     line,
		Code:     "NO_PROVIDER_AVAILABLE",
	}
}

// NewProviderCall creates a new ErrProviderCall error with additional context
func NewProviderCall(provider, details string, fields ...map[string]interface{}) *Error {
	fieldMap := make(map[string]interface{})
	if len(fields) > 0 && fields[0] != nil {
		fieldMap = fields[0]
	}
	fieldMap["provider"] = provider

	pc, file, line, _ := runtime.Caller(1)

	return &Error{
		original: ErrProviderCall,
		message:  fmt.Sprintf("analysis provider call failed: %s", details),
		fields:   fieldMap,
		stackPC:  pc,
		file:     file,
		line:     line,
		Code:     "PROVIDER_CALL_FAILED",
	}
}

// NewResponseParse creates a new ErrResponseParse error with additional context
func NewResponseParse(details string, fields ...map[string]interface{}) *Error {
	fieldMap := make(map[string]interface{})
	if len(fields) > 0 && fields[0] != nil {
		fieldMap = fields[0]
	}

	pc, file, line, _ := runtime.Caller(1)

	return &Error{
		original: ErrResponseParse,
		message:  fmt.Sprintf("analysis response could not be parsed: %s", details),
		fields:   fieldMap,
		stackPC:  pc,
		file:     file,
		line:     line,
		Code:     "RESPONSE_PARSE_FAILED",
	}
}

// NewJobNotFound creates a new ErrJobNotFound with additional context
func NewJobNotFound(jobID string, fields ...map[string]interface{}) *Error {
	fieldMap := make(map[string]interface{})
	if len(fields) > 0 && fields[0] != nil {
		fieldMap = fields[0]
	}
	fieldMap["job_id"] = jobID

	pc, file, line, _ := runtime.Caller(1)

	return &Error{
		original: ErrJobNotFound,
		message:  fmt.Sprintf("processing job not found: %s", jobID),
		fields:   fieldMap,
		stackPC:  pc,
		file:     file,
		line:     line,
		Code:     "JOB_NOT_FOUND",
	}
}

// IsErrorType checks if an error is of a specific error type
func IsErrorType(err, target error) bool {
	return errors.Is(err, target)
}

// GetErrorCode extracts the error code from an error if it's a structured error
func GetErrorCode(err error) string {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.GetCode()
	}
	return ""
}

// GetErrorFields extracts fields from an error if it's a structured error
func GetErrorFields(err error) map[string]interface{} {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.GetFields()
	}
	return nil
}
