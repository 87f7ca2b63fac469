package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents a missing or malformed input field
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents a lookup miss (relation id, person, image mapping)
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypePersistence represents a failure reading or writing a backing file
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeUnsupportedMedia represents an upload outside the image allow-list
	ErrorTypeUnsupportedMedia ErrorType = "unsupported_media"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Kind reports the category of the error
func (e *BaseError) Kind() ErrorType {
	return e.Type
}

// Detail returns the message without the category prefix or wrapped cause
func (e *BaseError) Detail() string {
	return e.Message
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Validation Errors

// ErrValidation is returned when a required field is missing, empty or malformed
type ErrValidation struct {
	*BaseError
	Field string
}

func NewValidation(field, reason string) *ErrValidation {
	return &ErrValidation{
		BaseError: NewBaseError(ErrorTypeValidation, reason, nil),
		Field:     field,
	}
}

// NewMissingField reports a required field that is absent or empty
func NewMissingField(field string) *ErrValidation {
	return NewValidation(field, fmt.Sprintf("missing required field: %s", field))
}

// Not Found Errors

// ErrNotFound is returned when a relation, person or image mapping does not exist
type ErrNotFound struct {
	*BaseError
	Resource string
	Key      string
}

func NewNotFound(resource, key string) *ErrNotFound {
	return &ErrNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", resource, key), nil),
		Resource:  resource,
		Key:       key,
	}
}

// Persistence Errors

// ErrPersistence is returned when a backing file cannot be read or written
type ErrPersistence struct {
	*BaseError
	Path string
	Op   string
}

func NewPersistence(op, path string, err error) *ErrPersistence {
	return &ErrPersistence{
		BaseError: NewBaseError(ErrorTypePersistence, fmt.Sprintf("failed to %s %s", op, path), err),
		Path:      path,
		Op:        op,
	}
}

// Detail names the file without its directory and reports the underlying
// cause with any paths stripped, so it can be shown to clients
func (e *ErrPersistence) Detail() string {
	msg := fmt.Sprintf("failed to %s %s", e.Op, filepath.Base(e.Path))
	if cause := pathFreeCause(e.Err); cause != "" {
		msg += ": " + cause
	}
	return msg
}

func pathFreeCause(err error) string {
	if err == nil {
		return ""
	}
	var pathErr *fs.PathError
	if stderrors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	var linkErr *os.LinkError
	if stderrors.As(err, &linkErr) {
		return linkErr.Err.Error()
	}
	return err.Error()
}

// Media Errors

// ErrUnsupportedMedia is returned when an uploaded file is not an accepted image
type ErrUnsupportedMedia struct {
	*BaseError
	Filename string
}

func NewUnsupportedMedia(filename, reason string) *ErrUnsupportedMedia {
	return &ErrUnsupportedMedia{
		BaseError: NewBaseError(ErrorTypeUnsupportedMedia, reason, nil),
		Filename:  filename,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type kinded interface {
	Kind() ErrorType
}

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var k kinded
	if stderrors.As(err, &k) {
		return k.Kind() == errType
	}
	return false
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return IsErrorType(err, ErrorTypeValidation)
}

type detailed interface {
	Detail() string
}

// Message returns the human readable message of a typed error, falling back to err.Error()
func Message(err error) string {
	var d detailed
	if stderrors.As(err, &d) {
		return d.Detail()
	}
	return err.Error()
}
