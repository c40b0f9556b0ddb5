package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNoFileUploaded         = errors.New("no file uploaded")
	ErrNoQuestion             = errors.New("no question provided")
	ErrUnsupportedFormat      = errors.New("unsupported file format")
	ErrNoTextExtracted        = errors.New("could not extract text from file")
	ErrFileTooLarge           = errors.New("file too large")
	ErrGeneratorNotConfigured = errors.New("AI service not configured")
	ErrEmptyModelResponse     = errors.New("empty response from model")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// ExtractionError is returned when a format adapter fails on a document.
type ExtractionError struct {
	Format   DocumentFormat
	Filename string
	Cause    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s text from %q: %v", e.Format, e.Filename, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Reason returns the underlying failure message without the wrapping context.
func (e *ExtractionError) Reason() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}
