package domain

import (
	"path/filepath"
	"strings"
)

// DocumentFormat identifies the extraction routine for an upload.
type DocumentFormat string

const (
	FormatPDF         DocumentFormat = "pdf"
	FormatImage       DocumentFormat = "image"
	FormatSpreadsheet DocumentFormat = "spreadsheet"
	FormatText        DocumentFormat = "text"
	FormatWord        DocumentFormat = "docx"
	FormatUnsupported DocumentFormat = "unsupported"
)

// ExtractionFailureMode decides what happens when a format adapter fails.
type ExtractionFailureMode string

const (
	// FailureModeSurface returns the failure to the caller as an error.
	FailureModeSurface ExtractionFailureMode = "surface"
	// FailureModeAsText returns the failure message in place of the document
	// text, which is then sent to the model like any other content.
	FailureModeAsText ExtractionFailureMode = "text"
)

// UnsupportedFormatText is returned in place of document text when no
// extraction routine exists for the file extension.
const UnsupportedFormatText = "Unsupported file format"

// UploadedDocument is a file received with a question. It lives for a single
// request and is never stored.
type UploadedDocument struct {
	Filename string
	Content  []byte
}

// Extension returns the lower-cased extension of the filename, including the dot.
func (d *UploadedDocument) Extension() string {
	return strings.ToLower(filepath.Ext(d.Filename))
}

// Size returns the number of bytes uploaded.
func (d *UploadedDocument) Size() int64 {
	return int64(len(d.Content))
}

// Validate checks that the upload carries a usable filename.
func (d *UploadedDocument) Validate() error {
	if d == nil {
		return &ValidationError{Field: "file", Message: "no file uploaded"}
	}
	name := strings.TrimSpace(filepath.Base(d.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return &ValidationError{Field: "file", Message: "filename is required"}
	}
	return nil
}

// Question is the user's natural-language question about a document.
type Question string

// Normalize trims surrounding whitespace.
func (q Question) Normalize() Question {
	return Question(strings.TrimSpace(string(q)))
}

// Validate reports an error when the question is blank.
func (q Question) Validate() error {
	if q.Normalize() == "" {
		return &ValidationError{Field: "question", Message: "no question provided"}
	}
	return nil
}

// Answer is the model's reply to a question.
type Answer struct {
	Text string `json:"answer"`
}

// ExtractionResult is the text pulled out of a document plus how it was obtained.
type ExtractionResult struct {
	Format DocumentFormat
	Text   string
	// Degraded is set when an extraction failure was converted into text.
	Degraded bool
}
