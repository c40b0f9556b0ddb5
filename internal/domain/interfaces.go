package domain

import (
	"context"
	"time"
)

// DocumentExtractor turns an uploaded document into plain text.
type DocumentExtractor interface {
	Extract(ctx context.Context, doc *UploadedDocument) (*ExtractionResult, error)
	Supports(filename string) bool
}

// FormatExtractor is a single per-format extraction routine.
type FormatExtractor interface {
	ExtractText(ctx context.Context, content []byte) (string, error)
}

// AnswerGenerator sends a prompt to a generative-text model and returns its reply.
type AnswerGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// QuestionAnswerer answers a question about an uploaded document.
type QuestionAnswerer interface {
	Ask(ctx context.Context, doc *UploadedDocument, question Question) (*Answer, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetLogFormat() string
	GetGeminiAPIKey() string
	GetGeminiBaseURL() string
	GetGeminiModel() string
	GetGCPProjectID() string
	GetGCPLocation() string
	GetTesseractPath() string
	GetOCRLanguage() string
	GetAllowedOrigins() []string
	GetExtractionFailureMode() ExtractionFailureMode
	GetGenerationTimeout() time.Duration
	GetShutdownTimeout() time.Duration
}
