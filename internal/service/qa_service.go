package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"document-qa-server/internal/domain"
	apperrors "document-qa-server/pkg/errors"
	"document-qa-server/pkg/metrics"
)

// Client-facing messages.
const (
	msgNoFile       = "No file uploaded"
	msgNoQuestion   = "No question provided"
	msgNoText       = "Could not extract text from file"
	msgUnconfigured = "AI service not configured (set GEMINI_API_KEY or GCP_PROJECT_ID)"
)

// QAService answers questions about a single uploaded document.
type QAService struct {
	extractor domain.DocumentExtractor
	generator domain.AnswerGenerator
	logger    domain.Logger
	timeout   time.Duration
}

// NewQAService wires the extraction dispatcher to a generator. generator may
// be nil, in which case every answerable request fails with an internal error.
func NewQAService(
	extractor domain.DocumentExtractor,
	generator domain.AnswerGenerator,
	logger domain.Logger,
	timeout time.Duration,
) *QAService {
	return &QAService{
		extractor: extractor,
		generator: generator,
		logger:    logger,
		timeout:   timeout,
	}
}

// Ask extracts the document text, builds the prompt and calls the model once.
func (s *QAService) Ask(ctx context.Context, doc *domain.UploadedDocument, question domain.Question) (*domain.Answer, error) {
	if err := doc.Validate(); err != nil {
		return nil, apperrors.NewValidationError(msgNoFile).WithCause(domain.ErrNoFileUploaded)
	}
	question = question.Normalize()
	if err := question.Validate(); err != nil {
		return nil, apperrors.NewValidationError(msgNoQuestion).WithCause(domain.ErrNoQuestion)
	}
	if !s.extractor.Supports(doc.Filename) {
		return nil, apperrors.NewValidationError(domain.UnsupportedFormatText).WithCause(domain.ErrUnsupportedFormat)
	}

	result, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		var extErr *domain.ExtractionError
		if errors.As(err, &extErr) {
			s.logger.Warn("Document extraction failed", "filename", doc.Filename, "format", extErr.Format, "error", extErr.Cause)
			return nil, apperrors.NewExtractionError(msgNoText, extErr.Cause)
		}
		return nil, apperrors.NewInternalError(err.Error(), err)
	}
	if strings.TrimSpace(result.Text) == "" {
		return nil, apperrors.NewExtractionError(msgNoText, nil).WithCause(domain.ErrNoTextExtracted)
	}

	if s.generator == nil {
		return nil, apperrors.NewInternalError(msgUnconfigured, domain.ErrGeneratorNotConfigured)
	}

	prompt := BuildPrompt(result.Text, string(question))
	s.logger.Debug("Calling model", "backend", s.generator.Name(), "prompt_chars", len(prompt), "format", result.Format, "degraded", result.Degraded)

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	answer, err := s.generator.Generate(genCtx, prompt)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.GenerationDuration.WithLabelValues(s.generator.Name(), status).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, apperrors.NewGenerationError(err)
	}

	return &domain.Answer{Text: answer}, nil
}
