package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"document-qa-server/internal/domain"
	"document-qa-server/pkg/metrics"
)

// ExtractorFunc adapts a plain function to domain.FormatExtractor.
type ExtractorFunc func(ctx context.Context, content []byte) (string, error)

// ExtractText calls f.
func (f ExtractorFunc) ExtractText(ctx context.Context, content []byte) (string, error) {
	return f(ctx, content)
}

type registration struct {
	format    domain.DocumentFormat
	extractor domain.FormatExtractor
}

// ExtractorService picks an extraction routine by file extension.
type ExtractorService struct {
	adapters    map[string]registration
	failureMode domain.ExtractionFailureMode
	logger      domain.Logger
}

// NewExtractorService creates a dispatcher with no routines registered.
func NewExtractorService(failureMode domain.ExtractionFailureMode, logger domain.Logger) *ExtractorService {
	if failureMode != domain.FailureModeAsText {
		failureMode = domain.FailureModeSurface
	}
	return &ExtractorService{
		adapters:    make(map[string]registration),
		failureMode: failureMode,
		logger:      logger,
	}
}

// NewDefaultExtractorService registers the PDF, image, spreadsheet, text and
// Word routines.
func NewDefaultExtractorService(cfg domain.Config, logger domain.Logger) *ExtractorService {
	s := NewExtractorService(cfg.GetExtractionFailureMode(), logger)

	pdfProcessor := NewPDFProcessor(logger)
	ocr := NewOCRProcessor(cfg.GetTesseractPath(), cfg.GetOCRLanguage(), logger)
	sheets := NewSpreadsheetProcessor(logger)

	s.Register(domain.FormatPDF, pdfProcessor, ".pdf")
	s.Register(domain.FormatImage, ocr, ".png", ".jpg", ".jpeg")
	s.Register(domain.FormatSpreadsheet, ExtractorFunc(sheets.ExtractXLS), ".xls")
	s.Register(domain.FormatSpreadsheet, ExtractorFunc(sheets.ExtractXLSX), ".xlsx")
	s.Register(domain.FormatText, ExtractorFunc(ExtractPlainText), ".txt")
	s.Register(domain.FormatWord, DocxExtractor(cfg.GetMaxFileSize()*docxExpansionFactor), ".docx")
	return s
}

// Register binds extensions (with leading dot, any case) to a routine.
func (s *ExtractorService) Register(format domain.DocumentFormat, extractor domain.FormatExtractor, extensions ...string) {
	for _, ext := range extensions {
		s.adapters[strings.ToLower(ext)] = registration{format: format, extractor: extractor}
	}
}

// Supports reports whether a routine exists for the filename's extension.
func (s *ExtractorService) Supports(filename string) bool {
	_, ok := s.adapters[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Extract returns the document text. Unknown extensions yield
// domain.UnsupportedFormatText rather than an error. Routine failures are
// returned as *domain.ExtractionError, or as the text itself when the service
// runs in FailureModeAsText.
func (s *ExtractorService) Extract(ctx context.Context, doc *domain.UploadedDocument) (*domain.ExtractionResult, error) {
	ext := doc.Extension()
	reg, ok := s.adapters[ext]
	if !ok {
		s.logger.Debug("No extractor for extension", "filename", doc.Filename, "extension", ext)
		metrics.ExtractionsTotal.WithLabelValues(string(domain.FormatUnsupported), "unsupported").Inc()
		return &domain.ExtractionResult{
			Format: domain.FormatUnsupported,
			Text:   domain.UnsupportedFormatText,
		}, nil
	}

	text, err := safeExtract(ctx, reg.extractor, doc.Content)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if s.failureMode == domain.FailureModeAsText {
			s.logger.Warn("Extraction failed, forwarding error message as text",
				"filename", doc.Filename, "format", reg.format, "error", err)
			metrics.ExtractionsTotal.WithLabelValues(string(reg.format), "degraded").Inc()
			return &domain.ExtractionResult{Format: reg.format, Text: err.Error(), Degraded: true}, nil
		}

		metrics.ExtractionsTotal.WithLabelValues(string(reg.format), "failed").Inc()
		return nil, &domain.ExtractionError{Format: reg.format, Filename: doc.Filename, Cause: err}
	}

	outcome := "ok"
	if strings.TrimSpace(text) == "" {
		outcome = "empty"
	}
	metrics.ExtractionsTotal.WithLabelValues(string(reg.format), outcome).Inc()
	s.logger.Debug("Extracted document text", "filename", doc.Filename, "format", reg.format, "chars", len(text))

	return &domain.ExtractionResult{Format: reg.format, Text: text}, nil
}

func safeExtract(ctx context.Context, extractor domain.FormatExtractor, content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panicked: %v", r)
		}
	}()
	return extractor.ExtractText(ctx, content)
}
