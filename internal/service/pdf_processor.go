package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"document-qa-server/internal/domain"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// PDFProcessor handles PDF text extraction
type PDFProcessor struct {
	logger domain.Logger
}

// NewPDFProcessor creates a new PDF processor
func NewPDFProcessor(logger domain.Logger) *PDFProcessor {
	return &PDFProcessor{
		logger: logger,
	}
}

// ExtractText concatenates the text of every page in order. MuPDF is tried
// first; files it refuses are retried with the pure-Go reader.
func (p *PDFProcessor) ExtractText(ctx context.Context, pdfBytes []byte) (string, error) {
	text, err := p.extractWithFitz(ctx, pdfBytes)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	p.logger.Warn("MuPDF could not read PDF, trying fallback reader", "error", err)
	fallback, fallbackErr := p.extractWithReader(ctx, pdfBytes)
	if fallbackErr != nil {
		// The MuPDF error is the more descriptive of the two.
		return "", err
	}
	return fallback, nil
}

func (p *PDFProcessor) extractWithFitz(ctx context.Context, pdfBytes []byte) (string, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	var sb strings.Builder
	for pageNum := 0; pageNum < numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p.logger.Debug("PDF processing page", "page", pageNum+1, "total", numPages)

		text, err := doc.Text(pageNum)
		if err != nil {
			// Unreadable pages contribute nothing, like pages without text.
			p.logger.Warn("Failed to extract text from page", "page_num", pageNum+1, "total", numPages, "error", err)
			continue
		}
		sb.WriteString(sanitizeText(text))
	}

	return sb.String(), nil
}

func (p *PDFProcessor) extractWithReader(ctx context.Context, pdfBytes []byte) (text string, err error) {
	// The pure-Go reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("Fallback reader failed on page", "page_num", pageIndex, "total", totalPage, "error", err)
			continue
		}
		sb.WriteString(sanitizeText(pageText))
	}

	return sb.String(), nil
}

// sanitizeText removes NUL bytes and non-whitespace control characters that
// some PDF producers leave in text runs.
func sanitizeText(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			result.WriteRune(r)
		case r < 0x20 || r == 0x7F:
			continue
		case r >= 0xD800 && r <= 0xDFFF:
			continue
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
