package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io/fs"
	"os/exec"
	"strings"

	"document-qa-server/internal/domain"
)

// OCRProcessor runs the Tesseract binary over uploaded images.
type OCRProcessor struct {
	binary   string
	language string
	logger   domain.Logger
}

// NewOCRProcessor creates an OCR processor for the binary at path.
func NewOCRProcessor(binary, language string, logger domain.Logger) *OCRProcessor {
	return &OCRProcessor{
		binary:   binary,
		language: language,
		logger:   logger,
	}
}

// ExtractText decodes the image header to make sure the upload really is a
// PNG or JPEG, then pipes the bytes through tesseract and returns stdout.
func (o *OCRProcessor) ExtractText(ctx context.Context, imageBytes []byte) (string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return "", fmt.Errorf("cannot identify image file: %w", err)
	}
	o.logger.Debug("Running OCR", "format", format, "width", cfg.Width, "height", cfg.Height)

	args := []string{"stdin", "stdout"}
	if o.language != "" {
		args = append(args, "-l", o.language)
	}

	cmd := exec.CommandContext(ctx, o.binary, args...)
	cmd.Stdin = bytes.NewReader(imageBytes)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s is not installed or it's not in your PATH", o.binary)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("tesseract failed: %s", msg)
		}
		return "", fmt.Errorf("tesseract failed: %w", err)
	}

	return stdout.String(), nil
}
