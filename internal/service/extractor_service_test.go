package service

import (
	"context"
	"errors"
	"testing"

	"document-qa-server/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubDispatcher(mode domain.ExtractionFailureMode, ext *stubExtractor) *ExtractorService {
	s := NewExtractorService(mode, NewMockLogger())
	s.Register(domain.FormatText, ext, ".txt", ".MD")
	return s
}

func TestExtractorService_Supports(t *testing.T) {
	s := newStubDispatcher(domain.FailureModeSurface, &stubExtractor{})

	assert.True(t, s.Supports("notes.txt"))
	assert.True(t, s.Supports("NOTES.TXT"))
	assert.True(t, s.Supports("readme.md"))
	assert.False(t, s.Supports("archive.zip"))
	assert.False(t, s.Supports("no-extension"))
}

func TestExtractorService_UnsupportedReturnsSentinelText(t *testing.T) {
	ext := &stubExtractor{text: "never"}
	s := newStubDispatcher(domain.FailureModeSurface, ext)

	result, err := s.Extract(context.Background(), &domain.UploadedDocument{Filename: "a.zip", Content: []byte("PK")})
	require.NoError(t, err)
	assert.Equal(t, domain.UnsupportedFormatText, result.Text)
	assert.Equal(t, domain.FormatUnsupported, result.Format)
	assert.Zero(t, ext.calls)
}

func TestExtractorService_Success(t *testing.T) {
	s := newStubDispatcher(domain.FailureModeSurface, &stubExtractor{text: "hello"})

	result, err := s.Extract(context.Background(), &domain.UploadedDocument{Filename: "a.TXT", Content: []byte("hello")})
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Text)
	assert.Equal(t, domain.FormatText, result.Format)
	assert.False(t, result.Degraded)
}

func TestExtractorService_SurfaceModeReturnsExtractionError(t *testing.T) {
	s := newStubDispatcher(domain.FailureModeSurface, &stubExtractor{err: errStub})

	result, err := s.Extract(context.Background(), &domain.UploadedDocument{Filename: "a.txt", Content: []byte{0xff}})
	require.Error(t, err)
	assert.Nil(t, result)

	var extErr *domain.ExtractionError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, domain.FormatText, extErr.Format)
	assert.Equal(t, "a.txt", extErr.Filename)
	assert.ErrorIs(t, err, errStub)
}

func TestExtractorService_TextModeForwardsErrorAsText(t *testing.T) {
	s := newStubDispatcher(domain.FailureModeAsText, &stubExtractor{err: errStub})

	result, err := s.Extract(context.Background(), &domain.UploadedDocument{Filename: "a.txt", Content: []byte{0xff}})
	require.NoError(t, err)
	assert.Equal(t, errStub.Error(), result.Text)
	assert.True(t, result.Degraded)
}

func TestExtractorService_RecoversFromPanic(t *testing.T) {
	s := newStubDispatcher(domain.FailureModeSurface, &stubExtractor{panic: "boom"})

	var err error
	assert.NotPanics(t, func() {
		_, err = s.Extract(context.Background(), &domain.UploadedDocument{Filename: "a.txt", Content: []byte("x")})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestExtractorService_CancelledContext(t *testing.T) {
	s := newStubDispatcher(domain.FailureModeAsText, &stubExtractor{err: context.Canceled})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Extract(ctx, &domain.UploadedDocument{Filename: "a.txt", Content: []byte("x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDefaultExtractorService_RegistersAllFormats(t *testing.T) {
	s := NewDefaultExtractorService(testConfig{tesseractPath: "tesseract"}, NewMockLogger())

	for _, name := range []string{"a.pdf", "a.png", "a.jpg", "a.jpeg", "a.xls", "a.xlsx", "a.txt", "a.docx", "A.PDF"} {
		assert.True(t, s.Supports(name), name)
	}
	for _, name := range []string{"a.doc", "a.gif", "a.csv", "a"} {
		assert.False(t, s.Supports(name), name)
	}
}

func TestNewDefaultExtractorService_PlainText(t *testing.T) {
	s := NewDefaultExtractorService(testConfig{}, NewMockLogger())

	result, err := s.Extract(context.Background(), &domain.UploadedDocument{
		Filename: "notes.txt",
		Content:  []byte("The meeting is on Tuesday."),
	})
	require.NoError(t, err)
	assert.Equal(t, "The meeting is on Tuesday.", result.Text)
}

func TestNewDefaultExtractorService_CorruptPDF(t *testing.T) {
	doc := &domain.UploadedDocument{Filename: "broken.pdf", Content: []byte("this is not a pdf")}

	surface := NewDefaultExtractorService(testConfig{failureMode: domain.FailureModeSurface}, NewMockLogger())
	_, err := surface.Extract(context.Background(), doc)
	var extErr *domain.ExtractionError
	require.True(t, errors.As(err, &extErr), "expected extraction error, got %v", err)
	assert.Equal(t, domain.FormatPDF, extErr.Format)

	legacy := NewDefaultExtractorService(testConfig{failureMode: domain.FailureModeAsText}, NewMockLogger())
	result, err := legacy.Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.NotEmpty(t, result.Text)
}
