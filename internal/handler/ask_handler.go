package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"document-qa-server/internal/domain"
	apperrors "document-qa-server/pkg/errors"
)

const (
	// Room for the question field and multipart boundaries on top of the file.
	multipartOverhead = 1 << 20
	// Parts larger than this spill to temporary files.
	maxMultipartMemory = 32 << 20

	msgFileTooLarge = "File too large"
	msgNoFile       = "No file uploaded"
)

// AskHandler serves POST /ask.
type AskHandler struct {
	qaService   domain.QuestionAnswerer
	maxFileSize int64
	logger      domain.Logger
}

func NewAskHandler(qaService domain.QuestionAnswerer, maxFileSize int64, logger domain.Logger) *AskHandler {
	return &AskHandler{
		qaService:   qaService,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Ask reads the multipart "file" and "question" fields and answers with
// {"answer": ...} or {"error": ...}.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, msgFileTooLarge)
			return
		}
		// Non-multipart or malformed bodies carry no file.
		h.logger.Debug("Failed to parse multipart form", "error", err)
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	doc, err := h.readUpload(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.Is(err, domain.ErrFileTooLarge) || errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, msgFileTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}

	var question string
	if r.MultipartForm != nil {
		if values := r.MultipartForm.Value["question"]; len(values) > 0 {
			question = values[0]
		}
	}

	requestID, _ := GetRequestIDFromContext(r.Context())
	answer, err := h.qaService.Ask(r.Context(), doc, domain.Question(question))
	if err != nil {
		h.logAskFailure(err, doc, requestID)
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

func (h *AskHandler) readUpload(r *http.Request) (*domain.UploadedDocument, error) {
	if r.MultipartForm == nil {
		return nil, domain.ErrNoFileUploaded
	}
	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		return nil, domain.ErrNoFileUploaded
	}
	header := headers[0]
	if header.Size > h.maxFileSize {
		return nil, domain.ErrFileTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(content)) > h.maxFileSize {
		return nil, domain.ErrFileTooLarge
	}

	return &domain.UploadedDocument{
		Filename: strings.TrimSpace(filepath.Base(header.Filename)),
		Content:  content,
	}, nil
}

// logAskFailure keeps client mistakes at debug level.
func (h *AskHandler) logAskFailure(err error, doc *domain.UploadedDocument, requestID string) {
	fields := []interface{}{"filename", doc.Filename, "bytes", doc.Size(), "request_id", requestID}
	if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		h.logger.Debug("Ask request rejected", append(fields, "reason", apperrors.GetMessage(err))...)
		return
	}
	h.logger.Warn("Ask request failed", append(fields, "error", err)...)
}
