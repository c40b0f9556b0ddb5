package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "document-qa-server/pkg/errors"
)

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusTeapot, "nope")

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content type application/json, got %s", ct)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"error":"nope"}` {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestWriteError_EscapesMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusBadRequest, `bad "quote" \ here`)

	if strings.TrimSpace(rr.Body.String()) != `{"error":"bad \"quote\" \\ here"}` {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestWriteAppError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeAppError(rr, apperrors.NewExtractionError("Could not extract text from file", errors.New("EOF")))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"error":"Could not extract text from file: EOF"}` {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestWriteAppError_PlainError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeAppError(rr, errors.New("boom"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"error":"boom"}` {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}
