package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"document-qa-server/internal/domain"
)

type mockLogger struct{}

func (mockLogger) Info(msg string, fields ...interface{})             {}
func (mockLogger) Error(msg string, err error, fields ...interface{}) {}
func (mockLogger) Debug(msg string, fields ...interface{})            {}
func (mockLogger) Warn(msg string, fields ...interface{})             {}

type sentContents struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

func newTestGemini(t *testing.T, baseURL string) *GeminiRepository {
	t.Helper()
	repo, err := NewGeminiRepository(context.Background(), baseURL, "secret-key", "gemini-2.0-flash", mockLogger{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return repo
}

func TestGeminiRepository_Generate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody sentContents
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"The answer "},{"text":"is 42."}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	repo := newTestGemini(t, server.URL+"/")
	answer, err := repo.Generate(context.Background(), "PROMPT")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if answer != "The answer is 42." {
		t.Fatalf("unexpected answer %q", answer)
	}
	if gotPath != "/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "secret-key" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 || gotBody.Contents[0].Parts[0].Text != "PROMPT" || gotBody.Contents[0].Role != "user" {
		t.Fatalf("unexpected request body %+v", gotBody)
	}
	if repo.Name() != "gemini" {
		t.Fatalf("unexpected backend name %q", repo.Name())
	}
}

func TestGeminiRepository_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
		wantIs  error
	}{
		{
			name:    "api error body",
			status:  http.StatusBadRequest,
			body:    `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`,
			wantErr: "API key not valid",
		},
		{
			name:    "blocked prompt",
			status:  http.StatusOK,
			body:    `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			wantErr: "prompt blocked: SAFETY",
		},
		{
			name:   "no candidates",
			status: http.StatusOK,
			body:   `{"candidates":[]}`,
			wantIs: domain.ErrEmptyModelResponse,
		},
		{
			name:   "no text parts",
			status: http.StatusOK,
			body:   `{"candidates":[{"content":{"parts":[]}}]}`,
			wantIs: domain.ErrEmptyModelResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			repo := newTestGemini(t, server.URL)
			_, err := repo.Generate(context.Background(), "p")
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q, got %q", tt.wantErr, err.Error())
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Fatalf("expected %v, got %v", tt.wantIs, err)
			}
		})
	}
}

func TestGeminiRepository_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	repo := newTestGemini(t, server.URL)
	_, err := repo.Generate(ctx, "p")
	if err == nil || !strings.Contains(err.Error(), "gemini call failed") {
		t.Fatalf("expected call failure, got %v", err)
	}
	if ctx.Err() == nil {
		t.Fatalf("expected the caller deadline to have fired")
	}
}
