package handler

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "document-qa-server/pkg/errors"
)

type contextKey string

const requestIDContextKey contextKey = "request_id"

// RequestIDHeader carries the per-request correlation ID in both directions.
const RequestIDHeader = "X-Request-ID"

// GetRequestIDFromContext returns the ID assigned by RequestIDMiddleware.
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes an {"error": message} response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError renders err with the status and message carried by an
// AppError, defaulting to 500 with the raw error text.
func writeAppError(w http.ResponseWriter, err error) {
	writeError(w, apperrors.GetStatusCode(err), apperrors.GetMessage(err))
}
