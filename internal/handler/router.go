package handler

import (
	"net/http"

	"document-qa-server/internal/domain"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

const serviceName = "document-qa-server"

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(askHandler *AskHandler, logger domain.Logger, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()

	middlewares := []mux.MiddlewareFunc{RequestIDMiddleware, LoggingMiddleware(logger), RecoveryMiddleware(logger)}
	router.Use(middlewares...)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: serviceName})
	}).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/ask", askHandler.Ask).Methods(http.MethodPost)

	// mux skips Use middlewares when no route matches.
	router.NotFoundHandler = chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	}), middlewares)
	router.MethodNotAllowedHandler = chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}), middlewares)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			RequestIDHeader,
		},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}

// chain applies middlewares in the same order as Router.Use.
func chain(h http.Handler, middlewares []mux.MiddlewareFunc) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
