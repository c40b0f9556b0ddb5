package repository

import (
	"context"

	"document-qa-server/internal/domain"
)

// NewAnswerGenerator picks the backend from configuration. An API key selects
// the Gemini API; otherwise a GCP project selects Vertex AI. With neither it
// returns nil, nil and the service reports the model as not configured.
func NewAnswerGenerator(ctx context.Context, cfg domain.Config, logger domain.Logger) (domain.AnswerGenerator, error) {
	if key := cfg.GetGeminiAPIKey(); key != "" {
		logger.Info("Using Gemini API", "model", cfg.GetGeminiModel())
		repo, err := NewGeminiRepository(ctx, cfg.GetGeminiBaseURL(), key, cfg.GetGeminiModel(), logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}

	if project := cfg.GetGCPProjectID(); project != "" {
		logger.Info("Using Vertex AI", "project", project, "location", cfg.GetGCPLocation(), "model", cfg.GetGeminiModel())
		repo, err := NewVertexRepository(ctx, project, cfg.GetGCPLocation(), cfg.GetGeminiModel(), logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}

	logger.Warn("No model backend configured; set GEMINI_API_KEY or GCP_PROJECT_ID")
	return nil, nil
}
