package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"document-qa-server/internal/domain"

	"google.golang.org/genai"
)

const geminiClientTimeout = 120 * time.Second

// GeminiRepository calls the Gemini API generateContent endpoint with an API key.
type GeminiRepository struct {
	client *genai.Client
	model  string
	logger domain.Logger
}

// NewGeminiRepository builds a Gemini API client. baseURL may be empty to use
// the SDK default endpoint.
func NewGeminiRepository(ctx context.Context, baseURL, apiKey, model string, logger domain.Logger) (*GeminiRepository, error) {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: geminiClientTimeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiRepository{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (r *GeminiRepository) Name() string {
	return "gemini"
}

// Generate sends prompt as a single user turn and returns the text of the
// first candidate.
func (r *GeminiRepository) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	return textFromGeminiResponse(resp, r.logger, r.model)
}

func textFromGeminiResponse(resp *genai.GenerateContentResponse, logger domain.Logger, model string) (string, error) {
	if resp == nil {
		return "", domain.ErrEmptyModelResponse
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", domain.ErrEmptyModelResponse
	}

	answer := resp.Text()
	if answer == "" {
		return "", domain.ErrEmptyModelResponse
	}

	logger.Debug("Gemini answered", "model", model, "finish_reason", resp.Candidates[0].FinishReason, "chars", len(answer))
	return answer, nil
}
