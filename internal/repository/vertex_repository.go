package repository

import (
	"context"
	"fmt"
	"strings"

	"document-qa-server/internal/domain"

	"cloud.google.com/go/vertexai/genai"
)

// VertexRepository generates answers through Vertex AI using application
// default credentials.
type VertexRepository struct {
	client *genai.Client
	model  string
	logger domain.Logger
}

func NewVertexRepository(ctx context.Context, projectID, location, model string, logger domain.Logger) (*VertexRepository, error) {
	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}
	return &VertexRepository{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (r *VertexRepository) Name() string {
	return "vertex"
}

func (r *VertexRepository) Generate(ctx context.Context, prompt string) (string, error) {
	model := r.client.GenerativeModel(r.model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}

	answer, err := textFromVertexResponse(resp)
	if err != nil {
		return "", err
	}
	if resp.UsageMetadata != nil {
		r.logger.Debug("Vertex answered", "model", r.model, "tokens", resp.UsageMetadata.TotalTokenCount)
	}
	return answer, nil
}

func (r *VertexRepository) Close() error {
	return r.client.Close()
}

func textFromVertexResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", domain.ErrEmptyModelResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", domain.ErrEmptyModelResponse
	}
	return sb.String(), nil
}
