package config

import (
	"context"
	"io"

	"document-qa-server/internal/domain"
	"document-qa-server/internal/repository"
	"document-qa-server/internal/service"
	"document-qa-server/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config          domain.Config
	Logger          domain.Logger
	AnswerGenerator domain.AnswerGenerator
	QAService       domain.QuestionAnswerer
}

// NewContainer creates a new dependency injection container. A model backend
// that fails to initialise is logged and left nil so the server still starts.
func NewContainer(ctx context.Context) *Container {
	cfg := NewConfig()
	appLogger := logger.NewLogger(cfg.GetLogLevel(), cfg.GetLogFormat())

	extractor := service.NewDefaultExtractorService(cfg, appLogger)

	generator, err := repository.NewAnswerGenerator(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialise model backend", err)
	}

	qaService := service.NewQAService(extractor, generator, appLogger, cfg.GetGenerationTimeout())

	return &Container{
		Config:          cfg,
		Logger:          appLogger,
		AnswerGenerator: generator,
		QAService:       qaService,
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// Close releases the model client, if it holds one.
func (c *Container) Close() error {
	if closer, ok := c.AnswerGenerator.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
