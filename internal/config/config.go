package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"document-qa-server/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort            string
	MaxFileSize           int64
	LogLevel              string
	LogFormat             string
	GeminiAPIKey          string
	GeminiBaseURL         string
	GeminiModel           string
	GCPProjectID          string
	GCPLocation           string
	TesseractPath         string
	OCRLanguage           string
	AllowedOrigins        []string
	ExtractionFailureMode domain.ExtractionFailureMode
	GenerationTimeout     time.Duration
	ShutdownTimeout       time.Duration
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// PaaS platforms provide the listening port via PORT.
		ServerPort:            getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "5000")),
		MaxFileSize:           getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:              getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:             getEnvOrDefault("LOG_FORMAT", "text"),
		GeminiAPIKey:          getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiBaseURL:         getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:           getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GCPProjectID:          getEnvOrDefault("GCP_PROJECT_ID", ""),
		GCPLocation:           getEnvOrDefault("GCP_LOCATION", "us-central1"),
		TesseractPath:         getEnvOrDefault("TESSERACT_PATH", "tesseract"),
		OCRLanguage:           getEnvOrDefault("OCR_LANGUAGE", "eng"),
		AllowedOrigins:        getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ExtractionFailureMode: parseFailureMode(getEnvOrDefault("EXTRACTION_FAILURE_MODE", string(domain.FailureModeSurface))),
		GenerationTimeout:     getEnvDurationOrDefault("GENERATION_TIMEOUT", 0),
		ShutdownTimeout:       getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetMaxFileSize returns the maximum allowed upload size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogFormat returns "text" or "json"
func (c *AppConfig) GetLogFormat() string {
	return c.LogFormat
}

// GetGeminiAPIKey returns the Gemini API key
func (c *AppConfig) GetGeminiAPIKey() string {
	return c.GeminiAPIKey
}

// GetGeminiBaseURL returns the Gemini API base URL
func (c *AppConfig) GetGeminiBaseURL() string {
	return c.GeminiBaseURL
}

// GetGeminiModel returns the model used for answers
func (c *AppConfig) GetGeminiModel() string {
	return c.GeminiModel
}

// GetGCPProjectID returns the Vertex AI project
func (c *AppConfig) GetGCPProjectID() string {
	return c.GCPProjectID
}

// GetGCPLocation returns the Vertex AI region
func (c *AppConfig) GetGCPLocation() string {
	return c.GCPLocation
}

// GetTesseractPath returns the OCR binary location
func (c *AppConfig) GetTesseractPath() string {
	return c.TesseractPath
}

// GetOCRLanguage returns the Tesseract language code
func (c *AppConfig) GetOCRLanguage() string {
	return c.OCRLanguage
}

// GetAllowedOrigins returns the CORS origin allow-list
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// GetExtractionFailureMode returns how adapter failures are reported
func (c *AppConfig) GetExtractionFailureMode() domain.ExtractionFailureMode {
	return c.ExtractionFailureMode
}

// GetGenerationTimeout returns the model call deadline, zero for none
func (c *AppConfig) GetGenerationTimeout() time.Duration {
	return c.GenerationTimeout
}

// GetShutdownTimeout returns how long in-flight requests get on shutdown
func (c *AppConfig) GetShutdownTimeout() time.Duration {
	return c.ShutdownTimeout
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func parseFailureMode(mode string) domain.ExtractionFailureMode {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case string(domain.FailureModeAsText), "legacy":
		return domain.FailureModeAsText
	default:
		return domain.FailureModeSurface
	}
}
