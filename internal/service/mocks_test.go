package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"document-qa-server/internal/domain"
)

type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) record(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, line)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.record("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	if err != nil {
		msg += " - " + err.Error()
	}
	m.record("ERROR: " + msg)
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.record("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.record("WARN: " + msg)
}

// MockGenerator records the last prompt and returns a canned answer.
type MockGenerator struct {
	answer     string
	err        error
	calls      int
	lastPrompt string
	sawCtx     context.Context
}

func (m *MockGenerator) Name() string { return "mock" }

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.sawCtx = ctx
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

// stubExtractor returns fixed text or a fixed error.
type stubExtractor struct {
	text  string
	err   error
	panic interface{}
	calls int
}

func (s *stubExtractor) ExtractText(_ context.Context, _ []byte) (string, error) {
	s.calls++
	if s.panic != nil {
		panic(s.panic)
	}
	return s.text, s.err
}

var errStub = errors.New("stub failure")

// testConfig satisfies domain.Config with fixed values.
type testConfig struct {
	tesseractPath string
	failureMode   domain.ExtractionFailureMode
}

func (c testConfig) GetServerPort() string                  { return "0" }
func (c testConfig) GetMaxFileSize() int64                  { return 50 << 20 }
func (c testConfig) GetLogLevel() string                    { return "debug" }
func (c testConfig) GetLogFormat() string                   { return "text" }
func (c testConfig) GetGeminiAPIKey() string                { return "" }
func (c testConfig) GetGeminiBaseURL() string               { return "" }
func (c testConfig) GetGeminiModel() string                 { return "gemini-2.0-flash" }
func (c testConfig) GetGCPProjectID() string                { return "" }
func (c testConfig) GetGCPLocation() string                 { return "" }
func (c testConfig) GetTesseractPath() string               { return c.tesseractPath }
func (c testConfig) GetOCRLanguage() string                 { return "eng" }
func (c testConfig) GetAllowedOrigins() []string            { return []string{"*"} }
func (c testConfig) GetGenerationTimeout() time.Duration    { return 0 }
func (c testConfig) GetShutdownTimeout() time.Duration      { return time.Second }
func (c testConfig) GetExtractionFailureMode() domain.ExtractionFailureMode {
	return c.failureMode
}
