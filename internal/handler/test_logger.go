package handler

import (
	"sync"

	"document-qa-server/internal/domain"
)

// Mock logger used by handler package tests.
type MockHandlerLogger struct{}

func NewMockHandlerLogger() domain.Logger {
	return &MockHandlerLogger{}
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})                {}
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{})               {}
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})                {}

// recordingLogger keeps "level: msg" lines for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+": "+msg)
}

func (l *recordingLogger) Info(msg string, fields ...interface{})             { l.record("info", msg) }
func (l *recordingLogger) Error(msg string, err error, fields ...interface{}) { l.record("error", msg) }
func (l *recordingLogger) Debug(msg string, fields ...interface{})            { l.record("debug", msg) }
func (l *recordingLogger) Warn(msg string, fields ...interface{})             { l.record("warn", msg) }

func (l *recordingLogger) has(entry string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e == entry {
			return true
		}
	}
	return false
}
