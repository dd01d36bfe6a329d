package mcptools

import (
	"context"
	"fmt"
	"sync"

	"github.com/shaharia-lab/goai/observability"
)

// LogEntry is a single message captured by MockLogger
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

type logSink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// MockLogger implements the Logger interface for testing. Loggers derived through
// WithFields, WithContext and WithErr record into the same sink as their parent.
type MockLogger struct {
	sink   *logSink
	fields map[string]interface{}
	ctx    context.Context
	err    error
}

// NewMockLogger creates a new MockLogger instance
func NewMockLogger() *MockLogger {
	return &MockLogger{
		sink:   &logSink{},
		fields: make(map[string]interface{}),
	}
}

func (m *MockLogger) record(level, msg string) {
	if m.sink == nil {
		m.sink = &logSink{}
	}
	fields := make(map[string]interface{}, len(m.fields)+1)
	for k, v := range m.fields {
		fields[k] = v
	}
	if m.err != nil {
		fields[observability.ErrorLogField] = m.err
	}
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.entries = append(m.sink.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

// message keeps only the leading message of key/value style calls.
func message(args []interface{}) string {
	if len(args) == 0 {
		return ""
	}
	return fmt.Sprint(args[0])
}

func (m *MockLogger) Debugf(format string, args ...interface{}) { m.record("debug", fmt.Sprintf(format, args...)) }
func (m *MockLogger) Infof(format string, args ...interface{})  { m.record("info", fmt.Sprintf(format, args...)) }
func (m *MockLogger) Warnf(format string, args ...interface{})  { m.record("warn", fmt.Sprintf(format, args...)) }
func (m *MockLogger) Errorf(format string, args ...interface{}) { m.record("error", fmt.Sprintf(format, args...)) }
func (m *MockLogger) Fatalf(format string, args ...interface{}) { m.record("fatal", fmt.Sprintf(format, args...)) }
func (m *MockLogger) Panicf(format string, args ...interface{}) { m.record("panic", fmt.Sprintf(format, args...)) }

func (m *MockLogger) Debug(args ...interface{}) { m.record("debug", message(args)) }
func (m *MockLogger) Info(args ...interface{})  { m.record("info", message(args)) }
func (m *MockLogger) Warn(args ...interface{})  { m.record("warn", message(args)) }
func (m *MockLogger) Error(args ...interface{}) { m.record("error", message(args)) }
func (m *MockLogger) Fatal(args ...interface{}) { m.record("fatal", message(args)) }
func (m *MockLogger) Panic(args ...interface{}) { m.record("panic", message(args)) }

func (m *MockLogger) derive() *MockLogger {
	if m.sink == nil {
		m.sink = &logSink{}
	}
	child := &MockLogger{sink: m.sink, fields: make(map[string]interface{}, len(m.fields)), ctx: m.ctx, err: m.err}
	for k, v := range m.fields {
		child.fields[k] = v
	}
	return child
}

func (m *MockLogger) WithFields(fields map[string]interface{}) observability.Logger {
	child := m.derive()
	for k, v := range fields {
		child.fields[k] = v
	}
	return child
}

func (m *MockLogger) WithContext(ctx context.Context) observability.Logger {
	child := m.derive()
	child.ctx = ctx
	return child
}

func (m *MockLogger) WithErr(err error) observability.Logger {
	child := m.derive()
	child.err = err
	return child
}

// Entries returns every entry recorded so far, optionally filtered by level.
func (m *MockLogger) Entries(level string) []LogEntry {
	if m.sink == nil {
		return nil
	}
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	var out []LogEntry
	for _, e := range m.sink.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// HasMessage reports whether a message was logged at the given level.
func (m *MockLogger) HasMessage(level, msg string) bool {
	for _, e := range m.Entries(level) {
		if e.Message == msg {
			return true
		}
	}
	return false
}
