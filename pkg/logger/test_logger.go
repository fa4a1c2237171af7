package logger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// LogMessage is one line captured by TestLogger
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// TestLogger captures log lines in memory so tests can assert on what a
// run logged (e.g. that a failed cover is warned about, not errored).
type TestLogger struct {
	mu       *sync.Mutex
	fields   map[string]interface{}
	messages *[]LogMessage
}

// NewTestLogger creates a capturing logger
func NewTestLogger() *TestLogger {
	msgs := make([]LogMessage, 0)
	return &TestLogger{
		mu:       &sync.Mutex{},
		fields:   make(map[string]interface{}),
		messages: &msgs,
	}
}

func (l *TestLogger) capture(level, msg string, extra map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(map[string]interface{}, len(l.fields)+len(extra))
	for k, v := range l.fields {
		fields[k] = v
	}
	for k, v := range extra {
		fields[k] = v
	}
	*l.messages = append(*l.messages, LogMessage{Level: level, Message: msg, Fields: fields})
}

// derive returns a child logger sharing the capture buffer with extra fields
func (l *TestLogger) derive(extra map[string]interface{}) *TestLogger {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(map[string]interface{}, len(l.fields)+len(extra))
	for k, v := range l.fields {
		fields[k] = v
	}
	for k, v := range extra {
		fields[k] = v
	}
	return &TestLogger{mu: l.mu, fields: fields, messages: l.messages}
}

func (l *TestLogger) Debug(msg string) { l.capture("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.capture("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.capture("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.capture("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.capture("FATAL", msg, nil) }

func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.derive(map[string]interface{}{key: value})
}

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	return l.derive(fields)
}

func (l *TestLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.derive(map[string]interface{}{"error": err.Error()})
}

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.capture("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.capture("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.capture("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.capture("ERROR", msg, fields)
}

func (l *TestLogger) GetZerolog() *zerolog.Logger { return nil }

// GetMessages returns a copy of everything logged so far
func (l *TestLogger) GetMessages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LogMessage, len(*l.messages))
	copy(out, *l.messages)
	return out
}

// GetMessagesByLevel returns the captured messages at the given level
func (l *TestLogger) GetMessagesByLevel(level string) []LogMessage {
	var out []LogMessage
	for _, m := range l.GetMessages() {
		if m.Level == strings.ToUpper(level) {
			out = append(out, m)
		}
	}
	return out
}

// HasMessage reports whether any captured message contains the given text
func (l *TestLogger) HasMessage(text string) bool {
	for _, m := range l.GetMessages() {
		if strings.Contains(m.Message, text) {
			return true
		}
	}
	return false
}

// HasError reports whether anything was logged at error level or above
func (l *TestLogger) HasError() bool {
	return len(l.GetMessagesByLevel("ERROR"))+len(l.GetMessagesByLevel("FATAL")) > 0
}

// String renders the captured log for test failure output
func (l *TestLogger) String() string {
	var b strings.Builder
	for _, m := range l.GetMessages() {
		fmt.Fprintf(&b, "%s %s %v\n", m.Level, m.Message, m.Fields)
	}
	return b.String()
}
