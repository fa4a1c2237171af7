package errors

import "fmt"

// ErrorType classifies failures by where they occur in a run
type ErrorType string

const (
	ErrorTypeDiscovery ErrorType = "discovery"
	ErrorTypeFetch     ErrorType = "fetch"
	ErrorTypeWrite     ErrorType = "write"
	ErrorTypeRecord    ErrorType = "record"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Error carries the failure class alongside the message. Code holds the
// HTTP status for fetch failures and is zero otherwise.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error.
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Newf creates a typed error with a formatted message.
func Newf(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// IsFatal reports whether an error type aborts the whole run. Per-resource
// fetch and write failures are folded into the summary; losing the
// completion record or having nothing to download cannot be recovered from.
func IsFatal(t ErrorType) bool {
	switch t {
	case ErrorTypeRecord, ErrorTypeDiscovery:
		return true
	default:
		return false
	}
}
