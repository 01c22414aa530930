package providers

import "fmt"

// ErrorType classifies provider API failures.
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeContentType ErrorType = "content_type"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error is a provider API error with type information.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s error (code %d): %s", e.Type, e.Code, e.Message)
}
