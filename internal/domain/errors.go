package domain

import (
	"fmt"
)

// ConfigError reports invalid or missing user configuration. It is always
// raised before any request reaches the API.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// HTTPError is returned when the API answers with a non-2xx status.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Body)
}

// NetworkError wraps connection failures and timeouts.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedResponseError is returned when a list endpoint does not answer
// with a JSON array. Snippet holds the start of the body.
type MalformedResponseError struct {
	Path    string
	Snippet string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("unexpected response for %s: %s...", e.Path, e.Snippet)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
