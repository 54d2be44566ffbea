package ollama

import (
	"fmt"
	"time"
)

// connectError signals that the Ollama endpoint could not be reached.
// The message carries the remediation hint shown to CLI users.
type connectError struct {
	url string
	err error
}

func (e connectError) Error() string {
	return fmt.Sprintf("cannot connect to Ollama at %s: %v (try: ollama serve)", e.url, e.err)
}

func (e connectError) Unwrap() error { return e.err }

// IsConnect reports whether err indicates an unreachable endpoint.
func IsConnect(err error) bool {
	_, ok := err.(connectError)
	return ok
}

// timeoutError signals that the request exceeded the configured deadline.
type timeoutError struct{ d time.Duration }

func (e timeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.d)
}

// IsTimeout reports whether err indicates a request deadline was hit.
func IsTimeout(err error) bool {
	_, ok := err.(timeoutError)
	return ok
}

// modelNotFoundError signals the server rejected the requested model name.
type modelNotFoundError struct{ model string }

func (e modelNotFoundError) Error() string {
	return fmt.Sprintf("model %q not found (run 'list' or pull the model)", e.model)
}

// ErrModelNotFound constructs a modelNotFoundError.
func ErrModelNotFound(model string) error { return modelNotFoundError{model: model} }

// IsModelNotFound reports whether the error indicates a missing model.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}

// statusError carries an unexpected upstream HTTP status.
type statusError struct {
	code int
	msg  string
}

func (e statusError) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("ollama returned status %d", e.code)
	}
	return fmt.Sprintf("ollama returned status %d: %s", e.code, e.msg)
}

// StatusCode exposes the upstream status for HTTP-layer mapping.
func (e statusError) StatusCode() int { return e.code }
