package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// NetworkError means no response was received at all: DNS failure,
// connection refused, or a transport timeout.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx server response carrying the parsed error envelope.
type HTTPError struct {
	// Status is the HTTP status code.
	Status int
	// Code is the machine-readable error code from the envelope, if any.
	Code string
	// Message is the human-readable message from the envelope.
	Message string
	// Details carries the optional structured details payload verbatim.
	Details json.RawMessage
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d", e.Status)
}

// ParseError means the server responded 2xx but the body was not the
// expected JSON shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("invalid response: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is a client-side schema failure. It never reaches the wire.
type ValidationError struct {
	// Fields maps field names to messages.
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// ErrorInfo is the normalized error shape stores expose to the UI.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Status  int    `json:"status,omitempty"`
}

// Normalize converts any error from the client into an ErrorInfo,
// preserving the code and status for programmatic handling.
func Normalize(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		msg := httpErr.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", httpErr.Status)
		}
		return &ErrorInfo{Message: msg, Code: httpErr.Code, Status: httpErr.Status}
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return &ErrorInfo{Message: "network unavailable, please try again", Code: "network_error"}
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return &ErrorInfo{Message: "unexpected server response", Code: "parse_error"}
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return &ErrorInfo{Message: "some fields are invalid", Code: "validation_error"}
	}
	return &ErrorInfo{Message: err.Error()}
}

// IsStatus reports whether err is an HTTPError with the given status.
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == status
}
