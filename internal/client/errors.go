package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// NetworkError wraps a transport-level failure reaching an upstream
// service, as opposed to an error response the service itself returned.
type NetworkError struct {
	Service string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Service, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError checks if error is NetworkError
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// UpstreamError is a non-success response returned by an upstream service.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// IsUpstreamError checks if error is UpstreamError
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// readErrorText drains up to a few KB of an error response body for use in
// error messages.
func readErrorText(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	trimmed := bytes.TrimSpace(data)
	if err != nil || len(trimmed) == 0 {
		return "unknown error"
	}
	return string(trimmed)
}
