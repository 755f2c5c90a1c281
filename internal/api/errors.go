package api

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned before any network I/O when an authenticated call
// is attempted without a token. Callers should redirect to login; this is a
// precondition failure, not a network failure.
var ErrNoToken = errors.New("not authenticated: no token in session")

// RequestError is a non-2xx HTTP response, carrying the status code and the
// server-provided message.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// NetworkError is a request that never completed.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s never completed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SchemaError is a 2xx response whose payload does not match the expected
// shape. Malformed payloads are rejected at the boundary instead of
// propagating zero values into the stores.
type SchemaError struct {
	Endpoint string
	Reason   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.Endpoint, e.Reason)
}
