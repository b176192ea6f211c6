package ai

import (
	"errors"
	"fmt"
)

// EndpointError describes a failed request to an embedding endpoint.
type EndpointError struct {
	// Endpoint is the URL the request was sent to.
	Endpoint string

	// StatusCode is the HTTP status of the response, or 0 if none was received.
	StatusCode int

	// Body is the textual error payload returned by the endpoint, if any.
	Body string

	// Cause is the underlying client error.
	Cause error
}

func (e *EndpointError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("embedding endpoint %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("embedding endpoint %s returned status %d", e.Endpoint, e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("embedding endpoint %s: %v", e.Endpoint, e.Cause)
	default:
		return fmt.Sprintf("embedding endpoint %s: request failed", e.Endpoint)
	}
}

func (e *EndpointError) Unwrap() error { return e.Cause }

// AsEndpointError extracts an *EndpointError from err's chain.
func AsEndpointError(err error) (*EndpointError, bool) {
	var ee *EndpointError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}
