package api

import "fmt"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

// ArgumentError is returned, without issuing a request, when a required
// argument is missing or out of range.
type ArgumentError struct {
	Operation string
	Argument  string
	Reason    string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Operation, e.Argument, e.Reason)
}

// SchemaError is returned when a response body does not match the expected shape.
type SchemaError struct {
	URL    string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed response: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: malformed response: %s", e.URL, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
