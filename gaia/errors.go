package gaia

import "fmt"

// APIError covers non-2xx responses and bodies that do not decode into a
// JSON object. StatusCode is 0 when the failure happened after a 2xx status.
type APIError struct {
	URL        string
	StatusCode int
	Reason     string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("bad response from %s: %s", e.URL, e.Reason)
}

func (e *APIError) Unwrap() error { return e.Err }

// ConnectionError covers DNS failures, refused and reset connections.
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to %s: %s", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError is returned when the request exceeds the client timeout.
type TimeoutError struct {
	Host string
	Err  error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout connecting to %s", e.Host)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
