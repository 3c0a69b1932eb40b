package plateanet

import (
	"fmt"
)

// FetchError is returned when a request could not be completed or when the
// site answered with a status outside of 2xx.
type FetchError struct {
	Method string
	Url    string
	// StatusCode is 0 when the request never got a response.
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s %s: %s", e.Method, e.Url, e.Err.Error())
	}
	return fmt.Sprintf("fetch %s %s: unexpected status %s", e.Method, e.Url, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a page or a service response does not have
// the shape that is expected of it.
type ParseError struct {
	// Step is one of catalog, identity, schedule or promotions.
	Step string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Step, e.Err.Error())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseError(step string, format string, args ...any) *ParseError {
	return &ParseError{Step: step, Err: fmt.Errorf(format, args...)}
}
