package domain

import "fmt"

// NetworkError reports a connection failure or non-2xx response from the
// DONKI API. StatusCode is 0 when the request never completed.
type NetworkError struct {
	Catalog    Catalog
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Catalog, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Catalog, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a malformed API payload: invalid JSON, a missing
// required field, or an unparseable timestamp or magnitude.
type ParseError struct {
	Catalog Catalog
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response: %v", e.Catalog, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RenderError reports a chart that could not be produced, most commonly an
// empty aggregate without the allow-empty option set.
type RenderError struct {
	Chart string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %q: %v", e.Chart, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
