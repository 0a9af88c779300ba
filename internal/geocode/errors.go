// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"fmt"
)

// TransportError is returned when the geocoding service could not be reached, answered
// with an error status or returned a body that is not valid JSON.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %s", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when the geocoding service answered with valid JSON
// that lacks a required field or carries an invalid value.
type MalformedResponseError struct {
	Provider string
	// Field is the JSON path of the offending field, e.g. "results[0].postcode"
	Field  string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing required field"
	}
	return fmt.Sprintf("%s: malformed response: %s: %s", e.Provider, e.Field, reason)
}
