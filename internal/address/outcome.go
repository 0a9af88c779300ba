// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package address

import (
	"errors"
)

var (
	// ErrNoResult is returned if the geocoding service found no address near the object
	ErrNoResult = errors.New("no address found")
	// ErrCancelled is returned if the user declined to choose an address type
	ErrCancelled = errors.New("no address type selected")
)

// Outcome classifies the result of a resolution for reporting
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNoResult
	OutcomeCancelled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNoResult:
		return "no result"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Classify maps the error returned by Engine.Resolve to an Outcome
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrNoResult):
		return OutcomeNoResult
	case errors.Is(err, ErrCancelled):
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}
