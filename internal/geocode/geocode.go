// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"

	"github.com/wneessen/austria-address-helper/internal/geo"
)

const (
	// DefaultDistance is the default search radius around the query point in meters
	DefaultDistance = 30
	// DefaultLimit is the default number of candidates requested
	DefaultLimit = 1
)

// Candidate is a single address returned by the reverse geocoder
type Candidate struct {
	Municipality string
	Locality     string
	Postcode     string
	// StreetOrPlace holds the name of either the street or the place, depending on AddressType
	StreetOrPlace string
	HouseNumber   string
	// AddressType is "street", "place" or anything else if the service could not tell
	AddressType string
	// Distance between the query point and the address point in meters
	Distance float64
	// MunicipalityHasAmbiguousAddresses is set by the service if street and postcode
	// combinations repeat across localities of the municipality
	MunicipalityHasAmbiguousAddresses bool
}

// Response is the result of a reverse geocoding query. Candidates are ordered by the
// service, the first one being the best match.
type Response struct {
	Candidates  []Candidate
	AddressDate string
	Copyright   string
}

// Found returns true if the response holds at least one candidate
func (r Response) Found() bool {
	return len(r.Candidates) > 0
}

// Best returns the best matching candidate
func (r Response) Best() (Candidate, bool) {
	if !r.Found() {
		return Candidate{}, false
	}
	return r.Candidates[0], true
}

// Query holds the parameters of a reverse geocoding request
type Query struct {
	Coordinate geo.Coordinate
	// Distance is the search radius in meters
	Distance uint
	Limit    uint
}

// NewQuery returns a Query for coords with the default radius and limit
func NewQuery(coords geo.Coordinate) Query {
	return Query{
		Coordinate: coords,
		Distance:   DefaultDistance,
		Limit:      DefaultLimit,
	}
}

type Geocoder interface {
	Name() string
	Reverse(ctx context.Context, query Query) (Response, error)
}
