// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package address resolves Austrian postal addresses for a coordinate and decides whether the
// street or place tag has to be used for the resolved name.
package address

import (
	"fmt"
)

// Country is the value of the addr:country tag for every resolved address
const Country = "AT"

// Tag keys written to the selected object
const (
	TagCountry     = "addr:country"
	TagCity        = "addr:city"
	TagPostcode    = "addr:postcode"
	TagStreet      = "addr:street"
	TagPlace       = "addr:place"
	TagHouseNumber = "addr:housenumber"
	TagSourceDate  = "at_bev:addr_date"

	// TagChangesetSource is the changeset tag that receives the copyright notice
	TagChangesetSource = "source"
)

// Type classifies the name of an address as street or place
type Type string

const (
	TypeStreet Type = "street"
	TypePlace  Type = "place"
)

// AllowedTypes lists the types a user may choose from
var AllowedTypes = []Type{TypeStreet, TypePlace}

// ParseType returns the Type for val and true, if val is one of the allowed types
func ParseType(val string) (Type, bool) {
	switch Type(val) {
	case TypeStreet, TypePlace:
		return Type(val), true
	default:
		return "", false
	}
}

// Valid returns true if t is one of the allowed types
func (t Type) Valid() bool {
	_, ok := ParseType(string(t))
	return ok
}

// TagKey returns the tag key used for the name of the address
func (t Type) TagKey() string {
	if t == TypePlace {
		return TagPlace
	}
	return TagStreet
}

// Resolved is a finalized address for a single object
type Resolved struct {
	City          string
	Postcode      string
	Type          Type
	StreetOrPlace string
	HouseNumber   string
	// Municipality is kept for reporting, the city tag may hold the locality instead
	Municipality string

	SourceDate      string
	SourceCopyright string
	// Distance between the object center and the address point in meters
	Distance float64
}

// Tags returns the tags to set on the object. Exactly one of addr:street and addr:place is
// present.
func (r Resolved) Tags() map[string]string {
	return map[string]string{
		TagCountry:     Country,
		TagCity:        r.City,
		TagPostcode:    r.Postcode,
		r.Type.TagKey(): r.StreetOrPlace,
		TagHouseNumber: r.HouseNumber,
		TagSourceDate:  r.SourceDate,
	}
}

// RemovedTags returns the tag keys that must be removed from the object before Tags are
// applied, so that street and place never coexist.
func (r Resolved) RemovedTags() []string {
	if r.Type == TypePlace {
		return []string{TagStreet}
	}
	return []string{TagPlace}
}

// String returns a one-line representation like "Feldgasse 12, 2203 Großebersdorf (AT)"
func (r Resolved) String() string {
	return fmt.Sprintf("%s %s, %s %s (%s)", r.StreetOrPlace, r.HouseNumber, r.Postcode, r.Municipality,
		Country)
}
