// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geo

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
)

// DegreesPrecision is the number of decimal places used when formatting degrees
const DegreesPrecision = 7

// Coordinate represents a WGS84 (EPSG:4326) geographic coordinate in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// FromPoint converts an orb.Point (lon, lat) into a Coordinate
func FromPoint(p orb.Point) Coordinate {
	return Coordinate{Lat: p.Lat(), Lon: p.Lon()}
}

// Point returns the coordinate as orb.Point
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// Valid checks if the coordinate is valid according to the EPSG logic
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// LatString returns the latitude formatted as decimal degrees
func (c Coordinate) LatString() string {
	return FormatDegrees(c.Lat)
}

// LonString returns the longitude formatted as decimal degrees
func (c Coordinate) LonString() string {
	return FormatDegrees(c.Lon)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%s,%s", c.LatString(), c.LonString())
}

// FormatDegrees formats a degree value with DegreesPrecision decimal places
func FormatDegrees(val float64) string {
	return strconv.FormatFloat(val, 'f', DegreesPrecision, 64)
}
