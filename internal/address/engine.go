// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package address

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/austria-address-helper/internal/geo"
	"github.com/wneessen/austria-address-helper/internal/geocode"
	"github.com/wneessen/austria-address-helper/internal/logger"
)

// Engine resolves the address of a coordinate
type Engine struct {
	coder    geocode.Geocoder
	resolver *Resolver
	logger   *logger.Logger
	distance uint
	limit    uint
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithSearchRadius sets the search radius in meters around the coordinate
func WithSearchRadius(meters uint) EngineOption {
	return func(e *Engine) {
		if meters > 0 {
			e.distance = meters
		}
	}
}

// WithLimit sets the number of candidates requested from the geocoder
func WithLimit(limit uint) EngineOption {
	return func(e *Engine) {
		if limit > 0 {
			e.limit = limit
		}
	}
}

func NewEngine(coder geocode.Geocoder, resolver *Resolver, log *logger.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		coder:    coder,
		resolver: resolver,
		logger:   log,
		distance: geocode.DefaultDistance,
		limit:    geocode.DefaultLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve fetches the best matching address for center. It returns ErrNoResult if the
// service found nothing and ErrCancelled if the address type remained undecided. Geocoder
// errors are wrapped and keep their type.
func (e *Engine) Resolve(ctx context.Context, center geo.Coordinate) (Resolved, error) {
	query := geocode.Query{Coordinate: center, Distance: e.distance, Limit: e.limit}
	response, err := e.coder.Reverse(ctx, query)
	if err != nil {
		return Resolved{}, fmt.Errorf("failed to reverse geocode %s: %w", center, err)
	}

	candidate, ok := response.Best()
	if !ok {
		e.logger.Debug("no address candidates found", slog.String("coordinate", center.String()))
		return Resolved{}, ErrNoResult
	}

	// Some municipalities contain the same street and postcode in several localities. The
	// service flags those and the locality has to be used as city to keep the address unique.
	city := candidate.Municipality
	if candidate.MunicipalityHasAmbiguousAddresses {
		city = candidate.Locality
	}

	addrType, ok := ParseType(candidate.AddressType)
	if !ok {
		addrType, err = e.resolver.Resolve(ctx, Query{
			StreetOrPlace: candidate.StreetOrPlace,
			HouseNumber:   candidate.HouseNumber,
			Postcode:      candidate.Postcode,
			Municipality:  candidate.Municipality,
		})
		if err != nil {
			return Resolved{}, err
		}
	}

	resolved := Resolved{
		City:            city,
		Postcode:        candidate.Postcode,
		Type:            addrType,
		StreetOrPlace:   candidate.StreetOrPlace,
		HouseNumber:     candidate.HouseNumber,
		Municipality:    candidate.Municipality,
		SourceDate:      response.AddressDate,
		SourceCopyright: response.Copyright,
		Distance:        candidate.Distance,
	}
	e.logger.Debug("address successfully resolved", slog.String("address", resolved.String()),
		slog.Float64("distance", resolved.Distance), slog.String("provider", e.coder.Name()))
	return resolved, nil
}
