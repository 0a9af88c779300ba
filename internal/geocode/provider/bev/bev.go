// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package bev

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/wneessen/austria-address-helper/internal/geocode"
	"github.com/wneessen/austria-address-helper/internal/http"
)

const (
	APIEndpoint = "https://bev-reverse-geocoder.thomaskonrad.at/reverse-geocode/json"
	APITimeout  = time.Second * 10
	// EPSG code of WGS84 decimal degrees
	EPSG = 4326
	name = "bev-reverse-geocoder"
)

// BEV is a client for the reverse geocoder on top of the address register of the
// Austrian Federal Office of Metrology and Surveying (BEV)
type BEV struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	timeout  time.Duration
}

// Response is the JSON envelope of the reverse geocoding API. All fields are pointers
// so that absent fields can be told apart from zero values.
type Response struct {
	Results     *[]Result `json:"results"`
	AddressDate *string   `json:"address_date"`
	Copyright   *string   `json:"copyright"`
}

type Result struct {
	Municipality                      *string  `json:"municipality"`
	Locality                          *string  `json:"locality"`
	Postcode                          *string  `json:"postcode"`
	Street                            *string  `json:"street"`
	HouseNumber                       *string  `json:"house_number"`
	AddressType                       *string  `json:"address_type"`
	MunicipalityHasAmbiguousAddresses *bool    `json:"municipality_has_ambiguous_addresses"`
	Distance                          *float64 `json:"distance"`
}

// Option configures the BEV client
type Option func(*BEV)

// WithEndpoint overrides the API endpoint
func WithEndpoint(endpoint string) Option {
	return func(b *BEV) {
		if endpoint != "" {
			b.endpoint = endpoint
		}
	}
}

// WithRateLimit limits the number of API requests per second. A non-positive value
// disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(b *BEV) {
		if perSecond <= 0 {
			b.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		b.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithTimeout sets the timeout for a single API request
func WithTimeout(timeout time.Duration) Option {
	return func(b *BEV) {
		if timeout > 0 {
			b.timeout = timeout
		}
	}
}

func New(client *http.Client, opts ...Option) *BEV {
	b := &BEV{
		endpoint: APIEndpoint,
		http:     client,
		limiter:  rate.NewLimiter(rate.Inf, 1),
		timeout:  APITimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *BEV) Name() string {
	return name
}

// Reverse looks up the addresses closest to the query coordinate. Failures to reach the API
// are returned as *geocode.TransportError, missing fields in the answer as
// *geocode.MalformedResponseError.
func (b *BEV) Reverse(ctx context.Context, q geocode.Query) (geocode.Response, error) {
	if !q.Coordinate.Valid() {
		return geocode.Response{}, fmt.Errorf("invalid coordinate: %s", q.Coordinate)
	}
	if q.Distance == 0 {
		q.Distance = geocode.DefaultDistance
	}
	if q.Limit == 0 {
		q.Limit = geocode.DefaultLimit
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return geocode.Response{}, &geocode.TransportError{Provider: name, Err: err}
	}

	query := url.Values{}
	query.Set("lat", q.Coordinate.LatString())
	query.Set("lon", q.Coordinate.LonString())
	query.Set("distance", strconv.FormatUint(uint64(q.Distance), 10))
	query.Set("limit", strconv.FormatUint(uint64(q.Limit), 10))
	query.Set("epsg", strconv.Itoa(EPSG))

	var result Response
	if _, err := b.http.GetWithTimeout(ctx, b.endpoint, &result, query, nil, b.timeout); err != nil {
		return geocode.Response{}, &geocode.TransportError{
			Provider: name,
			Err:      fmt.Errorf("failed to fetch reverse address details from BEV API: %w", err),
		}
	}

	return result.toResponse()
}

func (r Response) toResponse() (geocode.Response, error) {
	if r.Results == nil {
		return geocode.Response{}, malformed("results")
	}
	if r.AddressDate == nil {
		return geocode.Response{}, malformed("address_date")
	}
	if r.Copyright == nil {
		return geocode.Response{}, malformed("copyright")
	}

	response := geocode.Response{
		Candidates:  make([]geocode.Candidate, 0, len(*r.Results)),
		AddressDate: *r.AddressDate,
		Copyright:   *r.Copyright,
	}
	for i, res := range *r.Results {
		candidate, err := res.toCandidate(fmt.Sprintf("results[%d]", i))
		if err != nil {
			return geocode.Response{}, err
		}
		response.Candidates = append(response.Candidates, candidate)
	}
	return response, nil
}

func (r Result) toCandidate(path string) (geocode.Candidate, error) {
	strFields := []struct {
		field string
		val   *string
	}{
		{"municipality", r.Municipality},
		{"locality", r.Locality},
		{"postcode", r.Postcode},
		{"street", r.Street},
		{"house_number", r.HouseNumber},
		{"address_type", r.AddressType},
	}
	for _, f := range strFields {
		if f.val == nil {
			return geocode.Candidate{}, malformed(path + "." + f.field)
		}
	}
	if r.MunicipalityHasAmbiguousAddresses == nil {
		return geocode.Candidate{}, malformed(path + ".municipality_has_ambiguous_addresses")
	}
	if r.Distance == nil {
		return geocode.Candidate{}, malformed(path + ".distance")
	}
	if *r.Distance < 0 {
		return geocode.Candidate{}, &geocode.MalformedResponseError{
			Provider: name, Field: path + ".distance", Reason: "negative distance",
		}
	}

	return geocode.Candidate{
		Municipality:                      *r.Municipality,
		Locality:                          *r.Locality,
		Postcode:                          *r.Postcode,
		StreetOrPlace:                     *r.Street,
		HouseNumber:                       *r.HouseNumber,
		AddressType:                       *r.AddressType,
		Distance:                          *r.Distance,
		MunicipalityHasAmbiguousAddresses: *r.MunicipalityHasAmbiguousAddresses,
	}, nil
}

func malformed(field string) *geocode.MalformedResponseError {
	return &geocode.MalformedResponseError{Provider: name, Field: field}
}
