// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"math"
	"sync"
	"time"
)

// coordPrecision matches the precision coordinates are sent to the service with
const coordPrecision = 1e-7

type cacheKey struct {
	Provider string
	LatQ     int64
	LonQ     int64
	Distance uint
	Limit    uint
}

type cacheEntry struct {
	Response Response
	Expiry   time.Time
}

// CachedGeocoder remembers responses of the wrapped Geocoder, so that adding the address
// to the same object again does not query the service twice. Failed queries are never
// cached.
type CachedGeocoder struct {
	coder   Geocoder
	ttlHit  time.Duration
	ttlMiss time.Duration

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

// NewCachedGeocoder wraps coder. Responses with candidates are kept for ttlHit, empty
// responses for ttlMiss.
func NewCachedGeocoder(coder Geocoder, ttlHit, ttlMiss time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		coder:   coder,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
		cache:   make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedGeocoder) Name() string {
	return "geocoder cache using " + c.coder.Name()
}

func (c *CachedGeocoder) Reverse(ctx context.Context, query Query) (Response, error) {
	key := newKey(c.coder.Name(), query)

	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.Expiry) {
		return entry.Response, nil
	}

	resp, err := c.coder.Reverse(ctx, query)
	if err != nil {
		return resp, err
	}

	ttl := c.ttlHit
	if !resp.Found() {
		ttl = c.ttlMiss
	}
	if ttl <= 0 {
		return resp, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{
		Response: resp,
		Expiry:   time.Now().Add(ttl),
	}

	return resp, nil
}

func quantizeCoord(val float64) int64 {
	return int64(math.Round(val / coordPrecision))
}

func newKey(provider string, query Query) cacheKey {
	return cacheKey{
		Provider: provider,
		LatQ:     quantizeCoord(query.Coordinate.Lat),
		LonQ:     quantizeCoord(query.Coordinate.Lon),
		Distance: query.Distance,
		Limit:    query.Limit,
	}
}
