// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv = "ATADDRHELPER"

	DefaultReason       = "Austria Address Helper"
	DefaultSourcePrefix = "Adressdaten: "
	DefaultCacheTTL     = time.Minute * 10
)

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Geocoder struct {
		Endpoint string `fig:"endpoint" default:"https://bev-reverse-geocoder.thomaskonrad.at/reverse-geocode/json"`
		// Search radius around the object center in meters
		Distance uint          `fig:"distance" default:"30"`
		Limit    uint          `fig:"limit" default:"1"`
		Timeout  time.Duration `fig:"timeout" default:"10s"`
		// Allowed value: > 0
		RequestsPerSecond float64 `fig:"requests_per_second" default:"1"`
		Reason            string  `fig:"reason"`
		// Responses are remembered for the session, 0 disables the cache. Unset means
		// DefaultCacheTTL.
		CacheTTL *time.Duration `fig:"cache_ttl"`
	} `fig:"geocoder"`

	Changeset struct {
		SourcePrefix string `fig:"source_prefix"`
	} `fig:"changeset"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	endpoint, err := url.Parse(c.Geocoder.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid geocoder endpoint: %w", err)
	}
	if endpoint.Scheme != "https" && endpoint.Scheme != "http" || endpoint.Host == "" {
		return fmt.Errorf("invalid geocoder endpoint: %s", c.Geocoder.Endpoint)
	}
	if c.Geocoder.Distance < 1 {
		return fmt.Errorf("invalid geocoder distance: %d", c.Geocoder.Distance)
	}
	if c.Geocoder.Limit < 1 {
		return fmt.Errorf("invalid geocoder limit: %d", c.Geocoder.Limit)
	}
	if c.Geocoder.RequestsPerSecond <= 0 {
		return fmt.Errorf("invalid geocoder requests per second: %f", c.Geocoder.RequestsPerSecond)
	}
	if c.Geocoder.Timeout <= 0 {
		return fmt.Errorf("invalid geocoder timeout: %s", c.Geocoder.Timeout)
	}
	if c.Geocoder.CacheTTL == nil {
		ttl := DefaultCacheTTL
		c.Geocoder.CacheTTL = &ttl
	}
	if *c.Geocoder.CacheTTL < 0 {
		return fmt.Errorf("invalid geocoder cache TTL: %s", *c.Geocoder.CacheTTL)
	}
	if c.Geocoder.Reason == "" {
		c.Geocoder.Reason = DefaultReason
	}
	if c.Changeset.SourcePrefix == "" {
		c.Changeset.SourcePrefix = DefaultSourcePrefix
	}

	return nil
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
