// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	expectEndpoint     = "https://bev-reverse-geocoder.thomaskonrad.at/reverse-geocode/json"
	expectLogLevel     = slog.LevelInfo
	expectDistance     = 30
	expectLimit        = 1
	expectTimeout      = time.Second * 10
	expectRPS          = 1.0
	expectReason       = "Austria Address Helper"
	expectSourcePrefix = "Adressdaten: "
	expectCacheTTL     = time.Minute * 10
)

func TestNew(t *testing.T) {
	t.Run("new config with all defaults set", func(t *testing.T) {
		conf, err := New()
		if err != nil {
			t.Errorf("failed to load config: %s", err)
		}
		assertDefaults(t, conf)
	})
	t.Run("env overrides defaults", func(t *testing.T) {
		t.Setenv("ATADDRHELPER_GEOCODER_DISTANCE", "50")
		t.Setenv("ATADDRHELPER_GEOCODER_REQUESTS_PER_SECOND", "0.5")
		t.Setenv("ATADDRHELPER_LOCALE", "de-AT")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Geocoder.Distance != 50 {
			t.Errorf("expected distance to be 50, got %d", conf.Geocoder.Distance)
		}
		if conf.Geocoder.RequestsPerSecond != 0.5 {
			t.Errorf("expected requests per second to be 0.5, got %f", conf.Geocoder.RequestsPerSecond)
		}
		if conf.Locale != "de-AT" {
			t.Errorf("expected locale to be de-AT, got %s", conf.Locale)
		}
	})
	t.Run("locale is taken from LC_MESSAGES", func(t *testing.T) {
		t.Setenv("LC_MESSAGES", "de_AT.UTF-8")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Locale != "de-AT" {
			t.Errorf("expected locale to be de-AT, got %s", conf.Locale)
		}
	})
	t.Run("new config with invalid values from env", func(t *testing.T) {
		t.Setenv("ATADDRHELPER_LOGLEVEL", "invalid")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate endpoint", func(t *testing.T) {
		for _, endpoint := range []string{"ftp://example.com/geocode", "https://", "http://exa mple.com/%"} {
			t.Setenv("ATADDRHELPER_GEOCODER_ENDPOINT", endpoint)
			_, err := New()
			if err == nil {
				t.Errorf("expected config with endpoint %q to fail, but didn't", endpoint)
			}
		}
	})
	t.Run("config validate distance", func(t *testing.T) {
		t.Setenv("ATADDRHELPER_GEOCODER_DISTANCE", "-1")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate requests per second", func(t *testing.T) {
		t.Setenv("ATADDRHELPER_GEOCODER_REQUESTS_PER_SECOND", "-2")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("zero cache TTL from env disables the cache", func(t *testing.T) {
		t.Setenv("ATADDRHELPER_GEOCODER_CACHE_TTL", "0s")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Geocoder.CacheTTL == nil || *conf.Geocoder.CacheTTL != 0 {
			t.Errorf("expected cache TTL to be 0s, got %v", conf.Geocoder.CacheTTL)
		}
	})
	t.Run("config validate cache TTL", func(t *testing.T) {
		t.Setenv("ATADDRHELPER_GEOCODER_CACHE_TTL", "-1m")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}

func TestNewFromFile(t *testing.T) {
	t.Run("reading config from valid file succeeds", func(t *testing.T) {
		conf, err := NewFromFile("../../etc", "config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		assertDefaults(t, conf)
	})
	t.Run("reading config from non-existent file fails", func(t *testing.T) {
		_, err := NewFromFile("../../etc", "non-existent.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("zero cache TTL from file disables the cache", func(t *testing.T) {
		dir := t.TempDir()
		content := "[geocoder]\ncache_ttl = \"0s\"\n"
		if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config file: %s", err)
		}
		conf, err := NewFromFile(dir, "config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Geocoder.CacheTTL == nil || *conf.Geocoder.CacheTTL != 0 {
			t.Errorf("expected cache TTL to be 0s, got %v", conf.Geocoder.CacheTTL)
		}
	})
	t.Run("reading invalid config file fails", func(t *testing.T) {
		_, err := NewFromFile("../../testdata", "invalid.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}

func assertDefaults(t *testing.T, conf *Config) {
	t.Helper()
	if conf.LogLevel != expectLogLevel {
		t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
	}
	if conf.Geocoder.Endpoint != expectEndpoint {
		t.Errorf("expected endpoint to be: %s, got %s", expectEndpoint, conf.Geocoder.Endpoint)
	}
	if conf.Geocoder.Distance != expectDistance {
		t.Errorf("expected distance to be: %d, got %d", expectDistance, conf.Geocoder.Distance)
	}
	if conf.Geocoder.Limit != expectLimit {
		t.Errorf("expected limit to be: %d, got %d", expectLimit, conf.Geocoder.Limit)
	}
	if conf.Geocoder.Timeout != expectTimeout {
		t.Errorf("expected timeout to be: %s, got %s", expectTimeout, conf.Geocoder.Timeout)
	}
	if conf.Geocoder.RequestsPerSecond != expectRPS {
		t.Errorf("expected requests per second to be: %f, got %f", expectRPS, conf.Geocoder.RequestsPerSecond)
	}
	if conf.Geocoder.Reason != expectReason {
		t.Errorf("expected reason to be: %s, got %s", expectReason, conf.Geocoder.Reason)
	}
	if conf.Geocoder.CacheTTL == nil || *conf.Geocoder.CacheTTL != expectCacheTTL {
		t.Errorf("expected cache TTL to be: %s, got %v", expectCacheTTL, conf.Geocoder.CacheTTL)
	}
	if conf.Changeset.SourcePrefix != expectSourcePrefix {
		t.Errorf("expected source prefix to be: %q, got %q", expectSourcePrefix, conf.Changeset.SourcePrefix)
	}
}
