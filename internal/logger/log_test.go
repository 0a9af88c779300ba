// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("new logger honors the level", func(t *testing.T) {
		l := New(slog.LevelWarn)
		if l == nil {
			t.Fatal("expected logger to be non-nil")
		}
		if l.Enabled(t.Context(), slog.LevelInfo) {
			t.Error("expected info level to be disabled")
		}
		if !l.Enabled(t.Context(), slog.LevelWarn) {
			t.Error("expected warn level to be enabled")
		}
	})
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level slog.Level
		lines int
	}{
		{slog.LevelDebug, 4},
		{slog.LevelInfo, 3},
		{slog.LevelWarn, 2},
		{slog.LevelError, 1},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("level %s writes %d records", tc.level, tc.lines), func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			l := NewLogger(tc.level, buf)
			l.Debug("resolving address")
			l.Info("address added")
			l.Warn("ambiguous municipality")
			l.Error("geocoder unreachable")

			got := strings.Count(buf.String(), "\n")
			if got != tc.lines {
				t.Errorf("expected %d log records, got %d: %q", tc.lines, got, buf.String())
			}
			if !strings.Contains(buf.String(), `msg="geocoder unreachable"`) {
				t.Errorf("expected error record to be logged, got %q", buf.String())
			}
		})
	}
}

func TestErr(t *testing.T) {
	t.Run("error attribute carries the message", func(t *testing.T) {
		attr := Err(errors.New("connection refused"))
		if attr.Key != "error" {
			t.Errorf("expected attribute key to be error, got %s", attr.Key)
		}

		buf := bytes.NewBuffer(nil)
		NewLogger(slog.LevelDebug, buf).Error("failed to resolve address", attr)
		if !strings.Contains(buf.String(), `error="connection refused"`) {
			t.Errorf("expected error attribute in log record, got %q", buf.String())
		}
	})
}
