// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/vorlif/spreak"

	"github.com/wneessen/austria-address-helper/internal/address"
	"github.com/wneessen/austria-address-helper/internal/i18n"
)

var testQuery = address.Query{
	StreetOrPlace: "Judenplatz",
	HouseNumber:   "8",
	Postcode:      "1010",
	Municipality:  "Wien",
}

func TestPrompt_Decide(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantType     address.Type
		wantRemember bool
		wantErr      error
	}{
		{"choose street by number", "1\n\n", address.TypeStreet, false, nil},
		{"choose place by number and remember", "2\ny\n", address.TypePlace, true, nil},
		{"choose place by name", "Place\nno\n", address.TypePlace, false, nil},
		{"choose street by name and remember with yes", " street \nYES\n", address.TypeStreet, true, nil},
		{"missing remember answer means no", "2\n", address.TypePlace, false, nil},
		{"invalid choice is passed on", "square\n\n", address.Type("square"), false, nil},
		{"out of range number is passed on", "3\n\n", address.Type("3"), false, nil},
		{"empty answer cancels", "\n", "", false, address.ErrCancelled},
		{"end of input cancels", "", "", false, address.ErrCancelled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := bytes.NewBuffer(nil)
			p := New(strings.NewReader(tc.input), out, testLocalizer(t, "en"))
			decision, err := p.Decide(t.Context(), testQuery, address.AllowedTypes)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error to be %s, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("failed to decide: %s", err)
			}
			if decision.Type != tc.wantType {
				t.Errorf("expected type to be %q, got %q", tc.wantType, decision.Type)
			}
			if decision.Remember != tc.wantRemember {
				t.Errorf("expected remember to be %t, got %t", tc.wantRemember, decision.Remember)
			}
		})
	}
}

func TestPrompt_Output(t *testing.T) {
	t.Run("prompt shows address and choices", func(t *testing.T) {
		out := bytes.NewBuffer(nil)
		p := New(strings.NewReader("1\n\n"), out, testLocalizer(t, "en"))
		if _, err := p.Decide(t.Context(), testQuery, address.AllowedTypes); err != nil {
			t.Fatalf("failed to decide: %s", err)
		}
		for _, want := range []string{
			`Is "Judenplatz" a street or a place?`,
			"Judenplatz 8, 1010 Wien",
			"[1] street (addr:street)",
			"[2] place (addr:place)",
			"Remember this choice",
		} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("expected output to contain %q, got %q", want, out.String())
			}
		}
	})
	t.Run("german prompt accepts localized answers", func(t *testing.T) {
		out := bytes.NewBuffer(nil)
		p := New(strings.NewReader("Platz\nj\n"), out, testLocalizer(t, "de"))
		decision, err := p.Decide(t.Context(), testQuery, address.AllowedTypes)
		if err != nil {
			t.Fatalf("failed to decide: %s", err)
		}
		if decision.Type != address.TypePlace {
			t.Errorf("expected type to be %s, got %s", address.TypePlace, decision.Type)
		}
		if !decision.Remember {
			t.Error("expected choice to be remembered")
		}
		if !strings.Contains(out.String(), "Straße oder ein Platz") {
			t.Errorf("expected german prompt, got %q", out.String())
		}
	})
}

func TestPrompt_Context(t *testing.T) {
	t.Run("cancelled context aborts the prompt", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()
		p := New(pr, io.Discard, testLocalizer(t, "en"))
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := p.Decide(ctx, testQuery, address.AllowedTypes)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected error to be %s, got %v", context.Canceled, err)
		}
	})
	t.Run("closing the prompt stops a reader blocked on a pending line", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()
		p := New(pr, io.Discard, testLocalizer(t, "en"))
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if _, err := p.readLine(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected error to be %s, got %v", context.Canceled, err)
		}
		if _, err := pw.Write([]byte("1\n")); err != nil {
			t.Fatalf("failed to write input: %s", err)
		}

		p.Close()
		time.Sleep(50 * time.Millisecond)
		select {
		case line, ok := <-p.lines:
			if ok {
				t.Errorf("expected reader to stop after close, got line %q", line)
			}
		case <-time.After(time.Second):
			t.Fatal("expected reader to stop after close")
		}
		if _, err := p.readLine(t.Context()); !errors.Is(err, io.EOF) {
			t.Errorf("expected error to be %s, got %v", io.EOF, err)
		}
	})
	t.Run("prompt can be used for several decisions", func(t *testing.T) {
		p := New(strings.NewReader("1\nn\n2\ny\n"), io.Discard, testLocalizer(t, "en"))
		first, err := p.Decide(t.Context(), testQuery, address.AllowedTypes)
		if err != nil {
			t.Fatalf("failed to decide: %s", err)
		}
		second, err := p.Decide(t.Context(), testQuery, address.AllowedTypes)
		if err != nil {
			t.Fatalf("failed to decide: %s", err)
		}
		if first.Type != address.TypeStreet || second.Type != address.TypePlace || !second.Remember {
			t.Errorf("unexpected decisions: %+v, %+v", first, second)
		}
	})
}

func TestPrompt_NextSelection(t *testing.T) {
	t.Run("selections and decisions share the input", func(t *testing.T) {
		out := bytes.NewBuffer(nil)
		p := New(strings.NewReader("way/10\n2\ny\n w10 \n\n"), out, testLocalizer(t, "en"))
		sel, err := p.NextSelection(t.Context())
		if err != nil {
			t.Fatalf("failed to read selection: %s", err)
		}
		if sel != "way/10" {
			t.Errorf("expected selection to be way/10, got %q", sel)
		}
		if _, err = p.Decide(t.Context(), testQuery, address.AllowedTypes); err != nil {
			t.Fatalf("failed to decide: %s", err)
		}
		sel, err = p.NextSelection(t.Context())
		if err != nil {
			t.Fatalf("failed to read selection: %s", err)
		}
		if sel != "w10" {
			t.Errorf("expected selection to be w10, got %q", sel)
		}
		if _, err = p.NextSelection(t.Context()); !errors.Is(err, io.EOF) {
			t.Errorf("expected empty answer to end the session, got %v", err)
		}
		if !strings.Contains(out.String(), "leave empty to finish") {
			t.Errorf("expected selection question, got %q", out.String())
		}
	})
	t.Run("end of input ends the session", func(t *testing.T) {
		p := New(strings.NewReader(""), io.Discard, testLocalizer(t, "en"))
		if _, err := p.NextSelection(t.Context()); !errors.Is(err, io.EOF) {
			t.Errorf("expected error to be %s, got %v", io.EOF, err)
		}
	})
}

func testLocalizer(t *testing.T, loc string) *spreak.Localizer {
	t.Helper()
	l, err := i18n.New(loc)
	if err != nil {
		t.Fatalf("failed to create localizer: %s", err)
	}
	return l
}
