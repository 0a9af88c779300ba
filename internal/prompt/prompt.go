// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/vorlif/spreak"

	"github.com/wneessen/austria-address-helper/internal/address"
)

// Prompt asks for the address type on a terminal
type Prompt struct {
	in        io.Reader
	out       io.Writer
	localizer *spreak.Localizer

	once      sync.Once
	closeOnce sync.Once
	lines     chan string
	done      chan struct{}
}

func New(in io.Reader, out io.Writer, localizer *spreak.Localizer) *Prompt {
	return &Prompt{
		in:        in,
		out:       out,
		localizer: localizer,
		lines:     make(chan string),
		done:      make(chan struct{}),
	}
}

// Close stops reading from the input. Pending and later reads return io.EOF.
func (p *Prompt) Close() {
	p.closeOnce.Do(func() { close(p.done) })
}

// NextSelection asks for the object to add the address to next. An empty answer or the
// end of the input returns io.EOF.
func (p *Prompt) NextSelection(ctx context.Context) (string, error) {
	p.printf("\n%s", p.localizer.Get("Object to add the address to (e.g. way/123), leave empty to finish: "))
	answer, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", io.EOF
	}
	return answer, nil
}

// Decide prints the address and the choices and waits for the user. An empty answer or
// the end of the input cancels the decision.
func (p *Prompt) Decide(ctx context.Context, query address.Query, choices []address.Type) (address.Decision, error) {
	l := p.localizer
	p.printf("\n%s\n", l.Getf("Is %q a street or a place?", query.StreetOrPlace))
	p.printf("%s %s %s, %s %s\n", l.Get("Address:"), query.StreetOrPlace, query.HouseNumber, query.Postcode,
		query.Municipality)
	for i, choice := range choices {
		p.printf("  [%d] %s (%s)\n", i+1, p.typeName(choice), choice.TagKey())
	}
	p.printf("%s", l.Getf("Choose [1-%d], leave empty to cancel: ", len(choices)))

	answer, err := p.readLine(ctx)
	if err != nil {
		if err == io.EOF {
			return address.Decision{}, address.ErrCancelled
		}
		return address.Decision{}, err
	}
	if answer == "" {
		return address.Decision{}, address.ErrCancelled
	}
	decision := address.Decision{Type: p.parseChoice(answer, choices)}

	p.printf("%s", l.Get("Remember this choice for this session? [y/N]: "))
	answer, err = p.readLine(ctx)
	if err != nil && err != io.EOF {
		return address.Decision{}, err
	}
	decision.Remember = p.isYes(answer)

	return decision, nil
}

// parseChoice accepts the number of a choice or its (localized) name. Anything else is
// returned as is and left to the caller to reject.
func (p *Prompt) parseChoice(answer string, choices []address.Type) address.Type {
	if idx, err := strconv.Atoi(answer); err == nil && idx >= 1 && idx <= len(choices) {
		return choices[idx-1]
	}
	for _, choice := range choices {
		if strings.EqualFold(answer, string(choice)) || strings.EqualFold(answer, p.typeName(choice)) {
			return choice
		}
	}
	return address.Type(strings.ToLower(answer))
}

func (p *Prompt) isYes(answer string) bool {
	answer = strings.ToLower(answer)
	for _, yes := range []string{"y", "yes", p.localizer.Get("y"), p.localizer.Get("yes")} {
		if answer == strings.ToLower(yes) {
			return true
		}
	}
	return false
}

func (p *Prompt) typeName(t address.Type) string {
	switch t {
	case address.TypeStreet:
		return p.localizer.Get("street")
	case address.TypePlace:
		return p.localizer.Get("place")
	default:
		return string(t)
	}
}

func (p *Prompt) readLine(ctx context.Context) (string, error) {
	p.once.Do(func() { go p.scan() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.done:
		return "", io.EOF
	case line, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (p *Prompt) scan() {
	defer close(p.lines)
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		select {
		case p.lines <- scanner.Text():
		case <-p.done:
			return
		}
	}
}

func (p *Prompt) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}
