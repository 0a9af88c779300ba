// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package address

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/austria-address-helper/internal/logger"
)

// Query holds the address details a user needs to decide on the type
type Query struct {
	StreetOrPlace string
	HouseNumber   string
	Postcode      string
	Municipality  string
}

// Key returns the memo key of the query
func (q Query) Key() Key {
	return Key{
		StreetOrPlace: q.StreetOrPlace,
		Postcode:      q.Postcode,
		Municipality:  q.Municipality,
	}
}

// Decision is the answer of a Decider
type Decision struct {
	Type Type
	// Remember asks for the choice to be reused for the same street or place
	Remember bool
}

// Decider asks a human whether a name is a street or a place. It returns ErrCancelled if no
// decision was made. Decide blocks until the user answered.
type Decider interface {
	Decide(ctx context.Context, query Query, choices []Type) (Decision, error)
}

// DeciderFunc adapts a function to the Decider interface
type DeciderFunc func(ctx context.Context, query Query, choices []Type) (Decision, error)

func (f DeciderFunc) Decide(ctx context.Context, query Query, choices []Type) (Decision, error) {
	return f(ctx, query, choices)
}

// Resolver determines the type of an address the geocoding service could not classify
type Resolver struct {
	decider Decider
	logger  *logger.Logger
	memo    *Memo
}

func NewResolver(memo *Memo, decider Decider, log *logger.Logger) *Resolver {
	return &Resolver{
		decider: decider,
		logger:  log,
		memo:    memo,
	}
}

// Resolve returns a remembered choice for the query or asks the Decider. It returns
// ErrCancelled if the user did not choose one of the allowed types.
func (r *Resolver) Resolve(ctx context.Context, query Query) (Type, error) {
	key := query.Key()
	if choice, ok := r.memo.Get(key); ok {
		r.logger.Debug("using remembered address type", slog.String("name", query.StreetOrPlace),
			slog.String("postcode", query.Postcode), slog.String("type", string(choice)))
		return choice, nil
	}

	r.logger.Debug("asking for address type", slog.String("name", query.StreetOrPlace),
		slog.String("postcode", query.Postcode))
	decision, err := r.decider.Decide(ctx, query, AllowedTypes)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("failed to ask for address type: %w", err)
	}
	if !decision.Type.Valid() {
		r.logger.Warn("ignoring invalid address type choice", slog.String("type", string(decision.Type)))
		return "", ErrCancelled
	}

	if decision.Remember {
		r.memo.Put(key, decision.Type)
	}
	return decision.Type, nil
}
