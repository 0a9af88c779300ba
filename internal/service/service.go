// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vorlif/spreak"

	"github.com/wneessen/austria-address-helper/internal/address"
	"github.com/wneessen/austria-address-helper/internal/config"
	"github.com/wneessen/austria-address-helper/internal/geocode"
	"github.com/wneessen/austria-address-helper/internal/geocode/provider/bev"
	"github.com/wneessen/austria-address-helper/internal/http"
	"github.com/wneessen/austria-address-helper/internal/logger"
	"github.com/wneessen/austria-address-helper/internal/notify"
	"github.com/wneessen/austria-address-helper/internal/osmdata"
)

// Service adds addresses to selected OSM objects. Remembered address type choices live
// as long as the Service.
type Service struct {
	config   *config.Config
	engine   *address.Engine
	geocoder geocode.Geocoder
	logger   *logger.Logger
	memo     *address.Memo
	notifier *notify.Notifier
	t        *spreak.Localizer
}

// SelectionFunc returns the next selection of a session. It returns io.EOF when the
// session ends.
type SelectionFunc func(ctx context.Context) ([]osmdata.Ref, error)

// Option configures a Service
type Option func(*Service)

// WithGeocoder replaces the BEV geocoder
func WithGeocoder(coder geocode.Geocoder) Option {
	return func(s *Service) {
		s.geocoder = coder
	}
}

func New(conf *config.Config, log *logger.Logger, t *spreak.Localizer, decider address.Decider,
	notifier *notify.Notifier, opts ...Option,
) (*Service, error) {
	if decider == nil {
		return nil, errors.New("no address type decider given")
	}
	if notifier == nil {
		return nil, errors.New("no notifier given")
	}

	service := &Service{
		config:   conf,
		logger:   log,
		memo:     address.NewMemo(),
		notifier: notifier,
		t:        t,
	}
	for _, opt := range opts {
		opt(service)
	}
	if service.geocoder == nil {
		var coder geocode.Geocoder = bev.New(http.New(log, conf.Geocoder.Reason),
			bev.WithEndpoint(conf.Geocoder.Endpoint),
			bev.WithTimeout(conf.Geocoder.Timeout),
			bev.WithRateLimit(conf.Geocoder.RequestsPerSecond),
		)
		if ttl := conf.Geocoder.CacheTTL; ttl != nil && *ttl > 0 {
			coder = geocode.NewCachedGeocoder(coder, *ttl, *ttl)
		}
		service.geocoder = coder
	}

	resolver := address.NewResolver(service.memo, decider, log)
	service.engine = address.NewEngine(service.geocoder, resolver, log,
		address.WithSearchRadius(conf.Geocoder.Distance),
		address.WithLimit(conf.Geocoder.Limit),
	)
	return service, nil
}

// Run resolves the address of the single selected object in doc and returns the
// resulting changes.
func (s *Service) Run(ctx context.Context, doc *osmdata.Document, selection []osmdata.Ref) (osmdata.Result, error) {
	primitive, err := doc.Select(selection...)
	if err != nil {
		if errors.Is(err, osmdata.ErrSelectionCount) {
			s.notifier.Message("Please select exactly one object.")
		} else {
			s.notifier.Error(err)
		}
		return osmdata.Result{}, err
	}
	return s.AddAddresses(ctx, primitive)
}

// RunSession runs one resolution per selection returned by next until it returns io.EOF.
// Remembered address type choices and cached geocoder responses carry over between the
// resolutions. The changes of all successful resolutions are merged into one result.
func (s *Service) RunSession(ctx context.Context, doc *osmdata.Document, next SelectionFunc) (osmdata.Result, error) {
	var results []osmdata.Result
	var failures []error
	for {
		selection, err := next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return osmdata.Result{}, fmt.Errorf("failed to read selection: %w", err)
		}

		result, err := s.Run(ctx, doc, selection)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		if len(failures) == 0 {
			return osmdata.Result{}, osmdata.ErrEmptyBatch
		}
		return osmdata.Result{}, errors.Join(append([]error{osmdata.ErrEmptyBatch}, failures...)...)
	}
	merged, err := osmdata.Merge(func(n int) string {
		return s.t.NGet("Add address", "Add addresses", n)
	}, results...)
	if err != nil {
		return osmdata.Result{}, fmt.Errorf("failed to merge session changes: %w", err)
	}
	s.logger.Info("session finished", slog.Int("resolutions", len(results)+len(failures)),
		slog.Int("objects", merged.Len()), slog.Int("failed", len(failures)))
	return merged, nil
}

// AddAddresses resolves the address of every primitive and batches all successful results
// into one change. Failures are reported and leave the affected primitive untouched. If
// nothing could be changed, the returned error wraps osmdata.ErrEmptyBatch and the
// failures.
func (s *Service) AddAddresses(ctx context.Context, primitives ...*osmdata.Primitive) (osmdata.Result, error) {
	batch := osmdata.NewBatch()
	var failures []error

	for _, p := range primitives {
		resolved, err := s.engine.Resolve(ctx, p.Center)
		s.notifier.Report(resolved, err)
		if err != nil {
			s.logResolveError(p, err)
			failures = append(failures, fmt.Errorf("%s: %w", p.Ref, err))
			continue
		}

		if err = batch.Add(p, resolved.Tags(), resolved.RemovedTags()); err != nil {
			return osmdata.Result{}, fmt.Errorf("failed to queue changes for %s: %w", p.Ref, err)
		}
		// The copyright belongs to the changeset, objects only carry the source date
		batch.SetChangesetTag(address.TagChangesetSource, s.config.Changeset.SourcePrefix+resolved.SourceCopyright)
	}

	if batch.Len() == 0 {
		return osmdata.Result{}, errors.Join(append([]error{osmdata.ErrEmptyBatch}, failures...)...)
	}
	result, err := batch.Commit(s.t.NGet("Add address", "Add addresses", batch.Len()))
	if err != nil {
		return osmdata.Result{}, fmt.Errorf("failed to commit changes: %w", err)
	}
	s.logger.Info("addresses added", slog.Int("objects", batch.Len()), slog.Int("failed", len(failures)))
	return result, nil
}

// Memo returns the remembered address type choices of the session
func (s *Service) Memo() *address.Memo {
	return s.memo
}

func (s *Service) logResolveError(p *osmdata.Primitive, err error) {
	switch address.Classify(err) {
	case address.OutcomeNoResult, address.OutcomeCancelled:
		s.logger.Info("no address added", slog.String("object", p.Ref.String()), logger.Err(err))
	default:
		s.logger.Error("failed to resolve address", slog.String("object", p.Ref.String()),
			slog.String("coordinate", p.Center.String()), logger.Err(err))
	}
}
