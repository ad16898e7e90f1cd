// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query sequences one search query through the pipeline: normalize,
// check the cache, fetch, deduplicate, aggregate, persist, reshape.
// See docs/ARCHITECTURE.md § Query Orchestrator.
package query

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/archive-trends/internal/cache"
	"github.com/pdiddy/archive-trends/internal/metadata"
	"github.com/pdiddy/archive-trends/internal/pivot"
	"github.com/pdiddy/archive-trends/internal/provider"
	"github.com/pdiddy/archive-trends/internal/reshape"
	"github.com/pdiddy/archive-trends/pkg/types"
)

// DefaultFetchTimeout bounds one provider fetch when the request does not
// set its own.
const DefaultFetchTimeout = 120 * time.Second

// Request is one query through the pipeline. FromYear and ToYear are both
// inclusive; the orchestrator handles the provider's exclusive upper bound.
type Request struct {
	Term     string
	Mode     string
	FromYear int
	ToYear   int
	Limit    int

	TopN    int
	Ranking reshape.Ranking

	FetchTimeout time.Duration
}

// Result is a completed query.
type Result struct {
	Payload *types.VisualizationPayload
	Matrix  *types.CountMatrix
	Key     string

	// FromCache is true when the matrix came from the cache and the fetch,
	// dedupe, aggregate, and persist stages were skipped.
	FromCache bool

	// DuplicatesRemoved is how many duplicate hits the deduplicator
	// dropped. Zero on a cache hit.
	DuplicatesRemoved int
}

// Orchestrator wires the pipeline components. Cache may be nil to disable
// caching; Meta may be nil to skip metadata enrichment. Each Run is
// independent: the orchestrator holds no mutable state.
type Orchestrator struct {
	Provider provider.Provider
	Cache    *cache.Store
	Meta     *metadata.Table
	Log      zerolog.Logger
}

// Run executes one query. Failures come back as *Error with a Kind the
// caller can branch on. A persist failure is logged and swallowed: the
// in-memory result is still good.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	mode, err := provider.ParseMode(req.Mode)
	if err != nil {
		return nil, &Error{
			Kind:    KindUnknownSearchMode,
			Message: "unsupported search mode",
			Detail:  err.Error(),
		}
	}

	key := cache.Key(req.Term, string(mode), req.FromYear, req.ToYear)
	log := o.Log.With().Str("key", key).Logger()

	if o.Cache != nil {
		if m, ok := o.Cache.Lookup(key); ok {
			log.Info().Msg("cache hit")
			return &Result{
				Payload:   o.reshape(m, req),
				Matrix:    m,
				Key:       key,
				FromCache: true,
			}, nil
		}
	}

	timeout := req.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// The provider's upper bound excludes the given year, so querying
	// through ToYear means passing ToYear+1.
	hits, err := o.Provider.Search(fetchCtx, provider.Request{
		Mode:            mode,
		Term:            req.Term,
		FromYear:        req.FromYear,
		ToYearExclusive: req.ToYear + 1,
		Limit:           req.Limit,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{
				Kind:    KindTimeout,
				Message: "the search timed out; try narrowing the year range",
				Detail:  err.Error(),
			}
		}
		return nil, &Error{
			Kind:    KindProviderUnavailable,
			Message: "could not reach the archive API",
			Detail:  err.Error(),
		}
	}

	// The provider occasionally returns stray years just outside the
	// requested range; enforce the inclusive contract here.
	hits = filterYears(hits, req.FromYear, req.ToYear)

	if len(hits) == 0 {
		return nil, &Error{
			Kind:    KindEmptyResult,
			Message: "the search returned no results; try another term or a wider year range",
		}
	}

	deduped, removed := pivot.Deduplicate(hits)
	m := pivot.Aggregate(deduped)

	log.Info().
		Int("hits", len(hits)).
		Int("unique", len(deduped)).
		Int("duplicates_removed", removed).
		Msg("aggregation complete")

	if o.Cache != nil {
		err := o.Cache.Put(cache.Entry{
			Key:      key,
			Term:     req.Term,
			Mode:     string(mode),
			FromYear: req.FromYear,
			ToYear:   req.ToYear,
		}, m, deduped)
		if err != nil {
			// Non-fatal: the in-memory matrix is complete.
			log.Warn().Err(err).Msg("persisting result failed")
		}
	}

	return &Result{
		Payload:           o.reshape(m, req),
		Matrix:            m,
		Key:               key,
		DuplicatesRemoved: removed,
	}, nil
}

func (o *Orchestrator) reshape(m *types.CountMatrix, req Request) *types.VisualizationPayload {
	return reshape.Reshape(m, reshape.Options{
		TopN:    req.TopN,
		Ranking: req.Ranking,
		Meta:    o.Meta,
	})
}

func filterYears(hits []types.Hit, from, to int) []types.Hit {
	kept := hits[:0:0]
	for _, h := range hits {
		if h.Year >= from && h.Year <= to {
			kept = append(kept, h)
		}
	}
	return kept
}
