// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search fans one search term out to the article, infografis and tour
// listings and merges their first pages into a single typed result list.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/kominfo-muaraenim/portal/internal/features"
	"github.com/kominfo-muaraenim/portal/internal/metrics"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// Source searches a single content listing.
type Source interface {
	Type() types.ResultType
	Search(ctx context.Context, term string) ([]types.SearchResultItem, error)
}

// Gate returns the predicate that decides, for one search, which source
// types take part.
type Gate func(ctx context.Context) func(types.ResultType) bool

// AllSources is a Gate that enables every source.
func AllSources(context.Context) func(types.ResultType) bool {
	return func(types.ResultType) bool { return true }
}

// sectionFor maps a result type to the landing-page section that controls it.
var sectionFor = map[types.ResultType]types.SectionKey{
	types.ResultArticle:    types.SectionNews,
	types.ResultInfografis: types.SectionInfografis,
	types.ResultTour:       types.SectionTour,
}

// FeatureGate enables a source when its section is enabled in the tenant's
// feature flags. The flags are loaded at most once per search and only when
// an optional section is asked about. A failed lookup falls back to the
// defaults.
func FeatureGate(l *features.Loader) Gate {
	return func(ctx context.Context) func(types.ResultType) bool {
		var (
			cfg    types.FeatureConfig
			loaded bool
		)
		return func(t types.ResultType) bool {
			key, ok := sectionFor[t]
			if !ok || features.IsNonOptional(key) {
				return true
			}
			if !loaded {
				cfg, _ = l.Load(ctx)
				loaded = true
			}
			return features.IsSectionEnabled(cfg, key)
		}
	}
}

// Result is the merged outcome of one search.
type Result struct {
	Term    string                   `json:"term"`
	Results []types.SearchResultItem `json:"results"`

	// IsLoading is set while an active source has no data for Term yet.
	IsLoading bool `json:"isLoading"`
	// IsFetching is set while any active source has a request outstanding.
	IsFetching bool `json:"isFetching"`
	// HasError is set when every settled source without results failed. A
	// source that answered with zero items is not a failure.
	HasError bool `json:"hasError"`

	// SourceErrors holds the failure message of each failed source.
	SourceErrors map[types.ResultType]string `json:"sourceErrors,omitempty"`
}

// Aggregator runs a term against its sources in parallel.
type Aggregator struct {
	sources []Source
	gate    Gate
}

// NewAggregator returns an aggregator over sources, merged in the order given.
// A nil gate enables every source.
func NewAggregator(gate Gate, sources ...Source) *Aggregator {
	if gate == nil {
		gate = AllSources
	}
	return &Aggregator{sources: sources, gate: gate}
}

// Active returns the sources enabled for this request, in merge order.
// Disabled sources are excluded entirely from loading and error aggregation.
func (a *Aggregator) Active(ctx context.Context) []Source {
	enabled := a.gate(ctx)
	var active []Source
	for _, s := range a.sources {
		if enabled(s.Type()) {
			active = append(active, s)
		}
	}
	return active
}

type sourceOutcome struct {
	items []types.SearchResultItem
	err   error
}

// Search queries every active source concurrently and waits for all of them.
// The term is forwarded verbatim, empty or not.
func (a *Aggregator) Search(ctx context.Context, term string) Result {
	active := a.Active(ctx)
	outcomes := make([]sourceOutcome, len(active))

	var wg sync.WaitGroup
	for i, s := range active {
		wg.Add(1)
		go func(i int, s Source) {
			defer wg.Done()
			items, err := s.Search(ctx, term)
			if err != nil {
				recordFailure(s.Type(), term, err)
			}
			outcomes[i] = sourceOutcome{items: items, err: err}
		}(i, s)
	}
	wg.Wait()

	states := make([]sourceState, len(active))
	for i, s := range active {
		states[i] = sourceState{typ: s.Type(), items: outcomes[i].items, err: outcomes[i].err, hasData: outcomes[i].err == nil}
	}
	return merge(term, states)
}

func recordFailure(t types.ResultType, term string, err error) {
	metrics.SourceErrors.WithLabelValues(string(t)).Inc()
	slog.Warn("search source failed", "source", t, "term", term, "error", err)
}

// sourceState is what is known about one active source for the current term.
type sourceState struct {
	typ      types.ResultType
	items    []types.SearchResultItem
	err      error
	hasData  bool
	fetching bool
}

func merge(term string, states []sourceState) Result {
	res := Result{Term: term, Results: []types.SearchResultItem{}}
	empty, failed := 0, 0
	for _, st := range states {
		res.Results = append(res.Results, st.items...)
		if len(st.items) == 0 && !st.fetching {
			empty++
		}
		if st.fetching {
			res.IsFetching = true
			if !st.hasData && st.err == nil {
				res.IsLoading = true
			}
		}
		if st.err != nil && len(st.items) == 0 && !st.fetching {
			failed++
			if res.SourceErrors == nil {
				res.SourceErrors = make(map[types.ResultType]string)
			}
			res.SourceErrors[st.typ] = st.err.Error()
		}
	}
	res.HasError = empty > 0 && failed == empty
	return res
}

// FormatTable writes a result as a human-readable table to w.
func FormatTable(res Result, w io.Writer) {
	if res.HasError {
		fmt.Fprintln(w, "Gagal memuat hasil pencarian.")
		for t, msg := range res.SourceErrors {
			fmt.Fprintf(w, "  %s: %s\n", t, msg)
		}
		return
	}
	if len(res.Results) == 0 {
		if res.Term == "" {
			fmt.Fprintln(w, "No results found.")
		} else {
			fmt.Fprintf(w, "Tidak ada hasil untuk %q\n", res.Term)
		}
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-50s  %s\n", "#", "Type", "Title", "Link")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, r := range res.Results {
		link := r.Href
		if r.Lightbox != nil {
			link = fmt.Sprintf("lightbox[%d]", *r.Lightbox)
		}
		fmt.Fprintf(w, "%-4d  %-10s  %-50s  %s\n", i+1, r.Type, truncate(r.Title, 50), link)
	}
	fmt.Fprintf(w, "\nDitemukan %d hasil untuk %q\n", len(res.Results), res.Term)
}

// FormatJSON writes a result as indented JSON to w.
func FormatJSON(res Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
