// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"sync"

	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// Session is a long-lived search box. Each SetTerm starts a new generation;
// results arriving for an older generation are dropped, so the snapshot never
// shows a superseded term's results. Superseded requests are not aborted.
type Session struct {
	agg *Aggregator
	ctx context.Context

	mu     sync.Mutex
	gen    uint64
	term   string
	states []sourceState
	done   chan struct{}
}

// NewSession returns an idle session. ctx bounds every request it issues.
func NewSession(ctx context.Context, agg *Aggregator) *Session {
	done := make(chan struct{})
	close(done)
	return &Session{agg: agg, ctx: ctx, done: done}
}

// SetTerm starts a search for term, discarding what was shown for the previous term.
func (s *Session) SetTerm(term string) {
	s.start(term, false)
}

// Retry re-issues the current term. Results already shown stay visible while
// the sources refetch.
func (s *Session) Retry() {
	s.mu.Lock()
	term := s.term
	s.mu.Unlock()
	s.start(term, true)
}

func (s *Session) start(term string, keep bool) {
	active := s.agg.Active(s.ctx)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	prev := s.states
	s.term = term
	s.states = make([]sourceState, len(active))
	for i, src := range active {
		st := sourceState{typ: src.Type(), fetching: true}
		if keep {
			for _, p := range prev {
				if p.typ == st.typ {
					st.items, st.hasData = p.items, p.hasData
				}
			}
		}
		s.states[i] = st
	}
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	var wg sync.WaitGroup
	for i, src := range active {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			items, err := src.Search(s.ctx, term)
			if err != nil {
				recordFailure(src.Type(), term, err)
			}
			s.complete(gen, i, items, err)
		}(i, src)
	}
	go func() {
		wg.Wait()
		close(done)
	}()
}

func (s *Session) complete(gen uint64, i int, items []types.SearchResultItem, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	st := &s.states[i]
	st.fetching = false
	st.err = err
	if err == nil {
		st.items, st.hasData = items, true
	}
}

// Snapshot returns the merged state of the current generation.
func (s *Session) Snapshot() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	states := make([]sourceState, len(s.states))
	copy(states, s.states)
	return merge(s.term, states)
}

// Term returns the current term.
func (s *Session) Term() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term
}

// Wait blocks until the current generation settles, following any newer
// SetTerm issued meanwhile, and returns its snapshot.
func (s *Session) Wait(ctx context.Context) (Result, error) {
	for {
		s.mu.Lock()
		gen, done := s.gen, s.done
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-done:
		}

		s.mu.Lock()
		current := gen == s.gen
		s.mu.Unlock()
		if current {
			return s.Snapshot(), nil
		}
	}
}
