package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/nutriscan/backend/internal/domain"
)

// SessionState tracks where a search session is in its lifecycle.
type SessionState int

const (
	StateIdle SessionState = iota
	StateDebouncing
	StateInFlight
)

const (
	// DefaultDebounceWindow is how long after the last keystroke a dispatch
	// waits. Only the final query within the window hits the network.
	DefaultDebounceWindow = 800 * time.Millisecond

	// DefaultMinQueryLength suppresses dispatch for queries too short to be
	// meaningful, avoiding noise reads against the upstream.
	DefaultMinQueryLength = 2
)

// SearchFunc performs the actual (cancelable) search dispatch.
type SearchFunc func(ctx context.Context, query string) (*domain.AggregatedSearchResult, error)

// ResultFunc receives the outcome of the most recently issued query.
// Canceled and superseded outcomes are absorbed before this is called.
type ResultFunc func(result *domain.AggregatedSearchResult, err error)

// SessionConfig tunes a search session's debounce behavior.
type SessionConfig struct {
	DebounceWindow time.Duration
	MinQueryLength int
}

// SearchSession owns the text-search lifecycle for one user session: debounce
// timer, in-flight cancellation, and sequence-number fencing. Each session is
// independent, so no state is shared across users.
//
// State machine: Idle -> Debouncing -> InFlight -> (Success|Failed|Canceled) -> Idle.
type SearchSession struct {
	search   SearchFunc
	onResult ResultFunc
	cfg      SessionConfig

	mu       sync.Mutex
	debounce *time.Timer
	cancel   context.CancelFunc
	seq      uint64 // monotonically increasing request sequence
	state    SessionState
	closed   bool
}

// NewSearchSession creates a session dispatching through search and delivering
// outcomes through onResult.
func NewSearchSession(search SearchFunc, onResult ResultFunc, cfg SessionConfig) *SearchSession {
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = DefaultDebounceWindow
	}
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = DefaultMinQueryLength
	}
	return &SearchSession{
		search:   search,
		onResult: onResult,
		cfg:      cfg,
	}
}

// Update feeds the session a new keystroke's worth of query text. Every call
// resets the debounce timer; only the last query within the window dispatches.
// Queries below the minimum length suppress any pending dispatch.
func (s *SearchSession) Update(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}

	trimmed := strings.TrimSpace(query)
	if len(trimmed) < s.cfg.MinQueryLength {
		if s.state == StateDebouncing {
			s.state = StateIdle
		}
		return
	}

	s.state = StateDebouncing
	s.debounce = time.AfterFunc(s.cfg.DebounceWindow, func() {
		s.dispatch(trimmed)
	})
}

// dispatch issues the network call for a debounced query, canceling any
// request still in flight. At most one request is outstanding per session.
func (s *SearchSession) dispatch(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.seq++
	seq := s.seq
	s.state = StateInFlight
	s.mu.Unlock()

	go func() {
		result, err := s.search(ctx, query)

		s.mu.Lock()
		// Fencing: apply the outcome only if this is still the latest issued
		// request. A superseded response is discarded, never applied.
		if s.closed || seq != s.seq {
			s.mu.Unlock()
			return
		}
		s.state = StateIdle
		s.mu.Unlock()

		// A canceled request is absorbed silently, never surfaced.
		if errors.Is(err, context.Canceled) || errors.Is(err, domain.ErrCanceled) {
			return
		}
		s.onResult(result, err)
	}()
}

// State returns the session's current lifecycle state.
func (s *SearchSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close tears the session down: the debounce timer is released and any
// in-flight request is canceled, so no callback fires after disposal.
func (s *SearchSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = StateIdle
}
