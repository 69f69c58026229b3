package search

import (
	"strings"
	"sync"
	"time"
)

// DefaultDelay is the debounce window used when none is given
const DefaultDelay = 300 * time.Millisecond

// Searcher filters a collection by a debounced query. Every SetQuery call
// restarts the debounce window; the filter pass runs once the query has
// been stable for the full delay.
type Searcher[T any] struct {
	mu sync.Mutex

	items  []T
	fields []string
	delay  time.Duration

	term      string
	debounced string
	results   []T

	timer    *time.Timer
	gen      uint64
	closed   bool
	onChange func([]T)
}

type Option[T any] func(*Searcher[T])

// WithDelay sets the debounce window
func WithDelay[T any](d time.Duration) Option[T] {
	return func(s *Searcher[T]) { s.delay = d }
}

// OnChange registers a callback invoked with the new results after each
// filter pass. It runs outside the searcher's lock.
func OnChange[T any](fn func([]T)) Option[T] {
	return func(s *Searcher[T]) { s.onChange = fn }
}

func NewSearcher[T any](items []T, fields []string, opts ...Option[T]) *Searcher[T] {
	s := &Searcher[T]{
		items:   items,
		fields:  fields,
		delay:   DefaultDelay,
		results: items,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetQuery updates the live query and restarts the debounce window
func (s *Searcher[T]) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.term = q
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

func (s *Searcher[T]) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.debounced = s.term
	s.results = Filter(s.items, s.fields, s.debounced)
	results := s.results
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(results)
	}
}

// Flush applies a pending query immediately
func (s *Searcher[T]) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	gen := s.gen
	s.mu.Unlock()
	s.fire(gen)
}

// SetItems replaces the collection and re-filters with the debounced query
func (s *Searcher[T]) SetItems(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.results = Filter(s.items, s.fields, s.debounced)
}

// Query is the live, undebounced query
func (s *Searcher[T]) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term
}

// DebouncedQuery is the query the current results were computed from
func (s *Searcher[T]) DebouncedQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debounced
}

// Results returns the filtered items for the debounced query
func (s *Searcher[T]) Results() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// IsSearching is true while a filter pass is pending
func (s *Searcher[T]) IsSearching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term != s.debounced
}

// Close stops any pending timer; later SetQuery calls are ignored
func (s *Searcher[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

// ParseFields splits a comma separated field list, dropping blanks
func ParseFields(list string) []string {
	var out []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
