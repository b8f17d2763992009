// Package limiter selects which rows of a stream get printed: skip the
// first Offset rows, stop after Limit rows, or keep only the last Tail rows.
package limiter

import (
	"fmt"
)

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // Show only this many records (0 = unlimited)
	Offset int // Skip the first N records (0 = no skip)
	Tail   int // Show only the last N records (0 = disabled); mutually exclusive with Limit
}

// Validate checks for conflicting flag combinations and returns an error if invalid.
// Rules:
// - Limit and Tail are mutually exclusive
// - If Tail is set, Offset is ignored
// - All numeric values must be non-negative
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}
	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Stream applies a Config to items arriving one at a time.
type Stream[T any] struct {
	cfg     Config
	seen    int
	emitted int
	ring    []T
	next    int
	full    bool
}

// NewStream returns a Stream for cfg. cfg should already be validated.
func NewStream[T any](cfg Config) *Stream[T] {
	s := &Stream[T]{cfg: cfg}
	if cfg.Tail > 0 {
		s.ring = make([]T, cfg.Tail)
	}
	return s
}

// Offer reports whether item should be emitted right away. With Tail set
// nothing is emitted until Flush.
func (s *Stream[T]) Offer(item T) bool {
	s.seen++
	if s.cfg.Tail > 0 {
		s.ring[s.next] = item
		s.next = (s.next + 1) % len(s.ring)
		if s.next == 0 {
			s.full = true
		}
		return false
	}
	if s.seen <= s.cfg.Offset || s.Done() {
		return false
	}
	s.emitted++
	return true
}

// Done reports whether no further item can be emitted, so the caller may
// stop reading.
func (s *Stream[T]) Done() bool {
	return s.cfg.Tail == 0 && s.cfg.Limit > 0 && s.emitted >= s.cfg.Limit
}

// Flush returns the buffered tail items in arrival order.
func (s *Stream[T]) Flush() []T {
	if s.cfg.Tail == 0 {
		return nil
	}
	if !s.full {
		return append([]T(nil), s.ring[:s.next]...)
	}
	out := make([]T, 0, len(s.ring))
	out = append(out, s.ring[s.next:]...)
	return append(out, s.ring[:s.next]...)
}
