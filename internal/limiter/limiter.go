// Package limiter holds the two kinds of limits kvlens applies: a record
// window (limit/offset/tail) for listing output, and traversal Bounds that cap
// how much of an untrusted document a single walk may visit.
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

// Window returns the [start, end) range of a list of length n that the
// configuration selects.
func (c Config) Window(n int) (int, int) {
	if c.Tail > 0 {
		start := n - c.Tail
		if start < 0 {
			start = 0
		}
		return start, n
	}
	start := c.Offset
	if start > n {
		start = n
	}
	end := n
	if c.Limit > 0 && start+c.Limit < n {
		end = start + c.Limit
	}
	return start, end
}

// Apply returns the selected sub-slice of items. The result shares the
// backing array of items.
func Apply[T any](c Config, items []T) []T {
	if !c.IsActive() {
		return items
	}
	start, end := c.Window(len(items))
	return items[start:end]
}
