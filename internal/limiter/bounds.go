package limiter

import (
	"fmt"
)

const (
	// DefaultMaxDepth caps container nesting followed by a single walk.
	DefaultMaxDepth = 256
	// DefaultMaxNodes caps the number of nodes a single walk visits.
	DefaultMaxNodes = 500_000
)

// Bounds caps a traversal. Zero fields mean unlimited.
type Bounds struct {
	MaxDepth int
	MaxNodes int
}

// DefaultBounds returns the bounds applied when none are configured.
func DefaultBounds() Bounds {
	return Bounds{MaxDepth: DefaultMaxDepth, MaxNodes: DefaultMaxNodes}
}

// Unlimited disables both caps.
func Unlimited() Bounds { return Bounds{} }

// Validate rejects negative caps.
func (b Bounds) Validate() error {
	if b.MaxDepth < 0 {
		return fmt.Errorf("--max-depth must be non-negative, got %d", b.MaxDepth)
	}
	if b.MaxNodes < 0 {
		return fmt.Errorf("--max-nodes must be non-negative, got %d", b.MaxNodes)
	}
	return nil
}

// Reason explains why a walk stopped early.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonDepth    Reason = "max_depth"
	ReasonNodes    Reason = "max_nodes"
	ReasonCycle    Reason = "cycle"
	ReasonMultiple Reason = "multiple"
)

// Budget tracks one walk against Bounds.
type Budget struct {
	bounds  Bounds
	visited int
	reason  Reason
}

// NewBudget starts a walk.
func NewBudget(b Bounds) *Budget {
	return &Budget{bounds: b}
}

// Visit accounts for one node and reports whether the walk may emit it.
func (b *Budget) Visit() bool {
	if b.bounds.MaxNodes > 0 && b.visited >= b.bounds.MaxNodes {
		b.Trip(ReasonNodes)
		return false
	}
	b.visited++
	return true
}

// Descend reports whether the walk may enter a container whose children sit
// at depth.
func (b *Budget) Descend(depth int) bool {
	if b.bounds.MaxDepth > 0 && depth > b.bounds.MaxDepth {
		b.Trip(ReasonDepth)
		return false
	}
	return true
}

// Exhausted reports whether the node cap has been reached.
func (b *Budget) Exhausted() bool {
	return b.bounds.MaxNodes > 0 && b.visited >= b.bounds.MaxNodes
}

// Trip records that the walk was cut short.
func (b *Budget) Trip(r Reason) {
	switch b.reason {
	case ReasonNone:
		b.reason = r
	case r:
	default:
		b.reason = ReasonMultiple
	}
}

// Visited is the number of nodes accounted so far.
func (b *Budget) Visited() int { return b.visited }

// Truncated reports whether any cap or cycle cut the walk short.
func (b *Budget) Truncated() bool { return b.reason != ReasonNone }

// Reason returns why the walk was cut short.
func (b *Budget) Reason() Reason { return b.reason }
