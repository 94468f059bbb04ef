package navigator

import (
	"fmt"
)

// State is a snapshot of the navigation state. Readers must treat it as
// immutable.
type State struct {
	Columns      []Column
	SelectedPath []string
}

// Depth is the number of selections made.
func (s State) Depth() int { return len(s.SelectedPath) }

// Validate checks the structural invariants of the snapshot: there is always
// a root column, every open column after the first was opened by the
// selection to its left, and at most one trailing selection (a leaf) has no
// column of its own.
func (s State) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("state has no root column")
	}
	if len(s.SelectedPath) > len(s.Columns) {
		return fmt.Errorf("state has %d selections for %d columns", len(s.SelectedPath), len(s.Columns))
	}
	if len(s.Columns) > len(s.SelectedPath)+1 {
		return fmt.Errorf("state has %d columns but only %d selections", len(s.Columns), len(s.SelectedPath))
	}
	for i, key := range s.SelectedPath {
		if _, ok := s.Columns[i].Find(key); !ok {
			return fmt.Errorf("selection %q is not in column %d", key, i)
		}
	}
	return nil
}
