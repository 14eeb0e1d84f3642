// ABOUTME: Decision state and the toggle cascade that keeps it consistent
// ABOUTME: Selecting a node selects its ancestors; clearing one clears its subtree
package decision

import (
	"fmt"
	"sort"
)

// State maps every node id of a taxonomy to its selection.
// Values are snapshots: operations return new states instead of mutating.
type State map[string]bool

// Clone returns an independent copy of s
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Equal reports whether both states hold the same assignment
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Initialize returns a state with every node unselected
func (t *Taxonomy) Initialize() State {
	s := make(State, len(t.nodes))
	for _, n := range t.nodes {
		s[n.ID] = false
	}
	return s
}

// ApplyToggle sets nodeID to desired and cascades: ancestors are selected
// when desired is true, the whole subtree is cleared when it is false.
// The input state is never modified. On error the input is returned as is.
// The result covers every node; nodes missing from state start unselected
// and keys the taxonomy does not know are dropped.
func (t *Taxonomy) ApplyToggle(state State, nodeID string, desired bool) (State, error) {
	if !t.Has(nodeID) {
		return state, &UnknownNodeError{NodeID: nodeID}
	}

	next := t.Initialize()
	for id := range next {
		next[id] = state[id]
	}
	next[nodeID] = desired

	if desired {
		for _, id := range t.Ancestors(nodeID) {
			next[id] = true
		}
	} else {
		for _, id := range t.Descendants(nodeID) {
			next[id] = false
		}
	}

	return next, nil
}

// Visible reports whether a node's checkbox is shown: roots always are,
// children only while their parent is selected.
func (t *Taxonomy) Visible(state State, nodeID string) bool {
	n, ok := t.Node(nodeID)
	if !ok {
		return false
	}
	if n.IsRoot() {
		return true
	}
	return state[n.ParentID]
}

// Selected returns the selected ids in declaration order
func (t *Taxonomy) Selected(state State) []string {
	var out []string
	for _, n := range t.nodes {
		if state[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// Check verifies full coverage of the taxonomy and upward implication
func (t *Taxonomy) Check(state State) error {
	for _, n := range t.nodes {
		if _, ok := state[n.ID]; !ok {
			return fmt.Errorf("%s: %w", n.ID, ErrMissingNode)
		}
	}
	if len(state) != len(t.nodes) {
		for id := range state {
			if !t.Has(id) {
				return fmt.Errorf("%s: %w", id, ErrExtraneousNode)
			}
		}
	}
	for _, n := range t.nodes {
		if state[n.ID] && !n.IsRoot() && !state[n.ParentID] {
			return fmt.Errorf("%s (parent %s): %w", n.ID, n.ParentID, ErrInvariantViolation)
		}
	}
	return nil
}

// Restore rebuilds a full state from a persisted assignment. Missing ids
// start unselected, ids the taxonomy no longer knows are dropped and
// returned sorted, and selections under an unselected ancestor are cleared.
func (t *Taxonomy) Restore(saved map[string]bool) (State, []string) {
	s := t.Initialize()
	var dropped []string
	for id, v := range saved {
		if !t.Has(id) {
			dropped = append(dropped, id)
			continue
		}
		s[id] = v
	}
	sort.Strings(dropped)

	out := s.Clone()
	for _, n := range t.nodes {
		if !s[n.ID] {
			continue
		}
		for _, anc := range t.Ancestors(n.ID) {
			if !s[anc] {
				out[n.ID] = false
				break
			}
		}
	}
	return out, dropped
}
