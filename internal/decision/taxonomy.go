// ABOUTME: Decision taxonomy for the video review decision form
// ABOUTME: Immutable groups, nodes, and parent/child edges with lookup helpers
package decision

import (
	"errors"
	"fmt"
)

// Group is a disjoint category of decision nodes
type Group string

const (
	GroupBasic   Group = "basic"
	GroupOffside Group = "offside"
	GroupCards   Group = "cards"
	GroupVAR     Group = "var"
)

// groupOrder is the display order of groups
var groupOrder = []Group{GroupBasic, GroupOffside, GroupCards, GroupVAR}

// IsValid reports whether g is one of the known groups
func (g Group) IsValid() bool {
	for _, known := range groupOrder {
		if g == known {
			return true
		}
	}
	return false
}

// Label returns the display name of the group
func (g Group) Label() string {
	switch g {
	case GroupBasic:
		return "Basic Decisions"
	case GroupOffside:
		return "Offside"
	case GroupCards:
		return "Cards"
	case GroupVAR:
		return "VAR"
	}
	return string(g)
}

// Node is one boolean decision option
type Node struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Group    Group  `json:"group" yaml:"group"`
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
}

// IsRoot reports whether the node has no parent
func (n Node) IsRoot() bool {
	return n.ParentID == ""
}

// Taxonomy validation errors
var (
	ErrEmptyNodeID      = errors.New("node id cannot be empty")
	ErrDuplicateNode    = errors.New("duplicate node id")
	ErrInvalidGroup     = errors.New("invalid group")
	ErrDanglingParent   = errors.New("parent does not exist")
	ErrCrossGroupParent = errors.New("parent belongs to another group")
	ErrCycle            = errors.New("node is its own ancestor")
)

// Taxonomy is the fixed structure of decision nodes. It is never mutated
// after construction.
type Taxonomy struct {
	nodes    []Node
	index    map[string]int
	children map[string][]string
}

// NewTaxonomy builds a taxonomy from nodes in declaration order
func NewTaxonomy(nodes []Node) (*Taxonomy, error) {
	t := &Taxonomy{
		nodes:    make([]Node, len(nodes)),
		index:    make(map[string]int, len(nodes)),
		children: make(map[string][]string),
	}
	copy(t.nodes, nodes)

	for i, n := range t.nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d: %w", i, ErrEmptyNodeID)
		}
		if _, dup := t.index[n.ID]; dup {
			return nil, fmt.Errorf("%s: %w", n.ID, ErrDuplicateNode)
		}
		if !n.Group.IsValid() {
			return nil, fmt.Errorf("%s: %w %q", n.ID, ErrInvalidGroup, n.Group)
		}
		t.index[n.ID] = i
	}

	for _, n := range t.nodes {
		if n.IsRoot() {
			continue
		}
		pi, ok := t.index[n.ParentID]
		if !ok {
			return nil, fmt.Errorf("%s: %w: %s", n.ID, ErrDanglingParent, n.ParentID)
		}
		if t.nodes[pi].Group != n.Group {
			return nil, fmt.Errorf("%s: %w: %s", n.ID, ErrCrossGroupParent, n.ParentID)
		}
		t.children[n.ParentID] = append(t.children[n.ParentID], n.ID)
	}

	// Walking up from every node must reach a root within len(nodes) steps
	for _, n := range t.nodes {
		cur := n
		for steps := 0; !cur.IsRoot(); steps++ {
			if steps >= len(t.nodes) || cur.ParentID == n.ID {
				return nil, fmt.Errorf("%s: %w", n.ID, ErrCycle)
			}
			cur = t.nodes[t.index[cur.ParentID]]
		}
	}

	return t, nil
}

// MustTaxonomy is NewTaxonomy for static tables; it panics on invalid input
func MustTaxonomy(nodes []Node) *Taxonomy {
	t, err := NewTaxonomy(nodes)
	if err != nil {
		panic(fmt.Sprintf("decision: invalid taxonomy: %v", err))
	}
	return t
}

// Len returns the number of nodes
func (t *Taxonomy) Len() int {
	return len(t.nodes)
}

// Has reports whether id is a node of the taxonomy
func (t *Taxonomy) Has(id string) bool {
	_, ok := t.index[id]
	return ok
}

// Node looks up a node by id
func (t *Taxonomy) Node(id string) (Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return Node{}, false
	}
	return t.nodes[i], true
}

// Nodes returns all nodes in declaration order
func (t *Taxonomy) Nodes() []Node {
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Groups returns the groups that have at least one node, in display order
func (t *Taxonomy) Groups() []Group {
	var out []Group
	for _, g := range groupOrder {
		for _, n := range t.nodes {
			if n.Group == g {
				out = append(out, g)
				break
			}
		}
	}
	return out
}

// InGroup returns the nodes of a group in declaration order
func (t *Taxonomy) InGroup(g Group) []Node {
	var out []Node
	for _, n := range t.nodes {
		if n.Group == g {
			out = append(out, n)
		}
	}
	return out
}

// Roots returns the top-level nodes in declaration order
func (t *Taxonomy) Roots() []Node {
	var out []Node
	for _, n := range t.nodes {
		if n.IsRoot() {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the direct child ids of id
func (t *Taxonomy) Children(id string) []string {
	kids := t.children[id]
	out := make([]string, len(kids))
	copy(out, kids)
	return out
}

// Descendants returns every node below id, depth first
func (t *Taxonomy) Descendants(id string) []string {
	var out []string
	stack := append([]string(nil), t.children[id]...)
	for len(stack) > 0 {
		cur := stack[0]
		stack = stack[1:]
		out = append(out, cur)
		stack = append(append([]string(nil), t.children[cur]...), stack...)
	}
	return out
}

// Ancestors returns the chain above id, nearest parent first
func (t *Taxonomy) Ancestors(id string) []string {
	var out []string
	n, ok := t.Node(id)
	for ok && !n.IsRoot() {
		out = append(out, n.ParentID)
		n, ok = t.Node(n.ParentID)
	}
	return out
}

// Depth returns the number of ancestors of id
func (t *Taxonomy) Depth(id string) int {
	return len(t.Ancestors(id))
}
