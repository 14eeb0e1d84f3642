// ABOUTME: Error types for the decision engine
// ABOUTME: UnknownNodeError marks toggles for ids outside the taxonomy
package decision

import (
	"errors"
	"fmt"
)

// UnknownNodeError is returned when a node id is not part of the taxonomy.
// It indicates a programming defect such as a stale taxonomy, never user input.
type UnknownNodeError struct {
	NodeID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown decision node %q", e.NodeID)
}

// IsUnknownNode reports whether err wraps an UnknownNodeError
func IsUnknownNode(err error) bool {
	var target *UnknownNodeError
	return errors.As(err, &target)
}

// State consistency errors returned by Check
var (
	ErrMissingNode        = errors.New("state is missing a node")
	ErrExtraneousNode     = errors.New("state has a node outside the taxonomy")
	ErrInvariantViolation = errors.New("selected node has an unselected parent")
)
