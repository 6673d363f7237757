package graph

import (
	"context"
	"errors"
)

// END is the sentinel node name that terminates execution.
const END = "END"

var (
	// ErrEntryPointNotSet is returned when the entry point of the graph is not set.
	ErrEntryPointNotSet = errors.New("entry point not set")

	// ErrNodeNotFound is returned when a node is not found in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNoOutgoingEdge is returned when no outgoing edge is found for a node.
	ErrNoOutgoingEdge = errors.New("no outgoing edge found for node")
)

// Node is a named unit of work over the graph state.
type Node[S any] struct {
	// Name is the unique identifier for the node.
	Name string

	// Description describes the functionality of the node.
	Description string

	// Function transforms the state. It receives the state produced by
	// the previous node and returns the updated state.
	Function func(ctx context.Context, state S) (S, error)
}

// Edge is a static transition between two nodes.
type Edge struct {
	From string
	To   string
}
