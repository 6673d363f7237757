// Package graph provides a small typed state-machine engine: named
// nodes connected by static and conditional edges, executed as a
// sequential pipeline over a shared state value.
//
// The research agent is expressed as a graph over its turn state, with
// deterministic transition conditions instead of free-form control
// flow. Parallel fan-out within a node (concurrent searches, concurrent
// email lookups) goes through Fanout, which joins all workers before
// returning.
package graph
