// Package graph provides the immutable undirected graph that nodelight
// visualizes.
//
// # Overview
//
// A [Graph] is built once with [Load] from an edge list, an optional explicit
// node list and optional display labels. After Load returns, the graph never
// changes: it can be shared by the layout engine and the selection controller
// without locking.
//
//	g, err := graph.Load(
//	    []graph.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}},
//	    nil, // derive nodes from edges
//	    map[string]string{"a": "Alpha"},
//	)
//	nbrs, err := g.Neighbors("b") // [a c]
//
// # Node Sets
//
// When the node list passed to Load is nil, nodes are derived from the edges
// in order of first appearance. When it is non-nil (even empty) it is
// authoritative, and an edge naming a node outside it fails with a
// MALFORMED_GRAPH error.
//
// # Edges
//
// Edges are unordered pairs. Self-loops are dropped and parallel edges
// between the same pair (in either direction) are collapsed to the first
// occurrence. [Graph.Discarded] reports how many edges were dropped.
//
// # Ordering
//
// [Graph.Nodes], [Graph.Edges] and [Graph.Neighbors] iterate in a
// deterministic order: node order is the load order, edge order is the load
// order after de-duplication, and neighbor lists follow node order.
//
// # Concurrency
//
// A loaded Graph is read-only and safe for concurrent use.
package graph
