package graph

import (
	"slices"

	"github.com/matzehuels/nodelight/pkg/errors"
)

// Node is a vertex of the graph. Equality is by ID only.
type Node struct {
	ID    string `json:"id"`              // Unique, non-empty identifier
	Label string `json:"label,omitempty"` // Optional display label
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is an unordered pair of node identifiers.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// key returns an orientation-independent key for de-duplication.
func (e Edge) key() [2]string {
	if e.From <= e.To {
		return [2]string{e.From, e.To}
	}
	return [2]string{e.To, e.From}
}

// Discarded counts edges dropped while loading.
type Discarded struct {
	SelfLoops  int
	Duplicates int
}

// Graph is an immutable undirected graph with deterministic iteration order.
//
// The zero value is an empty graph. Use Load to build a populated one.
type Graph struct {
	nodes     []Node
	index     map[string]int
	edges     []Edge
	adj       [][]int // node index -> neighbor indices, ascending
	discarded Discarded
}

// Load builds a Graph.
//
// If nodes is nil the node set is derived from edges in order of first
// appearance and Load never fails on unknown endpoints. Otherwise nodes is
// authoritative: duplicate entries keep their first position and an edge
// naming any other node fails with MALFORMED_GRAPH. Empty identifiers always
// fail with MALFORMED_GRAPH.
//
// Labels for identifiers that are not nodes are ignored.
func Load(edges []Edge, nodes []string, labels map[string]string) (*Graph, error) {
	g := &Graph{index: make(map[string]int)}

	explicit := nodes != nil
	for _, id := range nodes {
		if id == "" {
			return nil, errors.New(errors.ErrCodeMalformedGraph, "node identifier must not be empty")
		}
		g.addNode(id)
	}

	seen := make(map[[2]string]struct{}, len(edges))
	for i, e := range edges {
		if e.From == "" || e.To == "" {
			return nil, errors.New(errors.ErrCodeMalformedGraph, "edge %d has an empty endpoint", i)
		}
		for _, end := range [2]string{e.From, e.To} {
			if _, ok := g.index[end]; ok {
				continue
			}
			if explicit {
				return nil, errors.New(errors.ErrCodeMalformedGraph,
					"edge %s-%s references unknown node %q", e.From, e.To, end)
			}
			g.addNode(end)
		}
		if e.From == e.To {
			g.discarded.SelfLoops++
			continue
		}
		k := e.key()
		if _, dup := seen[k]; dup {
			g.discarded.Duplicates++
			continue
		}
		seen[k] = struct{}{}
		g.edges = append(g.edges, e)
	}

	for id, label := range labels {
		if i, ok := g.index[id]; ok {
			g.nodes[i].Label = label
		}
	}

	g.adj = make([][]int, len(g.nodes))
	for _, e := range g.edges {
		a, b := g.index[e.From], g.index[e.To]
		g.adj[a] = append(g.adj[a], b)
		g.adj[b] = append(g.adj[b], a)
	}
	for i := range g.adj {
		slices.Sort(g.adj[i])
	}
	return g, nil
}

func (g *Graph) addNode(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id})
}

// Nodes returns a copy of all nodes in load order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// NodeIDs returns all node identifiers in load order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Edges returns a copy of the de-duplicated edges in load order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Discarded reports the self-loops and parallel edges dropped by Load.
func (g *Graph) Discarded() Discarded { return g.discarded }

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Node returns the node with the given ID and true, or a zero Node and false.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Neighbors returns the identifiers of all nodes sharing an edge with id,
// in node order. Isolated nodes yield an empty, non-nil slice. Unknown ids
// fail with UNKNOWN_NODE.
func (g *Graph) Neighbors(id string) ([]string, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNode, "node %q is not in the graph", id)
	}
	out := make([]string, len(g.adj[i]))
	for k, j := range g.adj[i] {
		out[k] = g.nodes[j].ID
	}
	return out, nil
}

// Degree returns the number of neighbors of id, or 0 if id is unknown.
func (g *Graph) Degree(id string) int {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	return len(g.adj[i])
}

// IndexOf returns the position of id in node order.
func (g *Graph) IndexOf(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Adjacent returns the neighbor indices of the node at position i.
// The returned slice is shared and must not be modified.
func (g *Graph) Adjacent(i int) []int { return g.adj[i] }
