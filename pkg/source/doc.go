// Package source reads graph files into the node, edge and label triple
// consumed by [graph.Load].
//
// Three formats are supported:
//
//   - json: node-link documents with "nodes" and "edges" arrays. Edges may
//     use "from"/"to" or "source"/"target" keys.
//   - gexf: GEXF 1.x XML as written by Gephi and networkx. Node "label"
//     attributes become display labels; attribute data is ignored.
//   - edgelist: one whitespace separated pair per line. Lines starting with
//     '#' are comments, a single token declares an isolated node, and
//     "node <id> <label...>" declares a node with a label. Two tokens are
//     always an edge, so "node x" links a node named "node" to x.
//
// [Load] detects the format from the file extension when none is given.
// Every failure is reported as a GRAPH_SOURCE error; structural problems
// found by [Build] additionally carry MALFORMED_GRAPH.
package source
