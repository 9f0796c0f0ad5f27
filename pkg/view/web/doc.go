// Package web serves a read-only HTTP view of a running visualizer.
//
// Routes:
//
//	GET /                 HTML page that polls the snapshot
//	GET /api/layout       layout document (nodes, positions, edges)
//	GET /api/selection    currently highlighted nodes
//	GET /api/nodes/{id}   one node with its neighbors and highlight state
//	GET /snapshot.svg     the graph rendered with the current highlight
//
// The view observes selection state through a [selection.Recorder] placed
// among the serve command's presenters; it never changes the selection.
package web
