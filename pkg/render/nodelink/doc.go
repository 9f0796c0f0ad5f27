// Package nodelink renders a laid-out graph as a node-link diagram.
//
// # Overview
//
// Nodes are pinned at the positions computed by the layout package and
// Graphviz's neato engine draws them with straight undirected edges.
// Highlighted nodes are filled with an accent colour, and edges between two
// highlighted nodes are emphasised.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, pos, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Snapshots
//
// [SnapshotPresenter] is a selection presenter that rewrites an SVG file
// after every selection change. The file is replaced atomically so viewers
// that poll it never see a partial document.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
package nodelink
