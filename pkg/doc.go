// Package pkg provides the libraries behind nodelight, a graph visualizer
// that highlights the neighborhood of nodes selected over the network.
//
// # Overview
//
// A graph is loaded once, laid out once with a force-directed simulation and
// published read-only. A listener then receives node identifiers as UDP
// datagrams; each one replaces the current selection with the node and its
// neighbors, and the change is handed to presenters as highlight
// instructions.
//
// # Architecture
//
//	graph file ([source])
//	     ↓
//	[graph] immutable model
//	     ↓
//	[layout] force-directed positions (once)
//	     ↓
//	UDP datagrams ([transport/udp]) → [events] bounded queue
//	     ↓
//	[selection] controller → presenters ([render/nodelink], [view/web], TUI)
//
// [pipeline] wires these stages together; [observability] and [telemetry]
// instrument them.
//
// # Quick Start
//
//	g, _ := source.LoadGraph("graph.json", source.FormatAuto)
//	pos, _ := layout.Run(g, layout.DefaultConfig())
//
//	rec := selection.NewRecorder()
//	ctrl := selection.NewController(g, pos, rec)
//	_, _ = ctrl.Handle("A")
//	fmt.Println(rec.Highlighted())
//
// # Main Packages
//
//   - [graph]: nodes, edges and adjacency with deterministic ordering
//   - [layout]: the force-directed engine and layout documents
//   - [selection]: the selection controller and presenter interfaces
//   - [events]: the drop-oldest event queue between transport and controller
//   - [source]: JSON, GEXF and edge list readers
//   - [transport/udp]: datagram listener and client
//   - [render/nodelink]: DOT, SVG and PNG drawings of the laid out graph
//   - [view/web]: read-only HTTP view of the layout and selection
//   - [pipeline]: startup (load, layout) and the serve loop
//   - [errors]: coded errors shared by every package
//
// [graph]: github.com/matzehuels/nodelight/pkg/graph
// [layout]: github.com/matzehuels/nodelight/pkg/layout
// [selection]: github.com/matzehuels/nodelight/pkg/selection
// [events]: github.com/matzehuels/nodelight/pkg/events
// [source]: github.com/matzehuels/nodelight/pkg/source
// [transport/udp]: github.com/matzehuels/nodelight/pkg/transport/udp
// [render/nodelink]: github.com/matzehuels/nodelight/pkg/render/nodelink
// [view/web]: github.com/matzehuels/nodelight/pkg/view/web
// [pipeline]: github.com/matzehuels/nodelight/pkg/pipeline
// [observability]: github.com/matzehuels/nodelight/pkg/observability
// [telemetry]: github.com/matzehuels/nodelight/pkg/telemetry
// [errors]: github.com/matzehuels/nodelight/pkg/errors
package pkg
