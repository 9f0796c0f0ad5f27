// Package layout computes 2-D node positions with a force-directed
// simulation from the ForceAtlas / Fruchterman-Reingold family.
//
// # Overview
//
// [Run] is a pure function of a [graph.Graph] and a [Config]. It places every
// node, then iterates:
//
//  1. For every node, sum a repulsive push from every other node
//     (k²/d² along the separating vector) minus an attractive pull d/k
//     toward each neighbor. Distances are clamped to [MinDistance].
//  2. Optionally damp repulsion from hubs ([Config.NoHubs]) and compress the
//     combined force logarithmically ([Config.LinLog]).
//  3. Cap each node's displacement at the current temperature, move it,
//     and cool the temperature linearly to zero.
//
// Finally positions are translated so each axis starts at zero and scaled
// uniformly so the larger span equals [Config.Scale].
//
//	pos, err := layout.Run(g, layout.DefaultConfig())
//	p, _ := pos.Get("a") // r2.Vec{X: ..., Y: ...}
//
// # Determinism
//
// Runs with the same graph, config and non-zero [Config.Seed] produce
// identical positions, including when [Config.Workers] > 1: each node's
// displacement is summed by a single goroutine in node order.
//
// # Concurrency
//
// A run owns its simulation state exclusively. The returned [Positions] is
// immutable and safe for concurrent reads.
package layout
