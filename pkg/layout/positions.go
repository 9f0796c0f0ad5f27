package layout

import (
	"iter"
	"maps"

	"gonum.org/v1/gonum/spatial/r2"
)

// Positions is the immutable result of a layout run.
type Positions struct {
	ids    []string
	index  map[string]int
	coords []r2.Vec
	seed   uint64
	scale  float64
}

func newPositions(ids []string, coords []r2.Vec, seed uint64, scale float64) *Positions {
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return &Positions{ids: ids, index: index, coords: coords, seed: seed, scale: scale}
}

// Get returns the position of id.
func (p *Positions) Get(id string) (r2.Vec, bool) {
	i, ok := p.index[id]
	if !ok {
		return r2.Vec{}, false
	}
	return p.coords[i], true
}

// Len returns the number of positioned nodes.
func (p *Positions) Len() int { return len(p.ids) }

// IDs returns node identifiers in graph order.
func (p *Positions) IDs() []string { return append([]string(nil), p.ids...) }

// All iterates over (id, position) pairs in graph order.
func (p *Positions) All() iter.Seq2[string, r2.Vec] {
	return func(yield func(string, r2.Vec) bool) {
		for i, id := range p.ids {
			if !yield(id, p.coords[i]) {
				return
			}
		}
	}
}

// Map returns a copy of the positions keyed by node id.
func (p *Positions) Map() map[string]r2.Vec { return maps.Collect(p.All()) }

// Bounds returns the bounding box of all positions. An empty result has a
// zero box.
func (p *Positions) Bounds() r2.Box {
	if len(p.coords) == 0 {
		return r2.Box{}
	}
	return boundsOf(p.coords)
}

// Seed returns the seed used for the initial placement.
func (p *Positions) Seed() uint64 { return p.seed }

// Scale returns the configured bounding scale.
func (p *Positions) Scale() float64 { return p.scale }
