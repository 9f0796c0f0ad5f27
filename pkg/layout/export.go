package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/nodelight/pkg/graph"
)

// Document is the JSON form of a computed layout.
type Document struct {
	Scale      float64      `json:"scale"`
	Seed       uint64       `json:"seed"`
	Iterations int          `json:"iterations"`
	LinLog     bool         `json:"linlog,omitempty"`
	NoHubs     bool         `json:"no_hubs,omitempty"`
	Nodes      []PlacedNode `json:"nodes"`
	Edges      []graph.Edge `json:"edges"`
}

// PlacedNode is a node with its final coordinates.
type PlacedNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Export builds a Document from a graph and its positions.
func Export(g *graph.Graph, pos *Positions, cfg Config) Document {
	doc := Document{
		Scale:      pos.Scale(),
		Seed:       pos.Seed(),
		Iterations: cfg.Iterations,
		LinLog:     cfg.LinLog,
		NoHubs:     cfg.NoHubs,
		Nodes:      make([]PlacedNode, 0, g.NodeCount()),
		Edges:      g.Edges(),
	}
	for _, n := range g.Nodes() {
		p, _ := pos.Get(n.ID)
		doc.Nodes = append(doc.Nodes, PlacedNode{ID: n.ID, Label: n.Label, X: p.X, Y: p.Y})
	}
	return doc
}

// InitialPositions returns the document's coordinates keyed by node id,
// suitable for Config.InitialPositions.
func (d Document) InitialPositions() map[string]r2.Vec {
	out := make(map[string]r2.Vec, len(d.Nodes))
	for _, n := range d.Nodes {
		out[n.ID] = r2.Vec{X: n.X, Y: n.Y}
	}
	return out
}

// MarshalDocument serializes a Document to pretty-printed JSON bytes.
func MarshalDocument(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDocument deserializes JSON bytes into a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	for i, n := range d.Nodes {
		if n.ID == "" {
			return Document{}, fmt.Errorf("layout node %d has no id", i)
		}
	}
	return d, nil
}

// WriteFile writes a Document to a JSON file.
func WriteFile(d Document, path string) error {
	data, err := MarshalDocument(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Document from a JSON file.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalDocument(data)
}
