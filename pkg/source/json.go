package source

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/nodelight/pkg/errors"
	"github.com/matzehuels/nodelight/pkg/graph"
)

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
	Links []jsonEdge `json:"links"`
}

type jsonNode struct {
	ID    json.RawMessage `json:"id"`
	Label string          `json:"label,omitempty"`
}

type jsonEdge struct {
	From   json.RawMessage `json:"from"`
	To     json.RawMessage `json:"to"`
	Source json.RawMessage `json:"source"`
	Target json.RawMessage `json:"target"`
}

// readJSON decodes a node-link document:
//
//	{
//	  "nodes": [{"id": "a", "label": "Alpha"}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Identifiers may be strings or numbers. "links" is accepted as an alias of
// "edges", and "source"/"target" as aliases of "from"/"to". When "nodes" is
// absent the node set is derived from the edges.
func readJSON(r io.Reader) (Data, error) {
	var doc jsonGraph
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Data{}, errors.Wrap(errors.ErrCodeGraphSource, err, "decode json")
	}

	var data Data
	if doc.Nodes != nil {
		data.Nodes = make([]string, 0, len(doc.Nodes))
	}
	for i, n := range doc.Nodes {
		id, err := jsonID(n.ID)
		if err != nil {
			return Data{}, errors.Wrap(errors.ErrCodeGraphSource, err, "node %d", i)
		}
		data.Nodes = append(data.Nodes, id)
		if n.Label != "" {
			if data.Labels == nil {
				data.Labels = make(map[string]string)
			}
			data.Labels[id] = n.Label
		}
	}

	edges := append(doc.Edges, doc.Links...)
	data.Edges = make([]graph.Edge, 0, len(edges))
	for i, e := range edges {
		from, to := e.From, e.To
		if from == nil {
			from = e.Source
		}
		if to == nil {
			to = e.Target
		}
		a, err := jsonID(from)
		if err != nil {
			return Data{}, errors.Wrap(errors.ErrCodeGraphSource, err, "edge %d source", i)
		}
		b, err := jsonID(to)
		if err != nil {
			return Data{}, errors.Wrap(errors.ErrCodeGraphSource, err, "edge %d target", i)
		}
		data.Edges = append(data.Edges, graph.Edge{From: a, To: b})
	}
	return data, nil
}

// jsonID accepts a JSON string or number and returns its text.
func jsonID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New(errors.ErrCodeGraphSource, "missing identifier")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", errors.New(errors.ErrCodeGraphSource, "empty identifier")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", errors.New(errors.ErrCodeGraphSource, "identifier must be a string or number, got %s", raw)
}
