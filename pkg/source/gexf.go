package source

import (
	"encoding/xml"
	"io"

	"github.com/matzehuels/nodelight/pkg/errors"
	"github.com/matzehuels/nodelight/pkg/graph"
)

type gexfDocument struct {
	XMLName xml.Name  `xml:"gexf"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfGraph struct {
	Nodes []gexfNode `xml:"nodes>node"`
	Edges []gexfEdge `xml:"edges>edge"`
}

type gexfNode struct {
	ID    string `xml:"id,attr"`
	Label string `xml:"label,attr"`
}

type gexfEdge struct {
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

// readGEXF decodes the node and edge lists of a GEXF document. Edge
// direction is ignored.
func readGEXF(r io.Reader) (Data, error) {
	var doc gexfDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return Data{}, errors.Wrap(errors.ErrCodeGraphSource, err, "decode gexf")
	}

	data := Data{
		Nodes: make([]string, 0, len(doc.Graph.Nodes)),
		Edges: make([]graph.Edge, 0, len(doc.Graph.Edges)),
	}
	for i, n := range doc.Graph.Nodes {
		if n.ID == "" {
			return Data{}, errors.New(errors.ErrCodeGraphSource, "gexf node %d has no id", i)
		}
		data.Nodes = append(data.Nodes, n.ID)
		if n.Label != "" && n.Label != n.ID {
			if data.Labels == nil {
				data.Labels = make(map[string]string)
			}
			data.Labels[n.ID] = n.Label
		}
	}
	for i, e := range doc.Graph.Edges {
		if e.Source == "" || e.Target == "" {
			return Data{}, errors.New(errors.ErrCodeGraphSource, "gexf edge %d is missing source or target", i)
		}
		data.Edges = append(data.Edges, graph.Edge{From: e.Source, To: e.Target})
	}
	return data, nil
}
