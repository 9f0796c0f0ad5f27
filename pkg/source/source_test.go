package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/nodelight/pkg/errors"
	"github.com/matzehuels/nodelight/pkg/graph"
)

const sampleGEXF = `<?xml version="1.0" encoding="UTF-8"?>
<gexf xmlns="http://www.gexf.net/1.2draft" version="1.2">
  <graph mode="static" defaultedgetype="undirected">
    <nodes>
      <node id="0" label="Saint-Simon" />
      <node id="1" label="Louis XIV" />
      <node id="2" label="2" />
      <node id="3" />
    </nodes>
    <edges>
      <edge id="0" source="0" target="1" />
      <edge id="1" source="1" target="2" />
    </edges>
  </graph>
</gexf>`

func TestReadJSON(t *testing.T) {
	in := `{
	  "nodes": [{"id": "a", "label": "Alpha"}, {"id": "b"}, {"id": 3}],
	  "edges": [{"from": "a", "to": "b"}, {"source": "b", "target": 3}]
	}`
	data, err := Read(strings.NewReader(in), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "3"}, data.Nodes)
	assert.Equal(t, []graph.Edge{{From: "a", To: "b"}, {From: "b", To: "3"}}, data.Edges)
	assert.Equal(t, map[string]string{"a": "Alpha"}, data.Labels)
}

func TestReadJSONWithoutNodes(t *testing.T) {
	data, err := Read(strings.NewReader(`{"links": [{"source": 1, "target": 2}]}`), FormatJSON)
	require.NoError(t, err)
	assert.Nil(t, data.Nodes)
	assert.Equal(t, []graph.Edge{{From: "1", To: "2"}}, data.Edges)
}

func TestReadJSONErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":       `{"nodes": [`,
		"missing id":   `{"nodes": [{"label": "x"}]}`,
		"empty id":     `{"nodes": [{"id": ""}]}`,
		"object id":    `{"nodes": [{"id": {"x": 1}}]}`,
		"missing to":   `{"edges": [{"from": "a"}]}`,
		"bool id edge": `{"edges": [{"from": true, "to": "b"}]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(in), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeGraphSource))
		})
	}
}

func TestReadGEXF(t *testing.T) {
	data, err := Read(strings.NewReader(sampleGEXF), FormatGEXF)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "3"}, data.Nodes)
	assert.Equal(t, []graph.Edge{{From: "0", To: "1"}, {From: "1", To: "2"}}, data.Edges)
	assert.Equal(t, map[string]string{"0": "Saint-Simon", "1": "Louis XIV"}, data.Labels)

	g, err := Build(data)
	require.NoError(t, err)
	assert.Equal(t, 4, g.NodeCount())
	n, ok := g.Node("0")
	require.True(t, ok)
	assert.Equal(t, "Saint-Simon", n.DisplayLabel())
	assert.Equal(t, 0, g.Degree("3"))
}

func TestReadGEXFErrors(t *testing.T) {
	tests := map[string]string{
		"not xml":      `nope`,
		"wrong root":   `<graphml><graph/></graphml>`,
		"node no id":   `<gexf><graph><nodes><node label="x"/></nodes></graph></gexf>`,
		"edge no side": `<gexf><graph><nodes><node id="a"/></nodes><edges><edge source="a"/></edges></graph></gexf>`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(in), FormatGEXF)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeGraphSource))
		})
	}
}

func TestReadEdgeList(t *testing.T) {
	in := `# a triangle plus a loner
node 1 First Node
1 2
2	3
3 1

lonely
`
	data, err := Read(strings.NewReader(in), FormatEdgeList)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "lonely"}, data.Nodes)
	assert.Len(t, data.Edges, 3)
	assert.Equal(t, map[string]string{"1": "First Node"}, data.Labels)

	g, err := Build(data)
	require.NoError(t, err)
	nbrs, err := g.Neighbors("2")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, nbrs)
}

func TestReadEdgeListErrors(t *testing.T) {
	for name, in := range map[string]string{
		"too many fields": "a b c\n",
		"wide row":        "x y z w\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(in), FormatEdgeList)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestReadEdgeListNodeAsIdentifier(t *testing.T) {
	in := "node x\nnode\nnode y Why Not\n"
	data, err := Read(strings.NewReader(in), FormatEdgeList)
	require.NoError(t, err)
	assert.Equal(t, []string{"node", "x", "y"}, data.Nodes)
	assert.Equal(t, []graph.Edge{{From: "node", To: "x"}}, data.Edges)
	assert.Equal(t, map[string]string{"y": "Why Not"}, data.Labels)
}

func TestReadNeedsFormat(t *testing.T) {
	_, err := Read(strings.NewReader("a b"), FormatAuto)
	assert.True(t, errors.Is(err, errors.ErrCodeGraphSource))
	_, err = Read(strings.NewReader("a b"), Format("dot"))
	assert.True(t, errors.Is(err, errors.ErrCodeGraphSource))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatAuto, "JSON": FormatJSON, " gexf ": FormatGEXF, "edgelist": FormatEdgeList} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("graphml")
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"g.json", FormatJSON, true},
		{"dir/saint-sim.GEXF", FormatGEXF, true},
		{"g.xml", FormatGEXF, true},
		{"g.edges", FormatEdgeList, true},
		{"g.txt", FormatEdgeList, true},
		{"g.dot", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if !tt.ok {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saint-sim.gexf")
	require.NoError(t, os.WriteFile(path, []byte(sampleGEXF), 0o644))

	g, err := LoadGraph(path, FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"), FormatAuto)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeGraphSource))
	assert.True(t, errors.Fatal(err))
}

func TestBuildReportsMalformedGraph(t *testing.T) {
	_, err := Build(Data{
		Nodes: []string{"a"},
		Edges: []graph.Edge{{From: "a", To: "ghost"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeGraphSource))
	assert.True(t, errors.Is(err, errors.ErrCodeMalformedGraph))
}
