package source

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/nodelight/pkg/errors"
	"github.com/matzehuels/nodelight/pkg/graph"
)

// Format names a graph file format.
type Format string

const (
	FormatAuto     Format = ""
	FormatJSON     Format = "json"
	FormatGEXF     Format = "gexf"
	FormatEdgeList Format = "edgelist"
)

// Formats lists the supported formats, for flag help and completion.
var Formats = []Format{FormatJSON, FormatGEXF, FormatEdgeList}

var extensions = map[string]Format{
	".json":     FormatJSON,
	".gexf":     FormatGEXF,
	".xml":      FormatGEXF,
	".txt":      FormatEdgeList,
	".edges":    FormatEdgeList,
	".edgelist": FormatEdgeList,
	".tsv":      FormatEdgeList,
}

// Data is the raw content of a graph file.
type Data struct {
	Nodes  []string          // nil when the format does not declare nodes
	Edges  []graph.Edge      // in file order
	Labels map[string]string // optional display labels
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == FormatAuto || slices.Contains(Formats, f) {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeGraphSource, "unsupported graph format %q (want one of json, gexf, edgelist)", s)
}

// DetectFormat guesses the format of path from its extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeGraphSource, "cannot detect graph format of %s; pass --format", path)
}

// Load reads the graph file at path. An empty format is detected from the
// extension.
func Load(path string, format Format) (Data, error) {
	if format == FormatAuto {
		f, err := DetectFormat(path)
		if err != nil {
			return Data{}, err
		}
		format = f
	}
	f, err := os.Open(path)
	if err != nil {
		return Data{}, errors.Wrap(errors.ErrCodeGraphSource, err, "open %s", path)
	}
	defer f.Close()

	data, err := Read(f, format)
	if err != nil {
		return Data{}, errors.Wrap(errors.ErrCodeGraphSource, err, "read %s", path)
	}
	return data, nil
}

// Read decodes a graph in the given format from r. Read does not close r.
func Read(r io.Reader, format Format) (Data, error) {
	switch format {
	case FormatJSON:
		return readJSON(r)
	case FormatGEXF:
		return readGEXF(r)
	case FormatEdgeList:
		return readEdgeList(r)
	case FormatAuto:
		return Data{}, errors.New(errors.ErrCodeGraphSource, "format must be given when reading from a stream")
	default:
		return Data{}, errors.New(errors.ErrCodeGraphSource, "unsupported graph format %q", format)
	}
}

// Build constructs the graph described by data.
func Build(data Data) (*graph.Graph, error) {
	g, err := graph.Load(data.Edges, data.Nodes, data.Labels)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphSource, err, "build graph")
	}
	return g, nil
}

// LoadGraph reads and builds the graph at path in one step.
func LoadGraph(path string, format Format) (*graph.Graph, error) {
	data, err := Load(path, format)
	if err != nil {
		return nil, err
	}
	return Build(data)
}
