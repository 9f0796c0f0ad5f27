package source

import (
	"bufio"
	"io"
	"strings"

	"github.com/matzehuels/nodelight/pkg/errors"
	"github.com/matzehuels/nodelight/pkg/graph"
)

const nodeDirective = "node"

// readEdgeList decodes a whitespace separated edge list. Nodes appear in
// order of first mention. A line is a label directive only when it reads
// "node <id> <label...>"; "node x" is an edge from a node named "node".
func readEdgeList(r io.Reader) (Data, error) {
	data := Data{Nodes: []string{}}
	seen := make(map[string]bool)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			data.Nodes = append(data.Nodes, id)
		}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		switch {
		case fields[0] == nodeDirective && len(fields) > 2:
			add(fields[1])
			if data.Labels == nil {
				data.Labels = make(map[string]string)
			}
			data.Labels[fields[1]] = strings.Join(fields[2:], " ")
		case len(fields) == 1:
			add(fields[0])
		case len(fields) == 2:
			add(fields[0])
			add(fields[1])
			data.Edges = append(data.Edges, graph.Edge{From: fields[0], To: fields[1]})
		default:
			return Data{}, errors.New(errors.ErrCodeGraphSource, "line %d: expected \"a b\", got %d fields", line, len(fields))
		}
	}
	if err := sc.Err(); err != nil {
		return Data{}, errors.Wrap(errors.ErrCodeGraphSource, err, "scan edge list")
	}
	return data, nil
}
