package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodelight/pkg/graph"
	"github.com/matzehuels/nodelight/pkg/layout"
)

// DefaultCanvas is the drawing width and height in inches.
const DefaultCanvas = 10.0

// Options configures node-link diagram rendering.
type Options struct {
	// Canvas is the side length, in inches, that the layout's [0, scale]
	// square is mapped onto. Zero means DefaultCanvas.
	Canvas float64

	// Highlighted nodes are drawn filled with the highlight colour.
	Highlighted map[string]bool

	// Labels draws display labels instead of bare identifiers.
	Labels bool
}

const (
	fillColor      = "white"
	highlightColor = "#f5c542"
	edgeColor      = "#9a9a9a"
	activeEdge     = "#d18a00"
)

// ToDOT converts a positioned graph to Graphviz DOT. Every node is pinned
// at its layout position so the neato engine only routes edges.
func ToDOT(g *graph.Graph, pos *layout.Positions, opts Options) string {
	canvas := opts.Canvas
	if canvas <= 0 {
		canvas = DefaultCanvas
	}
	scale := pos.Scale()
	if scale <= 0 {
		scale = 1
	}
	factor := canvas / scale

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fillcolor=%q, fontsize=10, width=0.3];\n", fillColor)
	fmt.Fprintf(&buf, "  edge [color=%q];\n", edgeColor)
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		p, _ := pos.Get(n.ID)
		label := n.ID
		if opts.Labels {
			label = n.DisplayLabel()
		}
		attrs := []string{
			fmt.Sprintf("label=%q", label),
			fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(p.X*factor), fmtCoord(p.Y*factor)),
		}
		if opts.Highlighted[n.ID] {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", highlightColor), "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if opts.Highlighted[e.From] && opts.Highlighted[e.To] {
			fmt.Fprintf(&buf, "  %q -- %q [color=%q, penwidth=2];\n", e.From, e.To, activeEdge)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == graphviz.SVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
