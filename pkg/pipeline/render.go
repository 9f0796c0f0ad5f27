package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/nodelight/pkg/layout"
	"github.com/matzehuels/nodelight/pkg/render/nodelink"
	"github.com/matzehuels/nodelight/pkg/selection"
)

// RenderOptions configures Render.
type RenderOptions struct {
	Formats []string

	// Select names the node whose neighborhood is drawn highlighted.
	Select string

	// Labels draws display labels instead of identifiers.
	Labels bool

	// Canvas is the drawing size in inches; zero means nodelink.DefaultCanvas.
	Canvas float64

	// Layout is recorded in JSON output.
	Layout layout.Config
}

// Render generates output artifacts for scene in the requested formats.
func Render(ctx context.Context, scene *Scene, opts RenderOptions) (map[string][]byte, error) {
	for _, f := range opts.Formats {
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
	}

	highlighted, err := Highlight(scene, opts.Select)
	if err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(scene.Graph, scene.Positions, nodelink.Options{
		Canvas:      opts.Canvas,
		Highlighted: highlighted,
		Labels:      opts.Labels,
	})

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot)
		case FormatDOT:
			data = []byte(dot)
		case FormatJSON:
			data, err = layout.MarshalDocument(layout.Export(scene.Graph, scene.Positions, opts.Layout))
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// Highlight returns the node set a selection of id would highlight, as a
// lookup map. An empty id yields nil.
func Highlight(scene *Scene, id string) (map[string]bool, error) {
	if id == "" {
		return nil, nil
	}
	rec := selection.NewRecorder()
	if _, err := selection.NewController(scene.Graph, scene.Positions, rec).Handle(id); err != nil {
		return nil, err
	}
	out := make(map[string]bool)
	for _, n := range rec.Highlighted() {
		out[n] = true
	}
	return out, nil
}
