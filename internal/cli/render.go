package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodelight/pkg/pipeline"
)

// renderCommand creates the render command for drawing a graph once.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   graphFlags
		formats string
		output  string
		sel     string
		canvas  float64
		noLabel bool
	)

	cmd := &cobra.Command{
		Use:   "render [graph-file]",
		Short: "Draw the laid out graph as SVG, PNG, DOT or JSON",
		Long: `Load a graph, compute its layout and draw it. With --select the named node
and its neighbors are drawn highlighted, exactly as serve would show them.`,
		Example: `  nodelight render graph.json
  nodelight render graph.json --select A -f svg,png
  nodelight render network.gexf -o network`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, opts, err := c.loadOptions(cmd, args, &flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			spin := newSpinner(ctx, os.Stderr, "Computing layout...")
			spin.Start()
			scene, err := c.newRunner().Prepare(ctx, opts)
			spin.Stop()
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			fmts := parseFormats(formats)
			artifacts, err := pipeline.Render(ctx, scene, pipeline.RenderOptions{
				Formats: fmts,
				Select:  sel,
				Labels:  !noLabel,
				Canvas:  canvas,
				Layout:  opts.Layout,
			})
			if err != nil {
				return err
			}

			base := output
			if base == "" {
				base = strings.TrimSuffix(filepath.Base(opts.GraphPath), filepath.Ext(opts.GraphPath))
			}
			paths := make([]string, 0, len(fmts))
			for _, f := range fmts {
				path := outputPath(base, f, len(fmts))
				if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
					return err
				}
				paths = append(paths, path)
			}
			prog.done("rendered " + strings.Join(fmts, ","))

			printSuccess("Rendered %s", scene)
			for _, p := range paths {
				printFile(p)
			}
			if sel != "" {
				printKeyValue("selected", StyleSelected.Render(sel))
			}
			printStats(scene.Stats.NodeCount, scene.Stats.EdgeCount, scene.Stats.LayoutTime)
			return nil
		},
	}

	addGraphFlags(cmd, &flags)
	cmd.Flags().StringVarP(&formats, "output-format", "f", "", "output formats: svg, png, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (with several formats, used as the base name)")
	cmd.Flags().StringVar(&sel, "select", "", "node whose neighborhood is highlighted")
	cmd.Flags().Float64Var(&canvas, "canvas", 0, "drawing size in inches (default 10)")
	cmd.Flags().BoolVar(&noLabel, "ids", false, "draw node identifiers instead of labels")

	return cmd
}

// outputPath returns base with the format extension. A single format keeps
// an explicit extension already present on base.
func outputPath(base, format string, count int) string {
	ext := "." + format
	if count == 1 && strings.EqualFold(filepath.Ext(base), ext) {
		return base
	}
	return strings.TrimSuffix(base, ext) + ext
}
