package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodelight/pkg/layout"
)

// layoutCommand creates the layout command for computing and saving positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   graphFlags
		output  string
		initial string
	)

	cmd := &cobra.Command{
		Use:   "layout [graph-file]",
		Short: "Compute a force-directed layout and write it as JSON",
		Long: `Load a graph, run the force-directed layout once and write the positioned
nodes and edges as a JSON layout document.

A previous layout document can seed the initial placement with --initial.`,
		Example: `  nodelight layout graph.json -o layout.json
  nodelight layout network.gexf --iterations 200 --seed 42
  nodelight layout edges.txt --initial layout.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, opts, err := c.loadOptions(cmd, args, &flags)
			if err != nil {
				return err
			}
			if initial != "" {
				doc, err := layout.ReadFile(initial)
				if err != nil {
					return err
				}
				opts.Layout.InitialPositions = doc.InitialPositions()
			}

			ctx := cmd.Context()
			spin := newSpinner(ctx, os.Stderr, "Computing layout...")
			spin.Start()
			scene, err := c.newRunner().Prepare(ctx, opts)
			spin.Stop()
			if err != nil {
				return err
			}

			if output == "" {
				output = defaultLayoutPath(opts.GraphPath)
			}
			doc := layout.Export(scene.Graph, scene.Positions, opts.Layout)
			if err := layout.WriteFile(doc, output); err != nil {
				return err
			}

			loggerFromContext(ctx).Debug("wrote layout", "path", output, "seed", scene.Positions.Seed())
			printSuccess("Layout computed")
			printFile(output)
			printStats(scene.Stats.NodeCount, scene.Stats.EdgeCount, scene.Stats.LayoutTime)
			if d := scene.Stats.Discarded; d.SelfLoops > 0 || d.Duplicates > 0 {
				printWarning("discarded %d self-loops and %d duplicate edges", d.SelfLoops, d.Duplicates)
			}
			printNextStep("Serve it", fmt.Sprintf("%s serve %s", appName, opts.GraphPath))
			return nil
		},
	}

	addGraphFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <graph>.layout.json)")
	cmd.Flags().StringVar(&initial, "initial", "", "layout document whose positions seed the placement")

	return cmd
}

// defaultLayoutPath derives the output path from the graph file name.
func defaultLayoutPath(graphPath string) string {
	base := strings.TrimSuffix(filepath.Base(graphPath), filepath.Ext(graphPath))
	return base + ".layout.json"
}
