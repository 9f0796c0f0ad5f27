package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/nodelight/pkg/buildinfo"
	"github.com/matzehuels/nodelight/pkg/observability"
	"github.com/matzehuels/nodelight/pkg/pipeline"
	"github.com/matzehuels/nodelight/pkg/render/nodelink"
	"github.com/matzehuels/nodelight/pkg/selection"
	"github.com/matzehuels/nodelight/pkg/telemetry"
	"github.com/matzehuels/nodelight/pkg/view/web"
)

// serveFlags holds the serve-only flags. Explicitly set flags override
// the config file.
type serveFlags struct {
	listen        string
	queueSize     int
	clearToken    string
	delta         bool
	tui           bool
	snapshot      string
	http          string
	ids           bool
	traceEndpoint string
}

// serveCommand creates the serve command, the long-running mode.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		gf graphFlags
		sf serveFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [graph-file]",
		Short: "Lay out a graph and highlight nodes selected over UDP",
		Long: `Load a graph, compute its layout once, then listen for node identifiers on a
UDP port. Each datagram selects one node: it is highlighted together with its
neighbors and the previous selection is cleared.

Selections can be shown in a terminal table (--tui), written to an SVG file
after every change (--snapshot) and served as JSON and SVG over HTTP (--http).`,
		Example: `  nodelight serve graph.json
  nodelight serve network.gexf --tui
  nodelight serve graph.json --snapshot live.svg --http 127.0.0.1:8080
  nodelight serve graph.json --listen 0.0.0.0:6005 --clear-token CLEAR`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := c.loadOptions(cmd, args, &gf)
			if err != nil {
				return err
			}
			sf.apply(cmd, &cfg, &opts)
			if cfg.Present.TUI {
				// Log lines would tear the terminal UI.
				opts.Logger = newLogger(io.Discard, c.Logger.GetLevel())
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			return c.serve(cmd.Context(), cfg, opts)
		},
	}

	addGraphFlags(cmd, &gf)
	fs := cmd.Flags()
	fs.StringVarP(&sf.listen, "listen", "l", pipeline.DefaultAddress, "UDP address to receive node identifiers on")
	fs.IntVar(&sf.queueSize, "queue-size", pipeline.DefaultQueueSize, "pending selections kept before the oldest is dropped")
	fs.StringVar(&sf.clearToken, "clear-token", "", "payload that clears the selection (empty disables)")
	fs.BoolVar(&sf.delta, "delta", false, "emit only highlight changes instead of full off/on sets")
	fs.BoolVar(&sf.tui, "tui", false, "show the node list in an interactive terminal view")
	fs.StringVar(&sf.snapshot, "snapshot", "", "rewrite this SVG file after every selection")
	fs.StringVar(&sf.http, "http", "", "serve the HTTP view on this address (e.g. "+web.DefaultAddress+")")
	fs.BoolVar(&sf.ids, "ids", false, "draw node identifiers instead of labels in snapshots")
	fs.StringVar(&sf.traceEndpoint, "trace-endpoint", "", "OTLP/HTTP endpoint for traces")

	return cmd
}

func (f *serveFlags) apply(cmd *cobra.Command, cfg *fileConfig, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("listen") {
		opts.Listen = f.listen
	}
	if fs.Changed("queue-size") {
		opts.QueueSize = f.queueSize
	}
	if fs.Changed("clear-token") {
		opts.ClearToken = f.clearToken
	}
	if fs.Changed("delta") {
		opts.DeltaOnly = f.delta
	}
	if fs.Changed("tui") {
		cfg.Present.TUI = f.tui
	}
	if fs.Changed("snapshot") {
		cfg.Present.Snapshot = f.snapshot
	}
	if fs.Changed("http") {
		cfg.Present.HTTP = f.http
	}
	if fs.Changed("ids") {
		cfg.Present.Labels = !f.ids
	}
	if fs.Changed("trace-endpoint") {
		cfg.Telemetry.Endpoint = f.traceEndpoint
	}
}

// serve prepares the scene and runs the listener with every configured
// presenter until ctx is cancelled or the terminal view quits.
func (c *CLI) serve(ctx context.Context, cfg fileConfig, opts pipeline.Options) error {
	if cfg.Telemetry.Endpoint != "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		shutdown, err := telemetry.Init(ctx, telemetry.Options{
			Endpoint: cfg.Telemetry.Endpoint,
			Version:  buildinfo.Short(),
		})
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				c.Logger.Warn("trace shutdown", "err", err)
			}
		}()
		telemetry.NewHooks(nil).Register()
		defer observability.Reset()
	}

	runner := pipeline.NewRunner(opts.Logger)
	spin := newSpinner(ctx, os.Stderr, "Computing layout...")
	spin.Start()
	scene, err := runner.Prepare(ctx, opts)
	spin.Stop()
	if err != nil {
		return err
	}
	printSuccess("Laid out %s", opts.GraphPath)
	printStats(scene.Stats.NodeCount, scene.Stats.EdgeCount, scene.Stats.LayoutTime)

	rec := selection.NewRecorder()
	presenters := selection.Multi{rec, &selection.LogPresenter{Logger: opts.Logger}}

	if cfg.Present.Snapshot != "" {
		snap := nodelink.NewSnapshotPresenter(scene.Graph, scene.Positions, cfg.Present.Snapshot,
			nodelink.Options{Labels: cfg.Present.Labels}, opts.Logger)
		if err := snap.Flush(ctx); err != nil {
			return err
		}
		printFile(cfg.Present.Snapshot)
		presenters = append(presenters, snap)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Present.HTTP != "" {
		view := web.NewView(scene.Graph, scene.Positions, opts.Layout, rec, opts.Logger)
		printInfo("HTTP view on http://%s", cfg.Present.HTTP)
		g.Go(func() error {
			return view.ListenAndServe(gctx, cfg.Present.HTTP)
		})
	}

	if cfg.Present.TUI {
		program := tea.NewProgram(NewLiveModel(scene.Graph, scene.Positions),
			tea.WithContext(gctx),
			tea.WithAltScreen(),
			tea.WithOutput(c.out),
		)
		presenters = append(presenters, newTUIPresenter(program.Send))
		opts.OnListen = func(addr string) { program.Send(listeningMsg(addr)) }
		g.Go(func() error {
			defer cancel()
			if _, err := program.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("terminal view: %w", err)
			}
			return nil
		})
	} else {
		opts.OnListen = func(addr string) {
			printInfo("Listening on %s", addr)
			printNextStep("Select a node", fmt.Sprintf("%s send <node> --addr %s", appName, addr))
		}
	}

	g.Go(func() error {
		return runner.Serve(gctx, scene, opts, presenters)
	})
	return g.Wait()
}
