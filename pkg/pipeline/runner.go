package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/nodelight/pkg/errors"
	"github.com/matzehuels/nodelight/pkg/events"
	"github.com/matzehuels/nodelight/pkg/graph"
	"github.com/matzehuels/nodelight/pkg/layout"
	"github.com/matzehuels/nodelight/pkg/observability"
	"github.com/matzehuels/nodelight/pkg/selection"
	"github.com/matzehuels/nodelight/pkg/source"
	"github.com/matzehuels/nodelight/pkg/transport/udp"
)

// Runner executes pipeline phases.
//
// The Runner is stateless except for the logger - it doesn't store scenes.
// Multiple goroutines can safely use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// =============================================================================
// Prepare
// =============================================================================

// Prepare loads the graph and computes its layout once.
func (r *Runner) Prepare(ctx context.Context, opts Options) (*Scene, error) {
	if err := opts.ValidateForPrepare(); err != nil {
		return nil, err
	}

	g, loadTime, err := r.Load(ctx, opts.GraphPath, opts.GraphFormat)
	if err != nil {
		return nil, err
	}

	pos, layoutTime, err := r.Layout(ctx, g, opts.Layout)
	if err != nil {
		return nil, err
	}

	return &Scene{
		Graph:     g,
		Positions: pos,
		Stats: Stats{
			NodeCount:  g.NodeCount(),
			EdgeCount:  g.EdgeCount(),
			Discarded:  g.Discarded(),
			LoadTime:   loadTime,
			LayoutTime: layoutTime,
		},
	}, nil
}

// Load reads and builds the graph at path.
func (r *Runner) Load(ctx context.Context, path string, format source.Format) (*graph.Graph, time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)

	start := time.Now()
	g, err := source.LoadGraph(path, format)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnLoadComplete(ctx, path, 0, 0, elapsed, err)
		return nil, elapsed, err
	}
	hooks.OnLoadComplete(ctx, path, g.NodeCount(), g.EdgeCount(), elapsed, nil)

	r.Logger.Info("loaded graph",
		"path", path,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", elapsed)
	if d := g.Discarded(); d.SelfLoops > 0 || d.Duplicates > 0 {
		r.Logger.Warn("ignored edges", "self_loops", d.SelfLoops, "duplicates", d.Duplicates)
	}
	return g, elapsed, nil
}

// Layout runs the force-directed layout on g.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, cfg layout.Config) (*layout.Positions, time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.NodeCount())

	start := time.Now()
	pos, err := layout.Run(g, cfg)
	elapsed := time.Since(start)
	hooks.OnLayoutComplete(ctx, g.NodeCount(), elapsed, err)
	if err != nil {
		return nil, elapsed, err
	}

	r.Logger.Info("computed layout",
		"nodes", pos.Len(),
		"iterations", cfg.Iterations,
		"seed", pos.Seed(),
		"duration", elapsed)
	return pos, elapsed, nil
}

// =============================================================================
// Serve
// =============================================================================

// Serve binds the listener and applies every received selection to
// presenter until ctx is cancelled. Only startup failures are returned;
// a cancelled context yields nil. The scene may come from anywhere, so
// only the listener and queue options are checked.
func (r *Runner) Serve(ctx context.Context, scene *Scene, opts Options, presenter selection.Presenter) error {
	if err := opts.ValidateForServe(); err != nil {
		return err
	}
	logger := opts.logger(r.Logger).With("run", uuid.NewString()[:8])

	transport := observability.Transport()
	ch := events.NewChannel(opts.QueueSize, events.WithDropHandler(func(id string) {
		logger.Warn("event queue full, dropped oldest selection", "node", id)
		transport.OnDrop(ctx, id)
	}))

	ln, err := udp.Listen(ctx, opts.Listen,
		udp.WithLogger(logger),
		udp.WithErrorHandler(func(err error) {
			if errors.Is(err, errors.ErrCodeDecode) {
				transport.OnMalformed(ctx, err)
			}
		}))
	if err != nil {
		return err
	}
	addr := ln.Addr().String()
	logger.Info("listening", "addr", addr, "nodes", scene.Stats.NodeCount)
	if opts.OnListen != nil {
		opts.OnListen(addr)
	}

	var ctrlOpts []selection.Option
	if opts.DeltaOnly {
		ctrlOpts = append(ctrlOpts, selection.WithDeltaOnly())
	}
	ctrl := selection.NewController(scene.Graph, scene.Positions, presenter, ctrlOpts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer ch.Close()
		return ln.Serve(gctx, ch)
	})
	g.Go(func() error {
		return r.consume(gctx, ch, ctrl, opts.ClearToken, logger)
	})
	err = g.Wait()
	logger.Info("stopped", "dropped", ch.Dropped())
	return err
}

// consume applies queued selections in order until the channel closes.
func (r *Runner) consume(ctx context.Context, ch *events.Channel, ctrl *selection.Controller, clearToken string, logger *log.Logger) error {
	hooks := observability.Selection()
	for {
		id, err := ch.Receive(ctx)
		if err != nil {
			if stderrors.Is(err, events.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		if clearToken != "" && id == clearToken {
			batch := ctrl.Clear()
			logger.Info("cleared selection", "instructions", len(batch))
			continue
		}

		start := time.Now()
		batch, err := ctrl.Handle(id)
		if err != nil {
			if errors.Fatal(err) {
				return err
			}
			logger.Warn("ignored selection", "node", id, "err", errors.UserMessage(err))
			hooks.OnUnknownNode(ctx, id)
			continue
		}
		if len(batch) == 0 {
			logger.Debug("selection unchanged", "node", id)
			continue
		}
		hooks.OnSelect(ctx, id, len(batch), time.Since(start))
		logger.Debug("selected", "node", id, "instructions", len(batch))
	}
}
