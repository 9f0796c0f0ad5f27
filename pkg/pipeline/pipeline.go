// Package pipeline runs the nodelight visualizer from graph file to live
// highlight updates.
//
// This package implements the load → layout → serve sequence shared by the
// CLI commands. By centralizing it, "serve", "layout" and "render" behave
// identically on the same inputs.
//
// # Architecture
//
// The pipeline has two phases:
//
//  1. Prepare: load the graph file and run the force-directed layout once.
//     The resulting [Scene] is immutable and shared read-only afterwards.
//  2. Serve: bind the UDP listener, then run the receiver and the selection
//     consumer concurrently until the context is cancelled. The two sides
//     communicate only through an [events.Channel].
//
// Startup failures (bad graph, bad layout config, bind failure) are returned
// to the caller. Failures on individual events are logged and skipped.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.DefaultOptions()
//	opts.GraphPath = "saint-sim.gexf"
//	scene, err := runner.Prepare(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	err = runner.Serve(ctx, scene, opts, presenter)
package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodelight/pkg/errors"
	"github.com/matzehuels/nodelight/pkg/events"
	"github.com/matzehuels/nodelight/pkg/graph"
	"github.com/matzehuels/nodelight/pkg/layout"
	"github.com/matzehuels/nodelight/pkg/source"
	"github.com/matzehuels/nodelight/pkg/transport/udp"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config
// =============================================================================

const (
	// DefaultQueueSize is the event queue capacity before the oldest
	// pending selection is dropped.
	DefaultQueueSize = events.DefaultCapacity

	// DefaultScale is the layout extent used by the CLI. It matches the
	// drawing area the positions are meant for.
	DefaultScale = 1000.0
)

// DefaultAddress is the UDP endpoint listened on by default.
const DefaultAddress = udp.DefaultAddress

// Format constants for rendered outputs.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Graph options
	GraphPath   string        `json:"graph_path"`
	GraphFormat source.Format `json:"graph_format,omitempty"`

	// Layout options
	Layout layout.Config `json:"layout"`

	// Serve options
	Listen     string `json:"listen,omitempty"`
	QueueSize  int    `json:"queue_size,omitempty"`
	ClearToken string `json:"clear_token,omitempty"` // payload that clears the selection; empty disables
	DeltaOnly  bool   `json:"delta_only,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger       `json:"-"`
	OnListen func(addr string) `json:"-"` // called once the listener is bound
}

// DefaultOptions returns options with every default applied.
func DefaultOptions() Options {
	cfg := layout.DefaultConfig()
	cfg.Scale = DefaultScale
	return Options{
		Layout:    cfg,
		Listen:    DefaultAddress,
		QueueSize: DefaultQueueSize,
	}
}

// Scene is the published result of the startup phase. It is never
// modified after Prepare returns.
type Scene struct {
	Graph     *graph.Graph
	Positions *layout.Positions
	Stats     Stats
}

// Stats contains startup statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Discarded  graph.Discarded
	LoadTime   time.Duration
	LayoutTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		names := make([]string, 0, len(ValidFormats))
		for f := range ValidFormats {
			names = append(names, f)
		}
		slices.Sort(names)
		return errors.New(errors.ErrCodeInvalidConfig, "invalid format: %q (must be one of: %s)", format, strings.Join(names, ", "))
	}
	return nil
}

// ValidateForPrepare checks the options used by Prepare.
func (o Options) ValidateForPrepare() error {
	if o.GraphPath == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "graph path is required")
	}
	if _, err := source.ParseFormat(string(o.GraphFormat)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "graph format")
	}
	return o.Layout.Validate()
}

// ValidateForServe checks the options used by Serve.
func (o Options) ValidateForServe() error {
	if o.QueueSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "queue size must not be negative, got %d", o.QueueSize)
	}
	if o.ClearToken != "" {
		if err := errors.ValidateNodeID(o.ClearToken); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "clear token")
		}
	}
	return nil
}

// Validate checks every option.
func (o Options) Validate() error {
	if err := o.ValidateForPrepare(); err != nil {
		return err
	}
	return o.ValidateForServe()
}

// logger returns the options' logger, falling back to fallback.
func (o Options) logger(fallback *log.Logger) *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return fallback
}

func (s *Scene) String() string {
	return fmt.Sprintf("%d nodes, %d edges", s.Stats.NodeCount, s.Stats.EdgeCount)
}
