package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/nodelight/pkg/observability"
)

const instrumentation = "github.com/matzehuels/nodelight"

var (
	_ observability.PipelineHooks  = (*Hooks)(nil)
	_ observability.SelectionHooks = (*Hooks)(nil)
	_ observability.TransportHooks = (*Hooks)(nil)
)

// Hooks records observability events as spans.
type Hooks struct {
	tracer trace.Tracer

	mu     sync.Mutex
	load   trace.Span
	layout trace.Span
}

// NewHooks creates hooks using tp, or the global provider when tp is nil.
func NewHooks(tp trace.TracerProvider) *Hooks {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Hooks{tracer: tp.Tracer(instrumentation)}
}

// Register installs h for every hook category.
func (h *Hooks) Register() {
	observability.SetPipelineHooks(h)
	observability.SetSelectionHooks(h)
	observability.SetTransportHooks(h)
}

func (h *Hooks) OnLoadStart(ctx context.Context, path string) {
	_, span := h.tracer.Start(ctx, "graph.load", trace.WithAttributes(attribute.String("graph.path", path)))
	h.mu.Lock()
	h.load = span
	h.mu.Unlock()
}

func (h *Hooks) OnLoadComplete(_ context.Context, _ string, nodes, edges int, _ time.Duration, err error) {
	h.mu.Lock()
	span := h.load
	h.load = nil
	h.mu.Unlock()
	if span == nil {
		return
	}
	span.SetAttributes(attribute.Int("graph.nodes", nodes), attribute.Int("graph.edges", edges))
	end(span, err)
}

func (h *Hooks) OnLayoutStart(ctx context.Context, nodes int) {
	_, span := h.tracer.Start(ctx, "layout.run", trace.WithAttributes(attribute.Int("graph.nodes", nodes)))
	h.mu.Lock()
	h.layout = span
	h.mu.Unlock()
}

func (h *Hooks) OnLayoutComplete(_ context.Context, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	span := h.layout
	h.layout = nil
	h.mu.Unlock()
	if span != nil {
		end(span, err)
	}
}

func (h *Hooks) OnSelect(ctx context.Context, node string, instructions int, d time.Duration) {
	now := time.Now()
	_, span := h.tracer.Start(ctx, "selection.handle",
		trace.WithTimestamp(now.Add(-d)),
		trace.WithAttributes(
			attribute.String("selection.node", node),
			attribute.Int("selection.instructions", instructions),
		))
	span.End(trace.WithTimestamp(now))
}

func (h *Hooks) OnUnknownNode(ctx context.Context, node string) {
	_, span := h.tracer.Start(ctx, "selection.unknown_node",
		trace.WithAttributes(attribute.String("selection.node", node)))
	span.SetStatus(codes.Error, "unknown node")
	span.End()
}

func (h *Hooks) OnMalformed(ctx context.Context, err error) {
	_, span := h.tracer.Start(ctx, "transport.malformed")
	end(span, err)
}

func (h *Hooks) OnDrop(ctx context.Context, node string) {
	_, span := h.tracer.Start(ctx, "events.drop",
		trace.WithAttributes(attribute.String("selection.node", node)))
	span.End()
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
