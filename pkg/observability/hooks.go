// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about graph loading, layout, selection changes and inbound
// datagrams.
//
// # Architecture
//
// Each event category has a hook interface with a no-op default. Hooks are
// registered by main, never by libraries, so instrumented packages do not
// import any tracing or metrics framework. The telemetry package provides an
// OpenTelemetry implementation.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetSelectionHooks(&mySelectionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, g.NodeCount())
//	// ... run layout ...
//	observability.Pipeline().OnLayoutComplete(ctx, g.NodeCount(), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the startup phase.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, path string)
	OnLoadComplete(ctx context.Context, path string, nodes, edges int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, nodes int)
	OnLayoutComplete(ctx context.Context, nodes int, duration time.Duration, err error)
}

// =============================================================================
// Selection Hooks
// =============================================================================

// SelectionHooks receives events from the selection consumer.
type SelectionHooks interface {
	// OnSelect records a processed selection and the size of its batch.
	OnSelect(ctx context.Context, node string, instructions int, duration time.Duration)

	// OnUnknownNode records an event naming a node that is not in the graph.
	OnUnknownNode(ctx context.Context, node string)
}

// =============================================================================
// Transport Hooks
// =============================================================================

// TransportHooks receives events from the datagram listener.
type TransportHooks interface {
	// OnMalformed records a datagram rejected before it reached the queue.
	OnMalformed(ctx context.Context, err error)

	// OnDrop records a queued identifier evicted on overflow.
	OnDrop(ctx context.Context, node string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {}

// NoopSelectionHooks is a no-op implementation of SelectionHooks.
type NoopSelectionHooks struct{}

func (NoopSelectionHooks) OnSelect(context.Context, string, int, time.Duration) {}
func (NoopSelectionHooks) OnUnknownNode(context.Context, string)                {}

// NoopTransportHooks is a no-op implementation of TransportHooks.
type NoopTransportHooks struct{}

func (NoopTransportHooks) OnMalformed(context.Context, error) {}
func (NoopTransportHooks) OnDrop(context.Context, string)     {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks  PipelineHooks  = NoopPipelineHooks{}
	selectionHooks SelectionHooks = NoopSelectionHooks{}
	transportHooks TransportHooks = NoopTransportHooks{}
	hooksMu        sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetSelectionHooks registers custom selection hooks.
func SetSelectionHooks(h SelectionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		selectionHooks = h
	}
}

// SetTransportHooks registers custom transport hooks.
func SetTransportHooks(h TransportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transportHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Selection returns the registered selection hooks.
func Selection() SelectionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return selectionHooks
}

// Transport returns the registered transport hooks.
func Transport() TransportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transportHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	selectionHooks = NoopSelectionHooks{}
	transportHooks = NoopTransportHooks{}
}
