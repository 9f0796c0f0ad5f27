package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/matzehuels/nodelight/pkg/observability"
)

func recordingHooks(t *testing.T) (*Hooks, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewHooks(tp), rec
}

func spanNames(rec *tracetest.SpanRecorder) []string {
	var names []string
	for _, s := range rec.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func TestHooksRecordStartupSpans(t *testing.T) {
	h, rec := recordingHooks(t)
	ctx := context.Background()

	h.OnLoadStart(ctx, "g.json")
	h.OnLoadComplete(ctx, "g.json", 3, 2, time.Millisecond, nil)
	h.OnLayoutStart(ctx, 3)
	h.OnLayoutComplete(ctx, 3, time.Millisecond, errors.New("boom"))

	require.Equal(t, []string{"graph.load", "layout.run"}, spanNames(rec))
	assert.Equal(t, codes.Error, rec.Ended()[1].Status().Code)
}

func TestHooksCompleteWithoutStart(t *testing.T) {
	h, rec := recordingHooks(t)
	h.OnLayoutComplete(context.Background(), 0, 0, nil)
	h.OnLoadComplete(context.Background(), "", 0, 0, 0, nil)
	assert.Empty(t, rec.Ended())
}

func TestHooksRecordRuntimeSpans(t *testing.T) {
	h, rec := recordingHooks(t)
	ctx := context.Background()

	h.OnSelect(ctx, "A", 3, 2*time.Millisecond)
	h.OnUnknownNode(ctx, "ghost")
	h.OnMalformed(ctx, errors.New("empty"))
	h.OnDrop(ctx, "B")

	assert.Equal(t, []string{"selection.handle", "selection.unknown_node", "transport.malformed", "events.drop"}, spanNames(rec))
	sel := rec.Ended()[0]
	assert.GreaterOrEqual(t, sel.EndTime().Sub(sel.StartTime()), 2*time.Millisecond)
}

func TestRegister(t *testing.T) {
	defer observability.Reset()
	h, _ := recordingHooks(t)
	h.Register()
	assert.Same(t, h, observability.Selection())
	assert.Same(t, h, observability.Transport())
	assert.Same(t, h, observability.Pipeline())
}

func TestInitWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	shutdown, err := Init(context.Background(), Options{Version: "test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
