package web

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/nodelight/pkg/graph"
	"github.com/matzehuels/nodelight/pkg/layout"
	"github.com/matzehuels/nodelight/pkg/render/nodelink"
	"github.com/matzehuels/nodelight/pkg/selection"
)

// DefaultAddress is used when ListenAndServe gets an empty address.
const DefaultAddress = "127.0.0.1:8080"

// View serves the graph, its layout and the live highlight state.
type View struct {
	graph     *graph.Graph
	positions *layout.Positions
	recorder  *selection.Recorder
	logger    *log.Logger
	document  layout.Document
}

// NewView creates a view. cfg is echoed in the layout document. A nil
// logger uses log.Default().
func NewView(g *graph.Graph, pos *layout.Positions, cfg layout.Config, rec *selection.Recorder, logger *log.Logger) *View {
	if logger == nil {
		logger = log.Default()
	}
	return &View{
		graph:     g,
		positions: pos,
		recorder:  rec,
		logger:    logger,
		document:  layout.Export(g, pos, cfg),
	}
}

// Routes returns the view's HTTP handler.
func (v *View) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(v.logRequests)

	r.Get("/", v.handleIndex)
	r.Get("/snapshot.svg", v.handleSnapshot)
	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", v.handleLayout)
		r.Get("/selection", v.handleSelection)
		r.Get("/nodes/{id}", v.handleNode)
	})
	return r
}

// ListenAndServe serves the view on addr until ctx is cancelled.
func (v *View) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddress
	}
	server := &http.Server{
		Addr:         addr,
		Handler:      v.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- server.ListenAndServe() }()
	v.logger.Info("http view", "addr", "http://"+addr)

	select {
	case err := <-errc:
		return fmt.Errorf("http view: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (v *View) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		v.logger.Debug("http", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

// SelectionState is the body of GET /api/selection.
type SelectionState struct {
	Highlighted []string `json:"highlighted"`
	Commits     int      `json:"commits"`
}

// NodeState is the body of GET /api/nodes/{id}.
type NodeState struct {
	layout.PlacedNode
	Neighbors   []string `json:"neighbors"`
	Highlighted bool     `json:"highlighted"`
}

func (v *View) handleLayout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, v.document)
}

func (v *View) handleSelection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SelectionState{
		Highlighted: v.recorder.Highlighted(),
		Commits:     v.recorder.Commits(),
	})
}

func (v *View) handleNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, ok := v.graph.Node(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("node %q not found", id)})
		return
	}
	nbrs, _ := v.graph.Neighbors(id)
	p, _ := v.positions.Get(id)
	writeJSON(w, http.StatusOK, NodeState{
		PlacedNode:  layout.PlacedNode{ID: n.ID, Label: n.Label, X: p.X, Y: p.Y},
		Neighbors:   nbrs,
		Highlighted: v.recorder.IsHighlighted(id),
	})
}

func (v *View) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	highlighted := make(map[string]bool)
	for _, id := range v.recorder.Highlighted() {
		highlighted[id] = true
	}
	dot := nodelink.ToDOT(v.graph, v.positions, nodelink.Options{Highlighted: highlighted, Labels: true})
	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		v.logger.Error("render snapshot", "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(svg)
}

func (v *View) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>nodelight</title>
  <style>
    body { font-family: 'Helvetica Neue', Arial, sans-serif; margin: 0; background: #f5f5f5; }
    #graph { display: block; margin: 20px auto; max-width: 95vw; max-height: 90vh; }
    #status { text-align: center; color: #555; }
  </style>
</head>
<body>
  <img id="graph" src="/snapshot.svg" alt="graph">
  <p id="status"></p>
  <script>
    let commits = -1;
    async function poll() {
      const res = await fetch('/api/selection');
      const sel = await res.json();
      if (sel.commits !== commits) {
        commits = sel.commits;
        document.getElementById('graph').src = '/snapshot.svg?c=' + commits;
        document.getElementById('status').textContent = sel.highlighted.join(', ');
      }
    }
    setInterval(poll, 500);
  </script>
</body>
</html>
`
