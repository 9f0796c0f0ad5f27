package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/nodelight/pkg/graph"
	"github.com/matzehuels/nodelight/pkg/layout"
	"github.com/matzehuels/nodelight/pkg/selection"
)

func newTestView(t *testing.T) (*httptest.Server, *selection.Controller) {
	t.Helper()
	g, err := graph.Load([]graph.Edge{{From: "A", To: "B"}, {From: "A", To: "C"}, {From: "D", To: "E"}},
		nil, map[string]string{"A": "Alpha"})
	require.NoError(t, err)
	cfg := layout.DefaultConfig()
	cfg.Seed = 3
	pos, err := layout.Run(g, cfg)
	require.NoError(t, err)

	rec := selection.NewRecorder()
	view := NewView(g, pos, cfg, rec, log.New(io.Discard))
	srv := httptest.NewServer(view.Routes())
	t.Cleanup(srv.Close)
	return srv, selection.NewController(g, pos, rec)
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(res.Body).Decode(into))
	return res.StatusCode
}

func TestLayoutEndpoint(t *testing.T) {
	srv, _ := newTestView(t)
	var doc layout.Document
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/layout", &doc))
	assert.Len(t, doc.Nodes, 5)
	assert.Len(t, doc.Edges, 3)
	assert.Equal(t, uint64(3), doc.Seed)
}

func TestSelectionEndpoint(t *testing.T) {
	srv, ctrl := newTestView(t)

	var state SelectionState
	getJSON(t, srv.URL+"/api/selection", &state)
	assert.Empty(t, state.Highlighted)
	assert.Zero(t, state.Commits)

	_, err := ctrl.Handle("D")
	require.NoError(t, err)
	getJSON(t, srv.URL+"/api/selection", &state)
	assert.Equal(t, []string{"D", "E"}, state.Highlighted)
	assert.Equal(t, 1, state.Commits)
}

func TestNodeEndpoint(t *testing.T) {
	srv, ctrl := newTestView(t)
	_, err := ctrl.Handle("B")
	require.NoError(t, err)

	var node NodeState
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/nodes/A", &node))
	assert.Equal(t, "A", node.ID)
	assert.Equal(t, "Alpha", node.Label)
	assert.Equal(t, []string{"B", "C"}, node.Neighbors)
	assert.True(t, node.Highlighted)

	var missing map[string]string
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/nodes/Z", &missing))
	assert.Contains(t, missing["error"], "Z")
}

func TestSnapshotEndpoint(t *testing.T) {
	srv, ctrl := newTestView(t)
	_, err := ctrl.Handle("A")
	require.NoError(t, err)

	res, err := http.Get(srv.URL + "/snapshot.svg")
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/svg+xml", res.Header.Get("Content-Type"))
	assert.True(t, strings.Contains(string(body), "<svg"))
}

func TestIndex(t *testing.T) {
	srv, _ := newTestView(t)
	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	assert.Contains(t, string(body), "/snapshot.svg")
}
