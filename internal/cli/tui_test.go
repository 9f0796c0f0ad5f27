package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/nodelight/pkg/graph"
	"github.com/matzehuels/nodelight/pkg/layout"
	"github.com/matzehuels/nodelight/pkg/selection"
)

func newTestLiveModel(t *testing.T) (LiveModel, *graph.Graph, *layout.Positions) {
	t.Helper()
	g, err := graph.Load([]graph.Edge{{From: "A", To: "B"}, {From: "B", To: "C"}, {From: "D", To: "E"}}, nil,
		map[string]string{"A": "Alpha"})
	if err != nil {
		t.Fatal(err)
	}
	cfg := layout.DefaultConfig()
	cfg.Seed = 1
	pos, err := layout.Run(g, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return NewLiveModel(g, pos), g, pos
}

func update(m LiveModel, msg tea.Msg) LiveModel {
	next, _ := m.Update(msg)
	return next.(LiveModel)
}

func TestLiveModelAppliesBatches(t *testing.T) {
	m, g, pos := newTestLiveModel(t)

	var sent []tea.Msg
	p := newTUIPresenter(func(msg tea.Msg) { sent = append(sent, msg) })
	ctrl := selection.NewController(g, pos, p)

	if _, err := ctrl.Handle("A"); err != nil {
		t.Fatal(err)
	}
	if _, err := ctrl.Handle("D"); err != nil {
		t.Fatal(err)
	}
	if len(sent) != 2 {
		t.Fatalf("sent %d batches, want 2", len(sent))
	}

	m = update(m, sent[0])
	if got := strings.Join(m.Highlighted(), ","); got != "A,B" {
		t.Errorf("Highlighted() after A = %s, want A,B", got)
	}
	if m.focus != "A" {
		t.Errorf("focus = %q, want A", m.focus)
	}

	m = update(m, sent[1])
	if got := strings.Join(m.Highlighted(), ","); got != "D,E" {
		t.Errorf("Highlighted() after D = %s, want D,E", got)
	}
	if m.batches != 2 {
		t.Errorf("batches = %d, want 2", m.batches)
	}
}

func TestTUIPresenterSkipsEmptyCommit(t *testing.T) {
	calls := 0
	p := newTUIPresenter(func(tea.Msg) { calls++ })
	p.Commit()
	if calls != 0 {
		t.Errorf("empty Commit sent %d messages", calls)
	}
}

func TestLiveModelView(t *testing.T) {
	m, _, _ := newTestLiveModel(t)
	m = update(m, listeningMsg("127.0.0.1:6005"))
	m = update(m, batchMsg{{Node: "A", Selected: true}, {Node: "B", Selected: true}})

	view := m.View()
	for _, want := range []string{appName, "127.0.0.1:6005", "Alpha", iconMarker, "2/5 highlighted"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestLiveModelFilterAndScroll(t *testing.T) {
	m, _, _ := newTestLiveModel(t)
	m = update(m, batchMsg{{Node: "D", Selected: true}, {Node: "E", Selected: true}})

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	if !m.OnlyHighlighted {
		t.Fatal("h did not enable the filter")
	}
	if got := len(m.visible()); got != 2 {
		t.Errorf("visible rows = %d, want 2", got)
	}

	for range 5 {
		m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1 (clamped)", m.Cursor)
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}
}

func TestLiveModelQuit(t *testing.T) {
	m, _, _ := newTestLiveModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestLiveModelSpinnerStopsWhenListening(t *testing.T) {
	m, _, _ := newTestLiveModel(t)
	if m.Init() == nil {
		t.Fatal("Init() returned no spinner tick")
	}
	if !strings.Contains(m.View(), "binding listener") {
		t.Error("View() before listening should show the binding indicator")
	}

	m = update(m, listeningMsg("127.0.0.1:6005"))
	if _, cmd := m.Update(spinner.TickMsg{}); cmd != nil {
		t.Error("spinner kept ticking after the listener was bound")
	}
}
