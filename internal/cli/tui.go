package cli

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/nodelight/pkg/graph"
	"github.com/matzehuels/nodelight/pkg/layout"
	"github.com/matzehuels/nodelight/pkg/selection"
)

// List styles
var (
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listCursorStyle   = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("236"))
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listSelectedStyle = StyleSelected
)

// liveKeys are the key bindings of the live view.
type liveKeys struct {
	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Quit   key.Binding
}

func defaultLiveKeys() liveKeys {
	return liveKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Filter: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "highlighted only")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k liveKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Filter, k.Quit}
}

// =============================================================================
// Messages
// =============================================================================

// batchMsg carries one committed selection batch into the program.
type batchMsg []selection.Instruction

// listeningMsg reports the bound UDP address.
type listeningMsg string

// =============================================================================
// Presenter
// =============================================================================

// tuiPresenter buffers instructions and hands each batch to the program
// on Commit. It is driven by a single goroutine.
type tuiPresenter struct {
	send    func(tea.Msg)
	pending []selection.Instruction
}

func newTUIPresenter(send func(tea.Msg)) *tuiPresenter {
	return &tuiPresenter{send: send}
}

func (p *tuiPresenter) ApplyHighlight(ins selection.Instruction) {
	p.pending = append(p.pending, ins)
}

func (p *tuiPresenter) Commit() {
	if len(p.pending) == 0 {
		return
	}
	batch := p.pending
	p.pending = nil
	p.send(batchMsg(batch))
}

// =============================================================================
// LiveModel - Node list with highlight state
// =============================================================================

type nodeRow struct {
	node   graph.Node
	x, y   float64
	degree int
}

// LiveModel is the bubbletea model for serve --tui. It lists every node in
// graph order and marks the highlighted ones.
type LiveModel struct {
	rows        []nodeRow
	highlighted map[string]bool
	focus       string
	addr        string
	batches     int
	keys        liveKeys
	help        help.Model
	spinner     spinner.Model

	// OnlyHighlighted hides nodes that are not highlighted.
	OnlyHighlighted bool

	Cursor int
	Offset int
	Height int
}

// NewLiveModel creates a model for the laid out graph.
func NewLiveModel(g *graph.Graph, pos *layout.Positions) LiveModel {
	nodes := g.Nodes()
	rows := make([]nodeRow, len(nodes))
	for i, n := range nodes {
		at, _ := pos.Get(n.ID)
		rows[i] = nodeRow{node: n, x: at.X, y: at.Y, degree: g.Degree(n.ID)}
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleIconSpinner
	return LiveModel{
		rows:        rows,
		highlighted: make(map[string]bool),
		keys:        defaultLiveKeys(),
		help:        help.New(),
		spinner:     s,
		Height:      15,
	}
}

func (m LiveModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.move(-1)
		case key.Matches(msg, m.keys.Down):
			m.move(1)
		case key.Matches(msg, m.keys.Filter):
			m.OnlyHighlighted = !m.OnlyHighlighted
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.help.Width = msg.Width
	case spinner.TickMsg:
		// The spinner only runs until the listener is bound.
		if m.addr != "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case listeningMsg:
		m.addr = string(msg)
	case batchMsg:
		m.apply(msg)
	}
	return m, nil
}

// apply updates the highlight state from one batch. The first node
// switched on is the selection itself.
func (m *LiveModel) apply(batch batchMsg) {
	m.highlighted = maps.Clone(m.highlighted)
	m.focus = ""
	for _, ins := range batch {
		if ins.Selected {
			m.highlighted[ins.Node] = true
			if m.focus == "" {
				m.focus = ins.Node
			}
		} else {
			delete(m.highlighted, ins.Node)
		}
	}
	m.batches++
	if m.OnlyHighlighted {
		m.Cursor, m.Offset = 0, 0
	}
}

func (m *LiveModel) move(delta int) {
	n := len(m.visible())
	m.Cursor = min(max(m.Cursor+delta, 0), max(n-1, 0))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// visible returns the indexes of the rows currently listed.
func (m LiveModel) visible() []int {
	idx := make([]int, 0, len(m.rows))
	for i, r := range m.rows {
		if !m.OnlyHighlighted || m.highlighted[r.node.ID] {
			idx = append(idx, i)
		}
	}
	return idx
}

// Highlighted returns the highlighted node ids in graph order.
func (m LiveModel) Highlighted() []string {
	var out []string
	for _, r := range m.rows {
		if m.highlighted[r.node.ID] {
			out = append(out, r.node.ID)
		}
	}
	return out
}

func (m LiveModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	if m.addr != "" {
		b.WriteString(listDimStyle.Render("  listening on " + m.addr))
	} else {
		b.WriteString("  " + m.spinner.View() + listDimStyle.Render(" binding listener"))
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	b.WriteString("\n\n")

	vis := m.visible()
	end := min(m.Offset+m.Height, len(vis))
	start := min(m.Offset, end)
	shown := vis[start:end]

	rows := make([][]string, 0, len(shown))
	for _, i := range shown {
		r := m.rows[i]
		marker := " "
		if m.highlighted[r.node.ID] {
			marker = iconMarker
		}
		rows = append(rows, []string{
			marker,
			r.node.ID,
			r.node.DisplayLabel(),
			strconv.FormatFloat(r.x, 'f', 1, 64),
			strconv.FormatFloat(r.y, 'f', 1, 64),
			strconv.Itoa(r.degree),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Label", "X", "Y", "Deg").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if row >= len(shown) {
				return lipgloss.NewStyle()
			}
			r := m.rows[shown[row]]
			style := listNormalStyle
			switch {
			case r.node.ID == m.focus:
				style = listSelectedStyle.Underline(true)
			case m.highlighted[r.node.ID]:
				style = listSelectedStyle
			case col >= 3:
				style = listDimStyle
			}
			if start+row == m.Cursor {
				style = style.Inherit(listCursorStyle).Bold(true)
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d/%d highlighted · %d updates",
		len(m.highlighted), len(m.rows), m.batches)))

	return b.String()
}
