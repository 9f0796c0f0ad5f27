package selection

import (
	"slices"

	"github.com/matzehuels/nodelight/pkg/errors"
	"github.com/matzehuels/nodelight/pkg/graph"
	"github.com/matzehuels/nodelight/pkg/layout"
)

// Option configures a Controller.
type Option func(*Controller)

// WithDeltaOnly emits only the symmetric difference between the old and new
// highlight sets instead of a full un-highlight/highlight sequence.
func WithDeltaOnly() Option {
	return func(c *Controller) { c.deltaOnly = true }
}

// Controller is the selection state machine.
type Controller struct {
	graph     *graph.Graph
	positions *layout.Positions
	presenter Presenter
	deltaOnly bool

	current string
	active  bool
}

// NewController creates a controller with no selection. A nil presenter
// discards instructions; nil positions leave Instruction.At at the origin.
func NewController(g *graph.Graph, pos *layout.Positions, p Presenter, opts ...Option) *Controller {
	if p == nil {
		p = NoopPresenter{}
	}
	c := &Controller{graph: g, positions: pos, presenter: p}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current returns the selected node, if any.
func (c *Controller) Current() (string, bool) { return c.current, c.active }

// Highlighted returns {current} ∪ neighbors(current) in graph order, or nil
// when nothing is selected.
func (c *Controller) Highlighted() []string {
	if !c.active {
		return nil
	}
	set := c.setOf(c.current)
	slices.SortFunc(set, func(a, b string) int {
		i, _ := c.graph.IndexOf(a)
		j, _ := c.graph.IndexOf(b)
		return i - j
	})
	return set
}

// Handle selects id and returns the instructions it delivered to the
// presenter, in delivery order.
//
// An id that is not in the graph fails with UNKNOWN_NODE_SELECTED and
// changes nothing. Selecting the current node again returns no instructions.
func (c *Controller) Handle(id string) ([]Instruction, error) {
	if !c.graph.Has(id) {
		return nil, errors.New(errors.ErrCodeUnknownNodeSelected, "node %q is not in the graph", id)
	}
	if c.active && c.current == id {
		return nil, nil
	}

	next := c.setOf(id)
	var prev []string
	if c.active {
		prev = c.setOf(c.current)
	}

	off, on := prev, next
	if c.deltaOnly {
		off = without(prev, next)
		on = without(next, prev)
	}

	batch := make([]Instruction, 0, len(off)+len(on))
	for _, n := range off {
		batch = append(batch, c.instruction(n, false))
	}
	for _, n := range on {
		batch = append(batch, c.instruction(n, true))
	}

	c.current, c.active = id, true
	c.deliver(batch)
	return batch, nil
}

// Clear un-highlights the current selection and returns the instructions
// delivered. It is a no-op when nothing is selected.
func (c *Controller) Clear() []Instruction {
	if !c.active {
		return nil
	}
	prev := c.setOf(c.current)
	batch := make([]Instruction, 0, len(prev))
	for _, n := range prev {
		batch = append(batch, c.instruction(n, false))
	}
	c.current, c.active = "", false
	c.deliver(batch)
	return batch
}

func (c *Controller) deliver(batch []Instruction) {
	for _, ins := range batch {
		c.presenter.ApplyHighlight(ins)
	}
	if cm, ok := c.presenter.(Committer); ok {
		cm.Commit()
	}
}

// setOf returns id followed by its neighbors. id must be known.
func (c *Controller) setOf(id string) []string {
	nbrs, _ := c.graph.Neighbors(id)
	return append([]string{id}, nbrs...)
}

func (c *Controller) instruction(id string, selected bool) Instruction {
	ins := Instruction{Node: id, Label: id, Selected: selected}
	if n, ok := c.graph.Node(id); ok {
		ins.Label = n.DisplayLabel()
	}
	if c.positions != nil {
		ins.At, _ = c.positions.Get(id)
	}
	return ins
}

// without returns the elements of a that are not in b, preserving order.
func without(a, b []string) []string {
	out := make([]string, 0, len(a))
	for _, x := range a {
		if !slices.Contains(b, x) {
			out = append(out, x)
		}
	}
	return out
}
