package selection

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"
)

// Instruction tells the presentation layer to set one node's highlight state.
type Instruction struct {
	Node     string // Node identifier
	Label    string // Display label
	At       r2.Vec // Position from the published layout
	Selected bool   // true = highlight, false = un-highlight
}

// Presenter applies highlight instructions. ApplyHighlight must not block
// for long; its return value is not inspected.
type Presenter interface {
	ApplyHighlight(Instruction)
}

// Committer is implemented by presenters that redraw once per batch.
type Committer interface {
	Commit()
}

// NoopPresenter discards all instructions.
type NoopPresenter struct{}

func (NoopPresenter) ApplyHighlight(Instruction) {}

// Multi fans instructions out to several presenters in order.
type Multi []Presenter

// ApplyHighlight forwards the instruction to every presenter.
func (m Multi) ApplyHighlight(ins Instruction) {
	for _, p := range m {
		p.ApplyHighlight(ins)
	}
}

// Commit forwards to every presenter that implements Committer.
func (m Multi) Commit() {
	for _, p := range m {
		if c, ok := p.(Committer); ok {
			c.Commit()
		}
	}
}

// Recorder tracks the highlighted set and the full instruction history.
// Instructions take effect on Commit, so readers never observe a
// half-applied batch.
type Recorder struct {
	mu          sync.RWMutex
	highlighted map[string]Instruction
	pending     []Instruction
	history     []Instruction
	commits     int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{highlighted: make(map[string]Instruction)}
}

// ApplyHighlight records the instruction and queues it for the next Commit.
func (r *Recorder) ApplyHighlight(ins Instruction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, ins)
	r.pending = append(r.pending, ins)
}

// Commit applies the queued instructions as one batch.
func (r *Recorder) Commit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ins := range r.pending {
		if ins.Selected {
			r.highlighted[ins.Node] = ins
		} else {
			delete(r.highlighted, ins.Node)
		}
	}
	r.pending = r.pending[:0]
	r.commits++
}

// Highlighted returns the committed highlighted node ids, sorted.
func (r *Recorder) Highlighted() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.highlighted))
	for id := range r.highlighted {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// IsHighlighted reports whether id is currently highlighted.
func (r *Recorder) IsHighlighted(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.highlighted[id]
	return ok
}

// History returns a copy of every instruction received.
func (r *Recorder) History() []Instruction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.history)
}

// Commits returns the number of completed batches.
func (r *Recorder) Commits() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commits
}

// LogPresenter writes every instruction at debug level and a summary per
// batch at info level.
type LogPresenter struct {
	Logger *log.Logger
	on     []string
	off    int
}

func (p *LogPresenter) logger() *log.Logger {
	if p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}

// ApplyHighlight logs the instruction.
func (p *LogPresenter) ApplyHighlight(ins Instruction) {
	p.logger().Debug("highlight", "node", ins.Node, "selected", ins.Selected, "x", ins.At.X, "y", ins.At.Y)
	if ins.Selected {
		p.on = append(p.on, ins.Node)
	} else {
		p.off++
	}
}

// Commit logs the batch summary.
func (p *LogPresenter) Commit() {
	if len(p.on) > 0 || p.off > 0 {
		p.logger().Info("selection changed", "highlighted", p.on, "cleared", p.off)
	}
	p.on, p.off = nil, 0
}
