package nodelink

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodelight/pkg/graph"
	"github.com/matzehuels/nodelight/pkg/layout"
	"github.com/matzehuels/nodelight/pkg/selection"
)

// SnapshotPresenter redraws the graph to an SVG file after every committed
// selection batch. It implements [selection.Presenter] and
// [selection.Committer].
type SnapshotPresenter struct {
	graph     *graph.Graph
	positions *layout.Positions
	path      string
	opts      Options
	logger    *log.Logger

	mu          sync.Mutex
	highlighted map[string]bool
	last        []byte
	writes      int
}

// NewSnapshotPresenter creates a presenter writing to path. A nil logger
// uses log.Default().
func NewSnapshotPresenter(g *graph.Graph, pos *layout.Positions, path string, opts Options, logger *log.Logger) *SnapshotPresenter {
	if logger == nil {
		logger = log.Default()
	}
	return &SnapshotPresenter{
		graph:       g,
		positions:   pos,
		path:        path,
		opts:        opts,
		logger:      logger,
		highlighted: make(map[string]bool),
	}
}

// ApplyHighlight updates the pending highlight state.
func (s *SnapshotPresenter) ApplyHighlight(ins selection.Instruction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ins.Selected {
		s.highlighted[ins.Node] = true
	} else {
		delete(s.highlighted, ins.Node)
	}
}

// Commit renders the current state and replaces the snapshot file.
// Failures are logged; the previous snapshot stays in place.
func (s *SnapshotPresenter) Commit() {
	if err := s.Flush(context.Background()); err != nil {
		s.logger.Error("snapshot failed", "path", s.path, "err", err)
	}
}

// Flush renders and writes the snapshot immediately.
func (s *SnapshotPresenter) Flush(ctx context.Context) error {
	s.mu.Lock()
	opts := s.opts
	opts.Highlighted = make(map[string]bool, len(s.highlighted))
	for id := range s.highlighted {
		opts.Highlighted[id] = true
	}
	s.mu.Unlock()

	svg, err := RenderSVG(ctx, ToDOT(s.graph, s.positions, opts))
	if err != nil {
		return err
	}
	if s.path != "" {
		if err := writeAtomic(s.path, svg); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.last = svg
	s.writes++
	s.mu.Unlock()
	s.logger.Debug("wrote snapshot", "path", s.path, "highlighted", len(opts.Highlighted))
	return nil
}

// SVG returns the most recently rendered snapshot, or nil before the first
// commit.
func (s *SnapshotPresenter) SVG() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Writes returns how many snapshots have been rendered.
func (s *SnapshotPresenter) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
