package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/nodelight/pkg/errors"
	"github.com/matzehuels/nodelight/pkg/graph"
)

const tolerance = 1e-9

func mustGraph(t *testing.T, edges []graph.Edge, nodes []string) *graph.Graph {
	t.Helper()
	g, err := graph.Load(edges, nodes, nil)
	require.NoError(t, err)
	return g
}

func seeded(seed uint64) Config {
	cfg := DefaultConfig()
	cfg.Seed = seed
	return cfg
}

func assertFiniteWithin(t *testing.T, pos *Positions, scale float64) {
	t.Helper()
	for id, p := range pos.All() {
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y), "%s is NaN", id)
		assert.False(t, math.IsInf(p.X, 0) || math.IsInf(p.Y, 0), "%s is Inf", id)
		assert.GreaterOrEqual(t, p.X, -tolerance, "%s.X below 0", id)
		assert.GreaterOrEqual(t, p.Y, -tolerance, "%s.Y below 0", id)
		assert.LessOrEqual(t, p.X, scale+tolerance, "%s.X above scale", id)
		assert.LessOrEqual(t, p.Y, scale+tolerance, "%s.Y above scale", id)
	}
}

func extent(pos *Positions) float64 {
	b := pos.Bounds()
	return max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
}

func TestRunPositionsEveryNode(t *testing.T) {
	tests := []struct {
		name  string
		edges []graph.Edge
		nodes []string
	}{
		{"path", []graph.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "d"}}, nil},
		{"star", []graph.Edge{{From: "h", To: "1"}, {From: "h", To: "2"}, {From: "h", To: "3"}, {From: "h", To: "4"}}, nil},
		{"disconnected", []graph.Edge{{From: "A", To: "B"}, {From: "A", To: "C"}, {From: "D", To: "E"}}, nil},
		{"no edges", nil, []string{"x", "y", "z"}},
		{"two nodes", []graph.Edge{{From: "a", To: "b"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGraph(t, tt.edges, tt.nodes)
			cfg := seeded(7)
			cfg.Scale = 250

			pos, err := Run(g, cfg)
			require.NoError(t, err)

			assert.Equal(t, g.NodeCount(), pos.Len())
			for _, id := range g.NodeIDs() {
				_, ok := pos.Get(id)
				assert.True(t, ok, "missing position for %s", id)
			}
			assertFiniteWithin(t, pos, cfg.Scale)
			assert.InDelta(t, cfg.Scale, extent(pos), 1e-6)

			b := pos.Bounds()
			assert.InDelta(t, 0, b.Min.X, tolerance)
			assert.InDelta(t, 0, b.Min.Y, tolerance)
		})
	}
}

func TestRunTriangleScenario(t *testing.T) {
	g := mustGraph(t, []graph.Edge{{From: "1", To: "2"}, {From: "2", To: "3"}, {From: "3", To: "1"}}, nil)
	cfg := DefaultConfig()
	cfg.Scale = 1000

	pos, err := Run(g, cfg)
	require.NoError(t, err)
	require.Equal(t, 3, pos.Len())
	assertFiniteWithin(t, pos, 1000)
	assert.NotZero(t, pos.Seed())
}

func TestRunSingleNode(t *testing.T) {
	g := mustGraph(t, nil, []string{"only"})

	for _, iterations := range []int{1, 10, 500} {
		cfg := DefaultConfig()
		cfg.Iterations = iterations
		cfg.Scale = 1000

		pos, err := Run(g, cfg)
		require.NoError(t, err)
		p, ok := pos.Get("only")
		require.True(t, ok)
		assert.Equal(t, r2.Vec{}, p, "iterations=%d", iterations)
	}
}

func TestRunEmptyGraph(t *testing.T) {
	g := mustGraph(t, nil, nil)

	pos, err := Run(g, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, pos.Len())
	assert.Equal(t, r2.Box{}, pos.Bounds())
	assert.Empty(t, pos.Map())
}

func TestRunDeterministicWithSeed(t *testing.T) {
	g := mustGraph(t, nil, []string{"a", "b", "c", "d", "e"})

	first, err := Run(g, seeded(1234))
	require.NoError(t, err)
	second, err := Run(g, seeded(1234))
	require.NoError(t, err)
	assert.Equal(t, first.Map(), second.Map())
	assert.Equal(t, uint64(1234), first.Seed())

	other, err := Run(g, seeded(4321))
	require.NoError(t, err)
	assert.NotEqual(t, first.Map(), other.Map())
}

func TestRunOptionsStayFinite(t *testing.T) {
	// Hub with many spokes plus a dense clique exercises both options.
	var edges []graph.Edge
	for i := range 30 {
		edges = append(edges, graph.Edge{From: "hub", To: fmt.Sprintf("s%d", i)})
	}
	for i := range 6 {
		for j := i + 1; j < 6; j++ {
			edges = append(edges, graph.Edge{From: fmt.Sprintf("c%d", i), To: fmt.Sprintf("c%d", j)})
		}
	}
	g := mustGraph(t, edges, nil)

	for _, opt := range []struct{ linlog, noHubs bool }{{false, false}, {true, false}, {false, true}, {true, true}} {
		t.Run(fmt.Sprintf("linlog=%v/nohubs=%v", opt.linlog, opt.noHubs), func(t *testing.T) {
			cfg := seeded(99)
			cfg.LinLog = opt.linlog
			cfg.NoHubs = opt.noHubs
			cfg.Iterations = 100
			cfg.Scale = 10

			pos, err := Run(g, cfg)
			require.NoError(t, err)
			assert.Equal(t, g.NodeCount(), pos.Len())
			assertFiniteWithin(t, pos, cfg.Scale)
			assert.InDelta(t, cfg.Scale, extent(pos), 1e-6)
		})
	}
}

func TestRunWorkersMatchSequential(t *testing.T) {
	var edges []graph.Edge
	for i := range 120 {
		edges = append(edges, graph.Edge{From: fmt.Sprintf("n%d", i), To: fmt.Sprintf("n%d", (i*7+3)%120)})
	}
	g := mustGraph(t, edges, nil)
	require.GreaterOrEqual(t, g.NodeCount(), minParallelNodes)

	seq, err := Run(g, seeded(5))
	require.NoError(t, err)

	cfg := seeded(5)
	cfg.Workers = 4
	par, err := Run(g, cfg)
	require.NoError(t, err)

	assert.Equal(t, seq.Map(), par.Map())
}

func TestRunInitialPositions(t *testing.T) {
	g := mustGraph(t, nil, []string{"a", "b"})

	cfg := seeded(1)
	cfg.InitialPositions = map[string]r2.Vec{"a": {X: 0, Y: 0}, "b": {X: 3, Y: 0}}
	cfg.Scale = 100

	pos, err := Run(g, cfg)
	require.NoError(t, err)

	// Two unlinked nodes on the x-axis only repel along it.
	a, _ := pos.Get("a")
	b, _ := pos.Get("b")
	assert.InDelta(t, 0, a.X, tolerance)
	assert.InDelta(t, 100, b.X, tolerance)
	assert.InDelta(t, 0, a.Y, tolerance)
	assert.InDelta(t, 0, b.Y, tolerance)
}

func TestRunCoincidentSeedsSeparate(t *testing.T) {
	tests := []struct {
		name  string
		edges []graph.Edge
		nodes []string
		seeds map[string]r2.Vec
	}{
		{
			name:  "linked pair",
			edges: []graph.Edge{{From: "a", To: "b"}},
			seeds: map[string]r2.Vec{"a": {X: 0.5, Y: 0.5}, "b": {X: 0.5, Y: 0.5}},
		},
		{
			name:  "unlinked pair with a third node",
			nodes: []string{"a", "b", "c"},
			seeds: map[string]r2.Vec{"a": {X: 0.2, Y: 0.2}, "b": {X: 0.2, Y: 0.2}, "c": {X: 0.9, Y: 0.9}},
		},
		{
			name:  "three at one point",
			nodes: []string{"a", "b", "c"},
			seeds: map[string]r2.Vec{"a": {X: 0.3, Y: 0.3}, "b": {X: 0.3, Y: 0.3}, "c": {X: 0.3, Y: 0.3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGraph(t, tt.edges, tt.nodes)
			cfg := seeded(1)
			cfg.Scale = 1000
			cfg.InitialPositions = tt.seeds

			pos, err := Run(g, cfg)
			require.NoError(t, err)

			a, _ := pos.Get("a")
			b, _ := pos.Get("b")
			assert.Greater(t, r2.Norm(r2.Sub(a, b)), 1.0, "a and b still overlap: %v %v", a, b)
			assert.InDelta(t, cfg.Scale, extent(pos), 1e-6)
			assertFiniteWithin(t, pos, cfg.Scale)

			again, err := Run(g, cfg)
			require.NoError(t, err)
			assert.Equal(t, pos.Map(), again.Map())
		})
	}
}

func TestSeparationIsAntisymmetric(t *testing.T) {
	for i := range 4 {
		for j := range 4 {
			if i == j {
				continue
			}
			u, v := separation(i, j), separation(j, i)
			assert.InDelta(t, MinDistance, r2.Norm(u), tolerance)
			assert.InDelta(t, 0, r2.Norm(r2.Add(u, v)), tolerance)
		}
	}
}

func TestRunInvalidConfig(t *testing.T) {
	g := mustGraph(t, []graph.Edge{{From: "a", To: "b"}}, nil)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero iterations", func(c *Config) { c.Iterations = 0 }},
		{"negative iterations", func(c *Config) { c.Iterations = -5 }},
		{"negative scale", func(c *Config) { c.Scale = -1 }},
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"NaN scale", func(c *Config) { c.Scale = math.NaN() }},
		{"zero repulsion", func(c *Config) { c.Repulsion = 0 }},
		{"negative k", func(c *Config) { c.K = -0.5 }},
		{"three dimensions", func(c *Config) { c.Dimensions = 3 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"infinite seed position", func(c *Config) {
			c.InitialPositions = map[string]r2.Vec{"a": {X: math.Inf(1)}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			pos, err := Run(g, cfg)
			assert.Nil(t, pos)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidLayoutConfig), "got %v", err)
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{}.Validate())
}
