package layout

import (
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/nodelight/pkg/graph"
)

// minParallelNodes is the graph size below which Workers is ignored.
const minParallelNodes = 64

// Run computes positions for every node of g.
//
// Run fails only on an invalid Config. An empty graph yields empty
// Positions; a single node is placed at the origin.
func Run(g *graph.Graph, cfg Config) (*Positions, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64() | 1
	}

	ids := g.NodeIDs()
	n := len(ids)
	pos := initialPositions(ids, cfg.InitialPositions, seed)

	if n > 1 {
		s := newSimulation(g, pos, cfg)
		for range cfg.Iterations {
			s.step()
		}
	}

	rescale(pos, cfg.Scale)
	return newPositions(ids, pos, seed, cfg.Scale), nil
}

func initialPositions(ids []string, seeded map[string]r2.Vec, seed uint64) []r2.Vec {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pos := make([]r2.Vec, len(ids))
	for i, id := range ids {
		if p, ok := seeded[id]; ok {
			pos[i] = p
			continue
		}
		pos[i] = r2.Vec{X: rng.Float64(), Y: rng.Float64()}
	}
	return pos
}

// simulation is the ephemeral state of one run.
type simulation struct {
	pos      []r2.Vec
	disp     []r2.Vec
	adj      [][]int
	hubDiv   []float64 // per-node repulsion divisor
	k        float64
	strength float64
	linlog   bool
	temp     float64
	cool     float64
	workers  int
}

func newSimulation(g *graph.Graph, pos []r2.Vec, cfg Config) *simulation {
	n := len(pos)
	s := &simulation{
		pos:      pos,
		disp:     make([]r2.Vec, n),
		adj:      make([][]int, n),
		hubDiv:   make([]float64, n),
		k:        cfg.K,
		strength: cfg.Repulsion,
		linlog:   cfg.LinLog,
		workers:  cfg.Workers,
	}
	if s.k == 0 {
		s.k = math.Sqrt(1 / float64(n))
	}
	for i := range n {
		s.adj[i] = g.Adjacent(i)
		s.hubDiv[i] = 1
		if cfg.NoHubs {
			s.hubDiv[i] = float64(len(s.adj[i]) + 1)
		}
	}

	b := boundsOf(pos)
	s.temp = coolingFraction * max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
	if s.temp == 0 {
		s.temp = coolingFraction
	}
	s.cool = s.temp / float64(cfg.Iterations+1)
	return s
}

// step runs one iteration: accumulate forces, cap, move, cool.
func (s *simulation) step() {
	n := len(s.pos)
	if s.workers < 2 || n < minParallelNodes {
		s.accumulate(0, n, make([]bool, n))
	} else {
		var eg errgroup.Group
		chunk := (n + s.workers - 1) / s.workers
		for lo := 0; lo < n; lo += chunk {
			hi := min(lo+chunk, n)
			eg.Go(func() error {
				s.accumulate(lo, hi, make([]bool, n))
				return nil
			})
		}
		_ = eg.Wait()
	}

	for i, d := range s.disp {
		if length := r2.Norm(d); length > s.temp {
			d = r2.Scale(s.temp/length, d)
		}
		s.pos[i] = r2.Add(s.pos[i], d)
	}
	s.temp = max(s.temp-s.cool, 0)
}

// accumulate computes disp[i] for i in [lo, hi). linked is scratch space of
// length n that is all false on entry and on return.
func (s *simulation) accumulate(lo, hi int, linked []bool) {
	kk := s.k * s.k
	for i := lo; i < hi; i++ {
		for _, j := range s.adj[i] {
			linked[j] = true
		}

		var sum r2.Vec
		for j, pj := range s.pos {
			if j == i {
				continue
			}
			delta := r2.Sub(s.pos[i], pj)
			if delta == (r2.Vec{}) {
				delta = separation(i, j)
			}
			dist := max(r2.Norm(delta), MinDistance)

			f := s.strength * kk / (dist * dist) / s.hubDiv[j]
			if linked[j] {
				f -= dist / s.k
			}
			if s.linlog {
				f = math.Copysign(math.Log1p(math.Abs(f)), f)
			}
			sum = r2.Add(sum, r2.Scale(f, delta))
		}
		s.disp[i] = sum

		for _, j := range s.adj[i] {
			linked[j] = false
		}
	}
}

// goldenAngle spreads the separation directions of coincident pairs.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// separation is the direction used in place of the zero vector between two
// nodes at the same point. It has length MinDistance and separation(j, i)
// is the negation of separation(i, j), so the pair moves apart
// deterministically.
func separation(i, j int) r2.Vec {
	lo, hi, sign := i, j, 1.0
	if lo > hi {
		lo, hi, sign = j, i, -1.0
	}
	theta := goldenAngle * float64(lo+hi*(hi+1)/2)
	return r2.Vec{X: sign * MinDistance * math.Cos(theta), Y: sign * MinDistance * math.Sin(theta)}
}

// rescale translates pos so each axis starts at zero and scales uniformly so
// the larger span equals scale. Degenerate spans are left at the origin.
func rescale(pos []r2.Vec, scale float64) {
	if len(pos) == 0 {
		return
	}
	b := boundsOf(pos)
	span := max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
	factor := 0.0
	if span > 0 && finite(span) {
		factor = scale / span
	}
	for i, p := range pos {
		pos[i] = r2.Scale(factor, r2.Sub(p, b.Min))
	}
}

func boundsOf(pos []r2.Vec) r2.Box {
	b := r2.Box{Min: pos[0], Max: pos[0]}
	for _, p := range pos[1:] {
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
	}
	return b
}
