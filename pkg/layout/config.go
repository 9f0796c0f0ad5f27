package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/nodelight/pkg/errors"
)

// Defaults.
const (
	DefaultIterations = 50
	DefaultScale      = 1.0
	DefaultRepulsion  = 1.0

	// MinDistance is the floor applied to pairwise distances.
	MinDistance = 0.01

	// coolingFraction sets the initial temperature relative to the extent
	// of the initial positions.
	coolingFraction = 0.1
)

// Config controls a layout run. Start from DefaultConfig; the zero value
// fails validation.
type Config struct {
	// Iterations is the number of simulation steps. Must be positive.
	Iterations int `json:"iterations" toml:"iterations"`

	// Scale is the size of the final bounding box's larger side.
	Scale float64 `json:"scale" toml:"scale"`

	// LinLog compresses the combined force with log(1+|f|).
	LinLog bool `json:"linlog,omitempty" toml:"linlog"`

	// NoHubs divides the repulsion exerted by node j by degree(j)+1.
	NoHubs bool `json:"no_hubs,omitempty" toml:"no_hubs"`

	// Repulsion multiplies the repulsive term.
	Repulsion float64 `json:"repulsion" toml:"repulsion"`

	// K overrides the optimal distance. Zero means sqrt(1/n).
	K float64 `json:"k,omitempty" toml:"k"`

	// Dimensions must be 2.
	Dimensions int `json:"dimensions" toml:"dimensions"`

	// Seed drives the initial placement. Zero draws a fresh seed; the seed
	// actually used is reported by Positions.Seed.
	Seed uint64 `json:"seed,omitempty" toml:"seed"`

	// Workers splits the force pass across goroutines. Values below 2 run
	// sequentially.
	Workers int `json:"workers,omitempty" toml:"workers"`

	// InitialPositions seeds the placement of the nodes it names. Other
	// nodes are placed uniformly at random in [0,1)².
	InitialPositions map[string]r2.Vec `json:"-" toml:"-"`
}

// DefaultConfig returns a valid configuration.
func DefaultConfig() Config {
	return Config{
		Iterations: DefaultIterations,
		Scale:      DefaultScale,
		Repulsion:  DefaultRepulsion,
		Dimensions: 2,
	}
}

// Validate reports the first invalid field as an INVALID_LAYOUT_CONFIG error.
func (c Config) Validate() error {
	switch {
	case c.Iterations <= 0:
		return invalid("iterations must be positive, got %d", c.Iterations)
	case !finite(c.Scale) || c.Scale <= 0:
		return invalid("scale must be a positive number, got %v", c.Scale)
	case !finite(c.Repulsion) || c.Repulsion <= 0:
		return invalid("repulsion must be a positive number, got %v", c.Repulsion)
	case !finite(c.K) || c.K < 0:
		return invalid("k must be zero or positive, got %v", c.K)
	case c.Dimensions != 2:
		return invalid("only 2 dimensions are supported, got %d", c.Dimensions)
	case c.Workers < 0:
		return invalid("workers must not be negative, got %d", c.Workers)
	}
	for id, p := range c.InitialPositions {
		if !finite(p.X) || !finite(p.Y) {
			return invalid("initial position of %q is not finite", id)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidLayoutConfig, format, args...)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
