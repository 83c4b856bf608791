// Package layout assigns 2-D positions to graph nodes with an iterative
// force simulation: link springs, tier-scaled many-body repulsion, a weak
// centering pull and pairwise collision separation. All per-run physics
// state lives in a simulation-local arena indexed by the graph's build
// indices; the canonical graph is never touched.
package layout

import (
	"fmt"

	"github.com/signalvc/relgraph/pkg/graph"
)

// Position is a 2-D coordinate on the layout canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config tunes the force simulation. Zero values are filled from
// DefaultConfig by New.
type Config struct {
	Width  float64 `yaml:"width" validate:"min=0"`
	Height float64 `yaml:"height" validate:"min=0"`

	// Seed drives initial placement and jiggle. The same graph, config
	// and seed always produce the same final positions.
	Seed int64 `yaml:"seed"`

	// Alpha is the simulated kinetic energy: seeded here, decayed
	// multiplicatively every tick, converged when below AlphaMin.
	Alpha         float64 `yaml:"alpha" validate:"min=0,max=1"`
	AlphaMin      float64 `yaml:"alpha_min" validate:"min=0,max=1"`
	AlphaDecay    float64 `yaml:"alpha_decay" validate:"min=0,max=1"`
	VelocityDecay float64 `yaml:"velocity_decay" validate:"min=0,max=1"`
	MaxTicks      int     `yaml:"max_ticks" validate:"min=0"`

	// CenterStrength is the weak pull toward the canvas center.
	CenterStrength float64 `yaml:"center_strength" validate:"min=0,max=1"`

	// RepulsionStrength is the base many-body charge, scaled per node by
	// the tier multiplier. Theta is the Barnes-Hut accuracy knob; pairs
	// beyond DistanceMax ignore each other.
	RepulsionStrength float64            `yaml:"repulsion_strength" validate:"min=0"`
	TierRepulsion     map[int]float64    `yaml:"tier_repulsion"`
	Theta             float64            `yaml:"theta" validate:"min=0"`
	DistanceMax       float64            `yaml:"distance_max" validate:"min=0"`

	// LinkDistance is the per-type spring rest length.
	LinkDistance map[graph.LinkType]float64 `yaml:"link_distance"`

	// Node radius model: max(RadiusBase, min(RadiusBase*ln(w+1)*RadiusScale*tierMult, RadiusCap)).
	RadiusBase  float64         `yaml:"radius_base" validate:"min=0"`
	RadiusScale float64         `yaml:"radius_scale" validate:"min=0"`
	RadiusCap   float64         `yaml:"radius_cap" validate:"min=0"`
	TierRadius  map[int]float64 `yaml:"tier_radius"`

	// CollideMargin is added to the sum of radii as the minimum center
	// separation; CollidePasses is the relaxation passes per tick.
	CollideMargin float64 `yaml:"collide_margin" validate:"min=0"`
	CollidePasses int     `yaml:"collide_passes" validate:"min=0"`
}

// DefaultConfig returns the tuning used by the dashboard's canonical view.
func DefaultConfig() Config {
	return Config{
		Width:             1200,
		Height:            800,
		Seed:              1,
		Alpha:             1.0,
		AlphaMin:          0.005,
		AlphaDecay:        0.028,
		VelocityDecay:     0.6,
		MaxTicks:          500,
		CenterStrength:    0.05,
		RepulsionStrength: 120,
		TierRepulsion:     map[int]float64{1: 1.8, 2: 1.4, 3: 1.0},
		Theta:             0.81,
		DistanceMax:       600,
		LinkDistance: map[graph.LinkType]float64{
			graph.LinkFirmColleague: 60,
			graph.LinkBoardMember:   80,
			graph.LinkCoInvestment:  90,
			graph.LinkInvestment:    100,
			graph.LinkSector:        140,
		},
		RadiusBase:    8,
		RadiusScale:   0.5,
		RadiusCap:     30,
		TierRadius:    map[int]float64{1: 1.5, 2: 1.2, 3: 1.0},
		CollideMargin: 2,
		CollidePasses: 2,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Width == 0 {
		c.Width = def.Width
	}
	if c.Height == 0 {
		c.Height = def.Height
	}
	if c.Alpha == 0 {
		c.Alpha = def.Alpha
	}
	if c.AlphaMin == 0 {
		c.AlphaMin = def.AlphaMin
	}
	if c.AlphaDecay == 0 {
		c.AlphaDecay = def.AlphaDecay
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = def.VelocityDecay
	}
	if c.MaxTicks == 0 {
		c.MaxTicks = def.MaxTicks
	}
	if c.CenterStrength == 0 {
		c.CenterStrength = def.CenterStrength
	}
	if c.RepulsionStrength == 0 {
		c.RepulsionStrength = def.RepulsionStrength
	}
	if c.TierRepulsion == nil {
		c.TierRepulsion = def.TierRepulsion
	}
	if c.Theta == 0 {
		c.Theta = def.Theta
	}
	if c.DistanceMax == 0 {
		c.DistanceMax = def.DistanceMax
	}
	if c.LinkDistance == nil {
		c.LinkDistance = def.LinkDistance
	}
	if c.RadiusBase == 0 {
		c.RadiusBase = def.RadiusBase
	}
	if c.RadiusScale == 0 {
		c.RadiusScale = def.RadiusScale
	}
	if c.RadiusCap == 0 {
		c.RadiusCap = def.RadiusCap
	}
	if c.TierRadius == nil {
		c.TierRadius = def.TierRadius
	}
	if c.CollideMargin == 0 {
		c.CollideMargin = def.CollideMargin
	}
	if c.CollidePasses == 0 {
		c.CollidePasses = def.CollidePasses
	}
	return c
}

// validateConfig rejects out-of-range tuning before any simulation work.
func validateConfig(c Config) error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("%w: alpha %v", ErrInvalidConfig, c.Alpha)
	}
	if c.AlphaMin <= 0 || c.AlphaMin >= c.Alpha {
		return fmt.Errorf("%w: alpha_min %v must be in (0, alpha)", ErrInvalidConfig, c.AlphaMin)
	}
	if c.AlphaDecay <= 0 || c.AlphaDecay >= 1 {
		return fmt.Errorf("%w: alpha_decay %v", ErrInvalidConfig, c.AlphaDecay)
	}
	if c.VelocityDecay <= 0 || c.VelocityDecay > 1 {
		return fmt.Errorf("%w: velocity_decay %v", ErrInvalidConfig, c.VelocityDecay)
	}
	if c.MaxTicks < 1 {
		return fmt.Errorf("%w: max_ticks %d", ErrInvalidConfig, c.MaxTicks)
	}
	for tier := graph.MinTier; tier <= graph.MaxTier; tier++ {
		if c.TierRepulsion[tier] <= 0 {
			return fmt.Errorf("%w: tier_repulsion missing tier %d", ErrInvalidConfig, tier)
		}
		if c.TierRadius[tier] <= 0 {
			return fmt.Errorf("%w: tier_radius missing tier %d", ErrInvalidConfig, tier)
		}
	}
	for _, lt := range graph.AllLinkTypes {
		if c.LinkDistance[lt] <= 0 {
			return fmt.Errorf("%w: link_distance missing type %s", ErrInvalidConfig, lt)
		}
	}
	return nil
}
