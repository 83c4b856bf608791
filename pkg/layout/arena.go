package layout

import (
	"errors"
	"math"
	"math/rand"

	"github.com/signalvc/relgraph/pkg/graph"
)

// Sentinel errors for simulator construction and control.
var (
	ErrInvalidConfig = errors.New("invalid layout config")
	ErrNotRunning    = errors.New("simulation is not running")
)

// body is the per-node physics record. Bodies live in a simulation-local
// arena addressed by the graph's build indices; domain nodes never carry
// position state.
type body struct {
	x, y   float64
	vx, vy float64

	// Pinned bodies hold (fx, fy) and ignore integration; they still
	// exert forces on everything else.
	fixed  bool
	fx, fy float64

	radius float64
	charge float64 // repulsion strength including the tier multiplier
}

// spring is a precompiled link force entry. Indices are resolved once at
// construction; an unresolvable endpoint is a programmer error because the
// graph validated every link at build time.
type spring struct {
	src, dst int
	dist     float64 // per-type rest length
	coeff    float64 // min(strength, 1): stronger bonds pull harder
	srcBias  float64 // degree-based split of the correction
}

// nodeRadius computes the rendered radius for collision purposes:
// max(base, min(base * ln(weight+1) * scale * tierMult, cap)).
func nodeRadius(cfg Config, n *graph.Node) float64 {
	sized := cfg.RadiusBase * math.Log(n.Weight()+1) * cfg.RadiusScale * cfg.TierRadius[n.Tier]
	return math.Max(cfg.RadiusBase, math.Min(sized, cfg.RadiusCap))
}

// newArena seeds bodies with deterministic random positions inside the
// canvas and precompiles springs from the link set.
func newArena(g *graph.Graph, cfg Config, rng *rand.Rand) ([]body, []spring) {
	bodies := make([]body, g.NodeCount())
	for i := range bodies {
		n := g.NodeAt(i)
		bodies[i] = body{
			x:      rng.Float64() * cfg.Width,
			y:      rng.Float64() * cfg.Height,
			radius: nodeRadius(cfg, n),
			charge: -cfg.RepulsionStrength * cfg.TierRepulsion[n.Tier],
		}
	}

	links := g.Links()
	springs := make([]spring, len(links))
	for i, l := range links {
		src, ok := g.Index(l.Source)
		if !ok {
			panic("layout: link source " + l.Source + " missing from graph index")
		}
		dst, ok := g.Index(l.Target)
		if !ok {
			panic("layout: link target " + l.Target + " missing from graph index")
		}
		srcDeg := float64(g.Degree(l.Source))
		dstDeg := float64(g.Degree(l.Target))
		springs[i] = spring{
			src:     src,
			dst:     dst,
			dist:    cfg.LinkDistance[l.Type],
			coeff:   math.Min(l.Strength, 1),
			srcBias: srcDeg / (srcDeg + dstDeg),
		}
	}
	return bodies, springs
}

// jiggle nudges coincident bodies apart so force directions stay defined.
func jiggle(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}
