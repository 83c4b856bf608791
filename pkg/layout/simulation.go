package layout

import (
	"context"
	"math/rand"
	"sync"

	"github.com/signalvc/relgraph/pkg/graph"
	"github.com/signalvc/relgraph/pkg/logging"
)

// State is the simulation lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateDone
)

// String returns the lifecycle phase name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Frame is a per-tick snapshot handed to the tick observer.
type Frame struct {
	Tick      int                 `json:"tick"`
	Alpha     float64             `json:"alpha"`
	Positions map[string]Position `json:"positions"`
}

// Simulation runs the force system over one graph. Each Tick is a discrete
// unit of work sized for a caller-driven frame loop; Run drives Tick to
// convergence for batch use. A Simulation is safe for one goroutine driving
// ticks and others reading positions or pinning nodes.
type Simulation struct {
	mu sync.Mutex

	g       *graph.Graph
	cfg     Config
	rng     *rand.Rand
	bodies  []body
	springs []spring

	alpha float64
	tick  int
	state State

	logger logging.Logger
	onTick func(Frame)
}

// Option customizes a Simulation.
type Option func(*Simulation)

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithTickObserver registers a callback invoked after every tick with a
// fresh position snapshot, e.g. a stream publisher feeding a renderer.
func WithTickObserver(fn func(Frame)) Option {
	return func(s *Simulation) { s.onTick = fn }
}

// New prepares a simulation for the graph. The config is defaulted, then
// validated; a bad config is rejected before any physics state exists.
func New(g *graph.Graph, cfg Config, opts ...Option) (*Simulation, error) {
	cfg = cfg.withDefaults()
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	s := &Simulation{
		g:      g,
		cfg:    cfg,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.reset()
	return s, nil
}

// reset re-seeds the RNG and re-randomizes the arena. Callers hold the lock
// or have exclusive access.
func (s *Simulation) reset() {
	s.rng = rand.New(rand.NewSource(s.cfg.Seed))
	s.bodies, s.springs = newArena(s.g, s.cfg, s.rng)
	s.alpha = s.cfg.Alpha
	s.tick = 0
	s.state = StateIdle
}

// Start begins (or restarts) the tick loop state. It does not spawn
// goroutines; the caller drives Tick or Run.
func (s *Simulation) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDone || s.state == StateIdle {
		s.alpha = s.cfg.Alpha
	}
	s.state = StateRunning
}

// Pause suspends ticking; Tick becomes a no-op until Resume.
func (s *Simulation) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		s.state = StatePaused
	}
}

// Resume continues a paused simulation.
func (s *Simulation) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePaused {
		s.state = StateRunning
	}
}

// Reset discards all positions and energy and returns to the initial seeded
// state. The same seed reproduces the same run.
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Reheat re-seeds alpha without rebuilding the arena, the cheap way to wake
// the system after a drag or filter tweak. Alpha is clamped to (0, 1].
func (s *Simulation) Reheat(alpha float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if alpha <= 0 || alpha > 1 {
		alpha = s.cfg.Alpha
	}
	s.alpha = alpha
	if s.state == StateDone {
		s.state = StateRunning
	}
}

// Pin fixes a node at the given canvas position, as during an interactive
// drag. Pinned nodes keep exerting forces but do not move.
func (s *Simulation) Pin(nodeID string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.g.Index(nodeID)
	if !ok {
		return graph.ErrNodeNotFound
	}
	b := &s.bodies[idx]
	b.fixed = true
	b.fx, b.fy = x, y
	b.x, b.y = x, y
	b.vx, b.vy = 0, 0
	return nil
}

// Unpin releases a pinned node back to the force system.
func (s *Simulation) Unpin(nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.g.Index(nodeID)
	if !ok {
		return graph.ErrNodeNotFound
	}
	s.bodies[idx].fixed = false
	return nil
}

// Tick advances the simulation one step. It returns false once the system
// has converged (alpha below the floor or the tick budget spent) or when the
// simulation is not in a running state.
func (s *Simulation) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StatePaused || s.state == StateDone {
		return false
	}
	if s.state == StateIdle {
		s.state = StateRunning
	}
	if len(s.bodies) == 0 {
		s.state = StateDone
		return false
	}

	s.alpha *= 1 - s.cfg.AlphaDecay
	s.tick++

	applyLinks(s.bodies, s.springs, s.alpha, s.rng)
	applyManyBody(s.bodies, s.cfg, s.alpha, s.rng)
	applyCenter(s.bodies, s.cfg)

	// Integrate velocities, then resolve overlaps positionally.
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.fixed {
			b.x, b.y = b.fx, b.fy
			b.vx, b.vy = 0, 0
			continue
		}
		b.vx *= s.cfg.VelocityDecay
		b.vy *= s.cfg.VelocityDecay
		b.x += b.vx
		b.y += b.vy
	}
	for pass := 0; pass < s.cfg.CollidePasses; pass++ {
		if applyCollide(s.bodies, s.cfg, s.rng) == 0 {
			break
		}
	}

	if s.onTick != nil {
		s.onTick(Frame{Tick: s.tick, Alpha: s.alpha, Positions: s.positionsLocked()})
	}

	if s.alpha < s.cfg.AlphaMin || s.tick >= s.cfg.MaxTicks {
		s.settle()
		s.state = StateDone
		s.logger.Debug("layout converged",
			logging.Ticks(s.tick),
			logging.Alpha(s.alpha),
			logging.Count(len(s.bodies)))
		return false
	}
	return true
}

// settle runs extra collision passes after convergence so the final frame
// honors the minimum-separation invariant.
func (s *Simulation) settle() {
	const maxPasses = 64
	for pass := 0; pass < maxPasses; pass++ {
		if applyCollide(s.bodies, s.cfg, s.rng) == 0 {
			return
		}
	}
}

// Run drives Tick to convergence and returns the final positions. A zero
// node graph converges immediately with an empty map. Cancellation stops
// the loop between ticks without corrupting state.
func (s *Simulation) Run(ctx context.Context) (map[string]Position, error) {
	s.Start()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if !s.Tick() {
			break
		}
	}
	return s.Positions(), nil
}

// Positions snapshots the current node positions keyed by node id.
func (s *Simulation) Positions() map[string]Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionsLocked()
}

func (s *Simulation) positionsLocked() map[string]Position {
	out := make(map[string]Position, len(s.bodies))
	for i := range s.bodies {
		out[s.g.NodeAt(i).ID] = Position{X: s.bodies[i].x, Y: s.bodies[i].y}
	}
	return out
}

// Alpha returns the current kinetic energy scalar.
func (s *Simulation) Alpha() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alpha
}

// Ticks returns how many steps have run since the last reset.
func (s *Simulation) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// State returns the lifecycle phase.
func (s *Simulation) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Radius exposes the rendered collision radius for a node id, for adapters
// that draw what the collision force enforced.
func (s *Simulation) Radius(nodeID string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.g.Index(nodeID)
	if !ok {
		return 0, false
	}
	return s.bodies[idx].radius, true
}
