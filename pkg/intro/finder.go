package intro

import (
	"container/heap"

	"github.com/signalvc/relgraph/pkg/graph"
	"github.com/signalvc/relgraph/pkg/logging"
)

// Options bounds one search.
type Options struct {
	// MaxHops is the inclusive hop budget; paths longer than this are
	// never explored.
	MaxHops int

	// MaxPaths asks for up to k cheapest simple paths, best first. Zero
	// defaults to 1.
	MaxPaths int
}

// Finder runs warm-introduction searches with a fixed cost weighting.
type Finder struct {
	mult   Multipliers
	logger logging.Logger
}

// FinderOption customizes a Finder.
type FinderOption func(*Finder)

// WithMultipliers overrides the per-type cost weighting.
func WithMultipliers(m Multipliers) FinderOption {
	return func(f *Finder) { f.mult = m }
}

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) FinderOption {
	return func(f *Finder) { f.logger = l }
}

// NewFinder builds a Finder with the default multipliers unless overridden.
func NewFinder(opts ...FinderOption) (*Finder, error) {
	f := &Finder{
		mult:   DefaultMultipliers(),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.mult.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Find returns up to opts.MaxPaths cheapest simple paths from source to
// target within the hop budget, ordered by ascending total cost, ties broken
// by ascending hop count. An unreachable target yields an empty slice and no
// error; bad configuration is rejected before any search work.
//
// Source equal to target returns the trivial zero-hop path: "no introduction
// needed" is a result, not a failure.
func (f *Finder) Find(g *graph.Graph, sourceID, targetID string, opts Options) ([]Path, error) {
	if opts.MaxPaths == 0 {
		opts.MaxPaths = 1
	}
	if opts.MaxHops < 1 {
		return nil, ErrInvalidHopLimit
	}
	if opts.MaxPaths < 1 {
		return nil, ErrInvalidPathLimit
	}
	if !g.HasNode(sourceID) {
		return nil, ErrUnknownSource
	}
	if !g.HasNode(targetID) {
		return nil, ErrUnknownTarget
	}

	if sourceID == targetID {
		return []Path{{Nodes: []string{sourceID}, Narrative: []graph.LinkType{}}}, nil
	}

	timer := logging.StartTimer(f.logger, "warm intro search",
		logging.SourceID(sourceID),
		logging.TargetID(targetID),
		logging.Hops(opts.MaxHops))

	var paths []Path
	if opts.MaxPaths == 1 {
		if p, _, ok := f.shortest(g, sourceID, targetID, opts.MaxHops, nil, nil); ok {
			paths = []Path{p}
		}
	} else {
		paths = f.kShortest(g, sourceID, targetID, opts.MaxHops, opts.MaxPaths)
	}

	timer.End()
	return paths, nil
}

// searchState keys Dijkstra distances by node and hops spent. The hop budget
// makes plain per-node distances wrong: a costlier prefix with hops to spare
// can finish where the cheapest one cannot.
type searchState struct {
	node string
	hops int
}

type frontierItem struct {
	state searchState
	cost  float64
	index int
}

type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].state.hops < f[j].state.hops
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x any) {
	item := x.(*frontierItem)
	item.index = len(*f)
	*f = append(*f, item)
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}

// hopStep records how a state was reached, for path reconstruction.
type hopStep struct {
	prev searchState
	link graph.Link
}

// shortest runs a hop-bounded Dijkstra from source, stopping the first time
// target leaves the frontier. It also returns the concrete links traversed,
// which the k-shortest spur searches need. Banned nodes and links support
// those spur searches; nil means nothing is banned.
func (f *Finder) shortest(g *graph.Graph, sourceID, targetID string, maxHops int,
	bannedNodes map[string]bool, bannedLinks map[graph.Link]bool) (Path, []graph.Link, bool) {

	dist := map[searchState]float64{{node: sourceID, hops: 0}: 0}
	parent := map[searchState]hopStep{}
	settled := map[searchState]bool{}

	pq := &frontier{}
	heap.Init(pq)
	heap.Push(pq, &frontierItem{state: searchState{node: sourceID, hops: 0}})

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*frontierItem)
		if settled[current.state] {
			continue
		}
		settled[current.state] = true

		// First extraction of the target is the cheapest path to it.
		if current.state.node == targetID {
			p, links := f.reconstruct(current.state, current.cost, parent)
			return p, links, true
		}
		if current.state.hops == maxHops {
			continue
		}

		for _, l := range g.Neighbors(current.state.node) {
			if bannedLinks[l] {
				continue
			}
			next := l.Other(current.state.node)
			if bannedNodes[next] {
				continue
			}
			nextState := searchState{node: next, hops: current.state.hops + 1}
			nextCost := current.cost + f.mult.cost(l)
			if old, seen := dist[nextState]; seen && old <= nextCost {
				continue
			}
			dist[nextState] = nextCost
			parent[nextState] = hopStep{prev: current.state, link: l}
			heap.Push(pq, &frontierItem{state: nextState, cost: nextCost})
		}
	}
	return Path{}, nil, false
}

// reconstruct walks parent pointers back to the source.
func (f *Finder) reconstruct(end searchState, cost float64, parent map[searchState]hopStep) (Path, []graph.Link) {
	nodes := make([]string, end.hops+1)
	narrative := make([]graph.LinkType, end.hops)
	links := make([]graph.Link, end.hops)

	state := end
	for i := end.hops; i > 0; i-- {
		nodes[i] = state.node
		step := parent[state]
		narrative[i-1] = step.link.Type
		links[i-1] = step.link
		state = step.prev
	}
	nodes[0] = state.node

	return Path{
		Nodes:     nodes,
		TotalCost: cost,
		HopCount:  end.hops,
		Narrative: narrative,
	}, links
}
