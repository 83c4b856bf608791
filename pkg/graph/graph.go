// Package graph holds the typed relationship graph: investors, firms,
// companies and sectors as nodes, and their pairwise relationships as
// weighted links. A Graph is a pure value once built; filtering and layout
// never mutate it.
package graph

import "fmt"

// Graph is an immutable set of validated nodes and links. Degree and
// adjacency are precomputed at build time, and every node carries a stable
// integer index usable as an array offset by the layout simulator.
type Graph struct {
	nodes   map[string]*Node
	order   []string // node ids in input order; positions double as indices
	index   map[string]int
	links   []Link
	degree  map[string]int
	base    map[string]int // connectivity in the graph this was filtered from
	adjlist map[string][]int // node id -> offsets into links
}

// Build validates raw node and link records and assembles a Graph. It fails
// fast with a *BuildError naming the offending record; duplicate ids,
// dangling endpoints, self-loops, out-of-range tiers and strengths are all
// construction errors rather than data to drop silently.
func Build(nodes []Node, links []Link) (*Graph, error) {
	g := &Graph{
		nodes:   make(map[string]*Node, len(nodes)),
		order:   make([]string, 0, len(nodes)),
		index:   make(map[string]int, len(nodes)),
		links:   make([]Link, 0, len(links)),
		degree:  make(map[string]int, len(nodes)),
		adjlist: make(map[string][]int, len(nodes)),
	}

	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			return nil, nodeError(i, "", ErrEmptyNodeID)
		}
		if !n.Type.Valid() {
			return nil, nodeError(i, n.ID, ErrInvalidType)
		}
		if n.Tier < MinTier || n.Tier > MaxTier {
			return nil, nodeError(i, n.ID, fmt.Errorf("%w: tier %d", ErrInvalidTier, n.Tier))
		}
		if _, exists := g.nodes[n.ID]; exists {
			return nil, nodeError(i, n.ID, ErrDuplicateNode)
		}
		g.index[n.ID] = len(g.order)
		g.order = append(g.order, n.ID)
		g.nodes[n.ID] = &n
		g.degree[n.ID] = 0
	}

	for i := range links {
		l := links[i]
		if !l.Type.Valid() {
			return nil, linkError(i, l.Source, ErrInvalidType)
		}
		if l.Strength <= 0 || l.Strength > 1 {
			return nil, linkError(i, l.Source, fmt.Errorf("%w: strength %v", ErrInvalidStrength, l.Strength))
		}
		if l.Source == l.Target {
			return nil, linkError(i, l.Source, ErrSelfLoop)
		}
		if _, ok := g.nodes[l.Source]; !ok {
			return nil, linkError(i, l.Source, ErrDanglingLink)
		}
		if _, ok := g.nodes[l.Target]; !ok {
			return nil, linkError(i, l.Target, ErrDanglingLink)
		}
		off := len(g.links)
		g.links = append(g.links, l)
		g.degree[l.Source]++
		g.degree[l.Target]++
		g.adjlist[l.Source] = append(g.adjlist[l.Source], off)
		g.adjlist[l.Target] = append(g.adjlist[l.Target], off)
	}

	g.base = g.degree
	return g, nil
}

// Subgraph builds a filtered view of g containing exactly the given nodes
// and links. The view keeps each surviving node's base connectivity from g,
// so degree thresholds judged on the full relationship set stay stable when
// a filter is re-applied to its own output.
func (g *Graph) Subgraph(nodes []Node, links []Link) (*Graph, error) {
	sub, err := Build(nodes, links)
	if err != nil {
		return nil, err
	}
	sub.base = make(map[string]int, len(nodes))
	for _, id := range sub.order {
		sub.base[id] = g.base[id]
	}
	return sub, nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// LinkCount returns the number of links.
func (g *Graph) LinkCount() int {
	return len(g.links)
}

// Node returns the node with the given id, or nil if absent.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns the nodes in build order. The returned slice is fresh; the
// underlying node records are shared and must not be modified.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeIDs returns node ids in build order.
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Links returns a copy of the link set.
func (g *Graph) Links() []Link {
	out := make([]Link, len(g.links))
	copy(out, g.links)
	return out
}

// Link returns the link at the given build offset.
func (g *Graph) Link(offset int) Link {
	return g.links[offset]
}

// Degree returns the number of links touching the node, O(1).
// Unknown ids have degree zero.
func (g *Graph) Degree(id string) int {
	return g.degree[id]
}

// BaseDegree returns the node's connectivity in the graph this one was
// filtered from. For a freshly built graph it equals Degree.
func (g *Graph) BaseDegree(id string) int {
	return g.base[id]
}

// Index returns the stable build-time integer index for a node id. The layout
// simulator uses it to address its position arena without touching node
// records. ok is false for unknown ids.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// NodeAt returns the node at the given build index.
func (g *Graph) NodeAt(index int) *Node {
	return g.nodes[g.order[index]]
}

// Neighbors returns the links touching the node, in build order.
func (g *Graph) Neighbors(id string) []Link {
	offs := g.adjlist[id]
	out := make([]Link, len(offs))
	for i, off := range offs {
		out[i] = g.links[off]
	}
	return out
}
