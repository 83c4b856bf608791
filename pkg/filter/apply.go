package filter

import (
	"github.com/signalvc/relgraph/pkg/graph"
)

// Apply filters g by spec and returns a new Graph of the survivors. The
// input graph is never modified.
//
// The predicate order is fixed and load-bearing:
//
//  1. node type
//  2. node attributes (sector, location, tier window)
//  3. degree, counted against the ORIGINAL link set: a node with many
//     weak or disallowed-type links still counts them toward
//     MinConnections
//  4. link type and strength, over links whose endpoints both survived
//
// An empty result (no nodes, or nodes with no links) is a valid graph,
// not an error.
func Apply(g *graph.Graph, spec Spec) (*graph.Graph, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	surviving := make(map[string]bool, g.NodeCount())
	nodes := make([]graph.Node, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		if !spec.matchesNode(n) {
			continue
		}
		// Connectivity is judged on the full relationship set, not on
		// what the link predicates leave behind. Filtered views inherit
		// it, which keeps Apply idempotent on its own output.
		if g.BaseDegree(n.ID) < spec.MinConnections {
			continue
		}
		surviving[n.ID] = true
		nodes = append(nodes, *n)
	}

	links := make([]graph.Link, 0, g.LinkCount())
	for _, l := range g.Links() {
		if !surviving[l.Source] || !surviving[l.Target] {
			continue
		}
		if !spec.matchesLink(l) {
			continue
		}
		links = append(links, l)
	}

	// Survivors came out of a validated graph, so this build cannot fail
	// on data; any error here is a programming error worth surfacing.
	return g.Subgraph(nodes, links)
}
