package intro

import (
	"sort"

	"github.com/signalvc/relgraph/pkg/graph"
)

// candidate pairs a path with the concrete links it traversed, which the
// spur construction needs for edge banning.
type candidate struct {
	path  Path
	links []graph.Link
}

// kShortest finds up to k cheapest simple paths with Yen's algorithm on top
// of the hop-bounded Dijkstra. The graph is small and undirected, so the
// repeated spur searches are cheap at interactive scale.
func (f *Finder) kShortest(g *graph.Graph, sourceID, targetID string, maxHops, k int) []Path {
	best, bestLinks, ok := f.shortest(g, sourceID, targetID, maxHops, nil, nil)
	if !ok {
		return nil
	}

	accepted := []candidate{{path: best, links: bestLinks}}
	seen := map[string]bool{best.key(): true}
	var pool []candidate

	for len(accepted) < k {
		prev := accepted[len(accepted)-1]

		// Branch off every prefix of the newest accepted path.
		for i := 0; i < len(prev.path.Nodes)-1; i++ {
			spurNode := prev.path.Nodes[i]
			rootNodes := prev.path.Nodes[:i+1]
			rootLinks := prev.links[:i]

			// Ban the continuations already taken from this root, and the
			// root's interior nodes, so the spur yields a new simple path.
			bannedLinks := make(map[graph.Link]bool)
			for _, c := range accepted {
				if len(c.links) > i && samePrefix(c.path.Nodes, rootNodes) {
					bannedLinks[c.links[i]] = true
				}
			}
			bannedNodes := make(map[string]bool, i)
			for _, id := range rootNodes[:len(rootNodes)-1] {
				bannedNodes[id] = true
			}

			spur, spurLinks, ok := f.shortest(g, spurNode, targetID, maxHops-i, bannedNodes, bannedLinks)
			if !ok {
				continue
			}

			joined := joinPaths(rootNodes, rootLinks, spur, spurLinks, f.mult)
			if seen[joined.path.key()] {
				continue
			}
			seen[joined.path.key()] = true
			pool = append(pool, joined)
		}

		if len(pool) == 0 {
			break
		}
		sort.Slice(pool, func(a, b int) bool {
			if pool[a].path.TotalCost != pool[b].path.TotalCost {
				return pool[a].path.TotalCost < pool[b].path.TotalCost
			}
			return pool[a].path.HopCount < pool[b].path.HopCount
		})
		accepted = append(accepted, pool[0])
		pool = pool[1:]
	}

	out := make([]Path, len(accepted))
	for i, c := range accepted {
		out[i] = c.path
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].TotalCost != out[b].TotalCost {
			return out[a].TotalCost < out[b].TotalCost
		}
		return out[a].HopCount < out[b].HopCount
	})
	return out
}

// samePrefix reports whether nodes starts with the whole of prefix.
func samePrefix(nodes, prefix []string) bool {
	if len(nodes) < len(prefix) {
		return false
	}
	for i := range prefix {
		if nodes[i] != prefix[i] {
			return false
		}
	}
	return true
}

// joinPaths concatenates a root prefix with a spur path sharing its first
// node, recomputing cost and narrative over the combined links.
func joinPaths(rootNodes []string, rootLinks []graph.Link, spur Path, spurLinks []graph.Link, mult Multipliers) candidate {
	nodes := make([]string, 0, len(rootNodes)-1+len(spur.Nodes))
	nodes = append(nodes, rootNodes[:len(rootNodes)-1]...)
	nodes = append(nodes, spur.Nodes...)

	links := make([]graph.Link, 0, len(rootLinks)+len(spurLinks))
	links = append(links, rootLinks...)
	links = append(links, spurLinks...)

	total := 0.0
	narrative := make([]graph.LinkType, len(links))
	for i, l := range links {
		total += mult.cost(l)
		narrative[i] = l.Type
	}

	return candidate{
		path: Path{
			Nodes:     nodes,
			TotalCost: total,
			HopCount:  len(links),
			Narrative: narrative,
		},
		links: links,
	}
}
