// Package intro finds and ranks "warm introduction" paths: chains of
// relationships connecting two people who are not directly connected. Users
// want the easiest route to a referral, not the fewest hops, so the search
// is a weighted best-path problem where strong ties are cheap to traverse
// and some relationship kinds make better introducers than others.
package intro

import (
	"errors"
	"fmt"

	"github.com/signalvc/relgraph/pkg/graph"
)

// Sentinel errors for search configuration.
var (
	ErrUnknownSource     = errors.New("source node not in graph")
	ErrUnknownTarget     = errors.New("target node not in graph")
	ErrInvalidHopLimit   = errors.New("max hops must be at least 1")
	ErrInvalidPathLimit  = errors.New("max paths must be at least 1")
	ErrInvalidMultiplier = errors.New("cost multiplier must be positive")
)

// Path is one ranked introduction chain from source to target.
type Path struct {
	// Nodes is the ordered node id sequence, source first. A zero-hop
	// path (source == target) has a single entry.
	Nodes []string `json:"nodes"`

	// TotalCost is the sum of per-edge costs, multiplier(type)/strength.
	TotalCost float64 `json:"total_cost"`

	// HopCount is len(Nodes) - 1.
	HopCount int `json:"hop_count"`

	// Narrative lists the traversed link types in order, for display.
	Narrative []graph.LinkType `json:"narrative"`
}

// key canonicalizes a path for de-duplication.
func (p Path) key() string {
	out := ""
	for i, id := range p.Nodes {
		if i > 0 {
			out += "\x00"
		}
		out += id
	}
	return out
}

// Multipliers scales per-edge cost by link type. Lower means the tie is a
// better introducer: a firm colleague is an easier ask than a stranger who
// merely shares a sector. Values are tunable product knobs, not constants.
type Multipliers map[graph.LinkType]float64

// DefaultMultipliers returns the shipped cost weighting.
func DefaultMultipliers() Multipliers {
	return Multipliers{
		graph.LinkFirmColleague: 0.7,
		graph.LinkCoInvestment:  0.85,
		graph.LinkBoardMember:   0.9,
		graph.LinkInvestment:    1.0,
		graph.LinkSector:        1.3,
	}
}

// EqualMultipliers weights every link type the same, so cost reduces to
// 1/strength.
func EqualMultipliers() Multipliers {
	m := make(Multipliers, len(graph.AllLinkTypes))
	for _, lt := range graph.AllLinkTypes {
		m[lt] = 1.0
	}
	return m
}

// validate checks every link type carries a positive multiplier.
func (m Multipliers) validate() error {
	for _, lt := range graph.AllLinkTypes {
		v, ok := m[lt]
		if !ok || v <= 0 {
			return fmt.Errorf("%w: type %s has %v", ErrInvalidMultiplier, lt, v)
		}
	}
	return nil
}

// cost computes the traversal cost of one link. Build validation guarantees
// strength is positive, so costs are finite and non-negative.
func (m Multipliers) cost(l graph.Link) float64 {
	return m[l.Type] / l.Strength
}
