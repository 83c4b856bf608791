// Package filter narrows a relationship graph to the nodes and links a
// caller wants visible. Filtering is a pure function: it reads one Graph and
// builds another, applying its predicates in a fixed, dependency-respecting
// order (node predicates first, then link predicates over surviving nodes).
package filter

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/signalvc/relgraph/pkg/graph"
)

// NodeTypeAll disables the node type predicate.
const NodeTypeAll = "all"

var validate = validator.New()

// Sentinel errors for spec validation.
var (
	ErrInvalidSpec = errors.New("invalid filter spec")
)

// SpecError wraps a validation failure with the offending field.
type SpecError struct {
	Field string
	Cause error
}

// Error implements the error interface.
func (e *SpecError) Error() string {
	return fmt.Sprintf("filter spec field %s: %v", e.Field, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *SpecError) Unwrap() error {
	return e.Cause
}

// TierRange is an inclusive influence-tier window.
type TierRange struct {
	Min int `json:"min" yaml:"min" validate:"min=1,max=3"`
	Max int `json:"max" yaml:"max" validate:"min=1,max=3"`
}

// Spec is an immutable description of which nodes and links remain visible.
// The zero value is not usable; start from DefaultSpec.
type Spec struct {
	// NodeType is "all" or one of investor/firm/company/sector.
	NodeType string `json:"node_type" yaml:"node_type" validate:"required"`

	// MinConnections drops nodes whose degree against the original,
	// unfiltered link set is below this bound.
	MinConnections int `json:"min_connections" yaml:"min_connections" validate:"min=0"`

	// Sector and Location are exact-match predicates against a node's
	// group and location; empty disables them.
	Sector   string `json:"sector,omitempty" yaml:"sector,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Tiers is the inclusive tier window a node must fall in.
	Tiers TierRange `json:"tiers" yaml:"tiers"`

	// LinkTypes is the set of link types allowed through. An empty set is
	// legal and yields a linkless graph of the surviving nodes.
	LinkTypes map[graph.LinkType]bool `json:"link_types" yaml:"link_types"`

	// MinStrength drops links weaker than this bound.
	MinStrength float64 `json:"min_strength" yaml:"min_strength" validate:"min=0,max=1"`
}

// DefaultSpec passes every node and link through untouched.
func DefaultSpec() Spec {
	types := make(map[graph.LinkType]bool, len(graph.AllLinkTypes))
	for _, lt := range graph.AllLinkTypes {
		types[lt] = true
	}
	return Spec{
		NodeType:  NodeTypeAll,
		Tiers:     TierRange{Min: graph.MinTier, Max: graph.MaxTier},
		LinkTypes: types,
	}
}

// Validate rejects malformed specs before any graph work starts.
func (s Spec) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &SpecError{Field: verrs[0].Field(), Cause: ErrInvalidSpec}
		}
		return err
	}
	if s.NodeType != NodeTypeAll {
		if _, err := graph.ParseNodeType(s.NodeType); err != nil {
			return &SpecError{Field: "NodeType", Cause: err}
		}
	}
	if s.Tiers.Min > s.Tiers.Max {
		return &SpecError{
			Field: "Tiers",
			Cause: fmt.Errorf("%w: min tier %d above max tier %d", ErrInvalidSpec, s.Tiers.Min, s.Tiers.Max),
		}
	}
	return nil
}

// matchesNode applies the type, sector, location and tier predicates.
// Degree is handled separately because it needs the unfiltered link set.
func (s Spec) matchesNode(n *graph.Node) bool {
	if s.NodeType != NodeTypeAll && n.Type.String() != s.NodeType {
		return false
	}
	if s.Sector != "" && n.Group != s.Sector {
		return false
	}
	if s.Location != "" && n.Location != s.Location {
		return false
	}
	if n.Tier < s.Tiers.Min || n.Tier > s.Tiers.Max {
		return false
	}
	return true
}

// matchesLink applies the link type and strength predicates.
func (s Spec) matchesLink(l graph.Link) bool {
	return s.LinkTypes[l.Type] && l.Strength >= s.MinStrength
}
