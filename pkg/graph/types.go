package graph

import "fmt"

// NodeType classifies an entity in the relationship graph.
type NodeType int

const (
	NodeInvestor NodeType = iota
	NodeFirm
	NodeCompany
	NodeSector
)

// String returns the wire name of a node type.
func (t NodeType) String() string {
	switch t {
	case NodeInvestor:
		return "investor"
	case NodeFirm:
		return "firm"
	case NodeCompany:
		return "company"
	case NodeSector:
		return "sector"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the defined node types.
func (t NodeType) Valid() bool {
	return t >= NodeInvestor && t <= NodeSector
}

// ParseNodeType converts a wire name to a NodeType.
func ParseNodeType(s string) (NodeType, error) {
	switch s {
	case "investor":
		return NodeInvestor, nil
	case "firm":
		return NodeFirm, nil
	case "company":
		return NodeCompany, nil
	case "sector":
		return NodeSector, nil
	default:
		return 0, fmt.Errorf("unknown node type %q", s)
	}
}

// MarshalJSON encodes the node type as its wire name.
func (t NodeType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes a node type from its wire name.
func (t *NodeType) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("node type must be a JSON string, got %s", data)
	}
	parsed, err := ParseNodeType(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// LinkType classifies a relationship between two nodes.
type LinkType int

const (
	LinkInvestment LinkType = iota
	LinkCoInvestment
	LinkFirmColleague
	LinkBoardMember
	LinkSector
)

// AllLinkTypes lists every defined link type, in declaration order.
var AllLinkTypes = []LinkType{
	LinkInvestment,
	LinkCoInvestment,
	LinkFirmColleague,
	LinkBoardMember,
	LinkSector,
}

// String returns the wire name of a link type.
func (t LinkType) String() string {
	switch t {
	case LinkInvestment:
		return "investment"
	case LinkCoInvestment:
		return "co_investment"
	case LinkFirmColleague:
		return "firm_colleague"
	case LinkBoardMember:
		return "board_member"
	case LinkSector:
		return "sector"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the defined link types.
func (t LinkType) Valid() bool {
	return t >= LinkInvestment && t <= LinkSector
}

// ParseLinkType converts a wire name to a LinkType.
func ParseLinkType(s string) (LinkType, error) {
	switch s {
	case "investment":
		return LinkInvestment, nil
	case "co_investment":
		return LinkCoInvestment, nil
	case "firm_colleague":
		return LinkFirmColleague, nil
	case "board_member":
		return LinkBoardMember, nil
	case "sector":
		return LinkSector, nil
	default:
		return 0, fmt.Errorf("unknown link type %q", s)
	}
}

// MarshalJSON encodes the link type as its wire name.
func (t LinkType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes a link type from its wire name.
func (t *LinkType) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("link type must be a JSON string, got %s", data)
	}
	parsed, err := ParseLinkType(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Tier bounds. Tier 1 nodes are the most influential and render largest.
const (
	MinTier = 1
	MaxTier = 3
)

// Node is a single entity in the relationship graph. Nodes are plain values;
// the owning Graph is immutable once built.
type Node struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Type            NodeType `json:"type"`
	Tier            int      `json:"tier"`
	Value           float64  `json:"value"`
	InvestmentCount int      `json:"investment_count,omitempty"`
	Group           string   `json:"group,omitempty"`
	Location        string   `json:"location,omitempty"`
	FirmName        string   `json:"firm_name,omitempty"`
}

// Weight returns the node's importance measure: the investment count when
// present, otherwise the aggregate connection value.
func (n *Node) Weight() float64 {
	if n.InvestmentCount > 0 {
		return float64(n.InvestmentCount)
	}
	return n.Value
}

// Link is a typed, weighted relationship between two nodes. Links hold node
// IDs only; node lifetimes belong to the Graph.
type Link struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Type     LinkType `json:"type"`
	Strength float64  `json:"strength"`
}

// Other returns the endpoint of l opposite to nodeID.
func (l *Link) Other(nodeID string) string {
	if l.Source == nodeID {
		return l.Target
	}
	return l.Source
}

// Touches reports whether nodeID is one of the link's endpoints.
func (l *Link) Touches(nodeID string) bool {
	return l.Source == nodeID || l.Target == nodeID
}
