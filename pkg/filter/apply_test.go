package filter

import (
	"errors"
	"testing"

	"github.com/signalvc/relgraph/pkg/graph"
)

func buildTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	nodes := []graph.Node{
		{ID: "inv-1", Name: "Alice Chen", Type: graph.NodeInvestor, Tier: 1, Group: "Fintech", Location: "NYC"},
		{ID: "inv-2", Name: "Bob Osei", Type: graph.NodeInvestor, Tier: 2, Group: "Climate", Location: "Berlin"},
		{ID: "firm-1", Name: "Summit Capital", Type: graph.NodeFirm, Tier: 1, Location: "NYC"},
		{ID: "co-1", Name: "Lumen AI", Type: graph.NodeCompany, Tier: 3, Group: "Fintech"},
		{ID: "sec-1", Name: "Fintech", Type: graph.NodeSector, Tier: 3, Group: "Fintech"},
	}
	links := []graph.Link{
		{Source: "inv-1", Target: "firm-1", Type: graph.LinkFirmColleague, Strength: 0.9},
		{Source: "inv-1", Target: "inv-2", Type: graph.LinkCoInvestment, Strength: 0.6},
		{Source: "inv-1", Target: "co-1", Type: graph.LinkInvestment, Strength: 0.8},
		{Source: "inv-2", Target: "sec-1", Type: graph.LinkSector, Strength: 0.3},
		{Source: "co-1", Target: "sec-1", Type: graph.LinkSector, Strength: 0.4},
	}
	g, err := graph.Build(nodes, links)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

// TestApply_Passthrough verifies the default spec keeps everything.
func TestApply_Passthrough(t *testing.T) {
	g := buildTestGraph(t)

	out, err := Apply(g, DefaultSpec())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.NodeCount() != g.NodeCount() || out.LinkCount() != g.LinkCount() {
		t.Errorf("Expected %d/%d, got %d/%d",
			g.NodeCount(), g.LinkCount(), out.NodeCount(), out.LinkCount())
	}
}

// TestApply_NodeType verifies the type predicate and that links to dropped
// nodes disappear with them.
func TestApply_NodeType(t *testing.T) {
	g := buildTestGraph(t)
	spec := DefaultSpec()
	spec.NodeType = "investor"

	out, err := Apply(g, spec)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.NodeCount() != 2 {
		t.Errorf("Expected 2 investors, got %d", out.NodeCount())
	}
	// Only inv-1 <-> inv-2 has both endpoints surviving.
	if out.LinkCount() != 1 {
		t.Errorf("Expected 1 link, got %d", out.LinkCount())
	}
}

// TestApply_SectorAndLocation verifies exact-match attribute predicates.
func TestApply_SectorAndLocation(t *testing.T) {
	g := buildTestGraph(t)

	spec := DefaultSpec()
	spec.Sector = "Fintech"
	out, err := Apply(g, spec)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.NodeCount() != 3 {
		t.Errorf("Expected 3 Fintech nodes, got %d", out.NodeCount())
	}

	spec = DefaultSpec()
	spec.Location = "NYC"
	out, err = Apply(g, spec)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.NodeCount() != 2 {
		t.Errorf("Expected 2 NYC nodes, got %d", out.NodeCount())
	}

	// No matches is an empty graph, not an error.
	spec = DefaultSpec()
	spec.Sector = "Space"
	out, err = Apply(g, spec)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.NodeCount() != 0 || out.LinkCount() != 0 {
		t.Errorf("Expected empty graph, got %d/%d", out.NodeCount(), out.LinkCount())
	}
}

// TestApply_TierRange verifies the inclusive tier window.
func TestApply_TierRange(t *testing.T) {
	g := buildTestGraph(t)
	spec := DefaultSpec()
	spec.Tiers = TierRange{Min: 1, Max: 2}

	out, err := Apply(g, spec)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	for _, n := range out.Nodes() {
		if n.Tier > 2 {
			t.Errorf("Node %s tier %d escaped the window", n.ID, n.Tier)
		}
	}
	if out.NodeCount() != 3 {
		t.Errorf("Expected 3 nodes in tiers 1-2, got %d", out.NodeCount())
	}
}

// TestApply_DegreeBeforePrune verifies the reference ordering: a node whose
// links are all of a disallowed type still counts them toward MinConnections,
// then ends up isolated after link filtering.
func TestApply_DegreeBeforePrune(t *testing.T) {
	nodes := []graph.Node{
		{ID: "hub", Name: "Hub", Type: graph.NodeInvestor, Tier: 1},
		{ID: "a", Name: "A", Type: graph.NodeSector, Tier: 3},
		{ID: "b", Name: "B", Type: graph.NodeSector, Tier: 3},
		{ID: "c", Name: "C", Type: graph.NodeSector, Tier: 3},
		{ID: "d", Name: "D", Type: graph.NodeSector, Tier: 3},
		{ID: "e", Name: "E", Type: graph.NodeSector, Tier: 3},
	}
	links := make([]graph.Link, 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		links = append(links, graph.Link{Source: "hub", Target: id, Type: graph.LinkSector, Strength: 0.5})
	}
	g, err := graph.Build(nodes, links)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	spec := DefaultSpec()
	spec.MinConnections = 3
	spec.LinkTypes = map[graph.LinkType]bool{graph.LinkCoInvestment: true} // sector links disallowed

	out, err := Apply(g, spec)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !out.HasNode("hub") {
		t.Error("hub should survive: its 5 sector links count toward MinConnections")
	}
	if out.LinkCount() != 0 {
		t.Errorf("Expected all links pruned, got %d", out.LinkCount())
	}
	if out.Degree("hub") != 0 {
		t.Errorf("Expected hub isolated, degree %d", out.Degree("hub"))
	}
}

// TestApply_MinStrength verifies weak links are pruned but their endpoints
// remain.
func TestApply_MinStrength(t *testing.T) {
	g := buildTestGraph(t)
	spec := DefaultSpec()
	spec.MinStrength = 0.5

	out, err := Apply(g, spec)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.NodeCount() != 5 {
		t.Errorf("Expected all 5 nodes, got %d", out.NodeCount())
	}
	if out.LinkCount() != 3 {
		t.Errorf("Expected 3 links at strength >= 0.5, got %d", out.LinkCount())
	}
	for _, l := range out.Links() {
		if l.Strength < 0.5 {
			t.Errorf("Link %v escaped the strength bound", l)
		}
	}
}

// TestApply_EmptyLinkTypes verifies an empty allow-set keeps nodes and drops
// every link.
func TestApply_EmptyLinkTypes(t *testing.T) {
	g := buildTestGraph(t)
	spec := DefaultSpec()
	spec.LinkTypes = map[graph.LinkType]bool{}

	out, err := Apply(g, spec)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out.NodeCount() != 5 {
		t.Errorf("Expected 5 isolated nodes, got %d", out.NodeCount())
	}
	if out.LinkCount() != 0 {
		t.Errorf("Expected 0 links, got %d", out.LinkCount())
	}
}

// TestApply_InvalidSpec verifies malformed specs are rejected before any
// computation.
func TestApply_InvalidSpec(t *testing.T) {
	g := buildTestGraph(t)

	bad := DefaultSpec()
	bad.Tiers = TierRange{Min: 3, Max: 1}
	if _, err := Apply(g, bad); err == nil {
		t.Error("Expected error for inverted tier range")
	}

	bad = DefaultSpec()
	bad.MinConnections = -1
	if _, err := Apply(g, bad); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("Expected ErrInvalidSpec, got %v", err)
	}

	bad = DefaultSpec()
	bad.Tiers = TierRange{Min: 0, Max: 5}
	if _, err := Apply(g, bad); err == nil {
		t.Error("Expected error for out-of-range tiers")
	}

	bad = DefaultSpec()
	bad.NodeType = "unicorn"
	if _, err := Apply(g, bad); err == nil {
		t.Error("Expected error for unknown node type")
	}
}

// TestApply_Idempotent verifies re-applying a spec to its own output changes
// nothing, including when the degree bound pruned links in the first pass.
func TestApply_Idempotent(t *testing.T) {
	g := buildTestGraph(t)
	spec := DefaultSpec()
	spec.MinConnections = 2
	spec.MinStrength = 0.5
	spec.LinkTypes = map[graph.LinkType]bool{
		graph.LinkCoInvestment: true,
		graph.LinkInvestment:   true,
	}

	once, err := Apply(g, spec)
	if err != nil {
		t.Fatalf("First apply failed: %v", err)
	}
	twice, err := Apply(once, spec)
	if err != nil {
		t.Fatalf("Second apply failed: %v", err)
	}

	if once.NodeCount() != twice.NodeCount() || once.LinkCount() != twice.LinkCount() {
		t.Errorf("Apply not idempotent: %d/%d then %d/%d",
			once.NodeCount(), once.LinkCount(), twice.NodeCount(), twice.LinkCount())
	}
	for _, id := range once.NodeIDs() {
		if !twice.HasNode(id) {
			t.Errorf("Node %s lost on second apply", id)
		}
	}
}
