package graph

import (
	"errors"
	"testing"
)

func testNodes() []Node {
	return []Node{
		{ID: "inv-1", Name: "Alice Chen", Type: NodeInvestor, Tier: 1, InvestmentCount: 42, FirmName: "Summit Capital"},
		{ID: "firm-1", Name: "Summit Capital", Type: NodeFirm, Tier: 1, Value: 120},
		{ID: "inv-2", Name: "Bob Osei", Type: NodeInvestor, Tier: 2, InvestmentCount: 11},
		{ID: "sec-1", Name: "Fintech", Type: NodeSector, Tier: 3, Value: 30, Group: "Fintech"},
	}
}

func testLinks() []Link {
	return []Link{
		{Source: "inv-1", Target: "firm-1", Type: LinkFirmColleague, Strength: 0.9},
		{Source: "inv-1", Target: "inv-2", Type: LinkCoInvestment, Strength: 0.6},
		{Source: "inv-2", Target: "sec-1", Type: LinkSector, Strength: 0.3},
	}
}

// TestBuild_Valid builds a small graph and checks counts, lookup and degree.
func TestBuild_Valid(t *testing.T) {
	g, err := Build(testNodes(), testLinks())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if g.NodeCount() != 4 {
		t.Errorf("Expected 4 nodes, got %d", g.NodeCount())
	}
	if g.LinkCount() != 3 {
		t.Errorf("Expected 3 links, got %d", g.LinkCount())
	}
	if n := g.Node("inv-1"); n == nil || n.Name != "Alice Chen" {
		t.Errorf("Node lookup failed: %+v", n)
	}
	if d := g.Degree("inv-1"); d != 2 {
		t.Errorf("Expected degree 2 for inv-1, got %d", d)
	}
	if d := g.Degree("firm-1"); d != 1 {
		t.Errorf("Expected degree 1 for firm-1, got %d", d)
	}
	if d := g.Degree("missing"); d != 0 {
		t.Errorf("Expected degree 0 for unknown id, got %d", d)
	}
}

// TestBuild_DanglingLink verifies a link to an unknown node fails the whole
// build and names the missing id.
func TestBuild_DanglingLink(t *testing.T) {
	links := append(testLinks(), Link{Source: "inv-1", Target: "ghost", Type: LinkInvestment, Strength: 0.5})

	_, err := Build(testNodes(), links)
	if err == nil {
		t.Fatal("Expected build to fail on dangling link")
	}
	if !errors.Is(err, ErrDanglingLink) {
		t.Errorf("Expected ErrDanglingLink, got %v", err)
	}
	be, ok := IsBuildError(err)
	if !ok {
		t.Fatalf("Expected *BuildError, got %T", err)
	}
	if be.ID != "ghost" {
		t.Errorf("Expected offending id 'ghost', got %q", be.ID)
	}
}

// TestBuild_DuplicateNodeID verifies duplicate ids are a construction error.
func TestBuild_DuplicateNodeID(t *testing.T) {
	nodes := append(testNodes(), Node{ID: "inv-1", Name: "Impostor", Type: NodeInvestor, Tier: 2})

	_, err := Build(nodes, nil)
	if !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("Expected ErrDuplicateNode, got %v", err)
	}
}

// TestBuild_SelfLoop verifies self-loops are rejected.
func TestBuild_SelfLoop(t *testing.T) {
	links := []Link{{Source: "inv-1", Target: "inv-1", Type: LinkCoInvestment, Strength: 0.5}}

	_, err := Build(testNodes(), links)
	if !errors.Is(err, ErrSelfLoop) {
		t.Errorf("Expected ErrSelfLoop, got %v", err)
	}
}

// TestBuild_InvalidTier verifies tier bounds are enforced at build time.
func TestBuild_InvalidTier(t *testing.T) {
	for _, tier := range []int{0, 4, -1} {
		nodes := []Node{{ID: "x", Name: "X", Type: NodeInvestor, Tier: tier}}
		if _, err := Build(nodes, nil); !errors.Is(err, ErrInvalidTier) {
			t.Errorf("Tier %d: expected ErrInvalidTier, got %v", tier, err)
		}
	}
}

// TestBuild_InvalidStrength verifies strength must be in (0, 1].
func TestBuild_InvalidStrength(t *testing.T) {
	for _, s := range []float64{0, -0.5, 1.01} {
		links := []Link{{Source: "inv-1", Target: "inv-2", Type: LinkCoInvestment, Strength: s}}
		if _, err := Build(testNodes(), links); !errors.Is(err, ErrInvalidStrength) {
			t.Errorf("Strength %v: expected ErrInvalidStrength, got %v", s, err)
		}
	}
}

// TestBuild_Empty verifies an empty input yields an empty, usable graph.
func TestBuild_Empty(t *testing.T) {
	g, err := Build(nil, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.NodeCount() != 0 || g.LinkCount() != 0 {
		t.Errorf("Expected empty graph, got %d nodes %d links", g.NodeCount(), g.LinkCount())
	}
	if len(g.Nodes()) != 0 || len(g.Links()) != 0 {
		t.Error("Expected empty node and link slices")
	}
}

// TestGraph_Index verifies build indices are stable, dense and in input order.
func TestGraph_Index(t *testing.T) {
	g, err := Build(testNodes(), testLinks())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i, id := range g.NodeIDs() {
		idx, ok := g.Index(id)
		if !ok {
			t.Fatalf("Index missing for %q", id)
		}
		if idx != i {
			t.Errorf("Expected index %d for %q, got %d", i, id, idx)
		}
		if g.NodeAt(idx).ID != id {
			t.Errorf("NodeAt(%d) returned %q, want %q", idx, g.NodeAt(idx).ID, id)
		}
	}
	if _, ok := g.Index("missing"); ok {
		t.Error("Expected no index for unknown id")
	}
}

// TestGraph_Neighbors verifies adjacency returns every link touching a node.
func TestGraph_Neighbors(t *testing.T) {
	g, err := Build(testNodes(), testLinks())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	nb := g.Neighbors("inv-1")
	if len(nb) != 2 {
		t.Fatalf("Expected 2 links for inv-1, got %d", len(nb))
	}
	for _, l := range nb {
		if !l.Touches("inv-1") {
			t.Errorf("Neighbor link %v does not touch inv-1", l)
		}
	}
	if len(g.Neighbors("sec-1")) != 1 {
		t.Errorf("Expected 1 link for sec-1")
	}
}

// TestLink_Other verifies opposite-endpoint lookup.
func TestLink_Other(t *testing.T) {
	l := Link{Source: "a", Target: "b", Type: LinkInvestment, Strength: 0.5}
	if l.Other("a") != "b" {
		t.Errorf("Other(a) = %q, want b", l.Other("a"))
	}
	if l.Other("b") != "a" {
		t.Errorf("Other(b) = %q, want a", l.Other("b"))
	}
}

// TestNode_Weight verifies investment_count wins over value when present.
func TestNode_Weight(t *testing.T) {
	withCount := Node{InvestmentCount: 7, Value: 100}
	if withCount.Weight() != 7 {
		t.Errorf("Expected weight 7, got %v", withCount.Weight())
	}
	withoutCount := Node{Value: 100}
	if withoutCount.Weight() != 100 {
		t.Errorf("Expected weight 100, got %v", withoutCount.Weight())
	}
}
