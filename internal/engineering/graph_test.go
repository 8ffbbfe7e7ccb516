package engineering

import (
	"errors"
	"testing"
)

func addFile(t *testing.T, p *Project, path string, deps ...string) GraphNode {
	t.Helper()
	res, err := p.AddToGraph(GraphAddInput{NodeType: NodeComponent, Name: path, FilePath: path, DependsOn: deps})
	if err != nil {
		t.Fatalf("AddToGraph(%s): %v", path, err)
	}
	return res.Node
}

func ids(nodes []GraphNode) map[string]bool {
	m := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		m[n.FilePath] = true
	}
	return m
}

// --- AddToGraph ---

func TestAddToGraph_SingleEdgeRoundTrip(t *testing.T) {
	p := testProject()
	a := addFile(t, p, "db/schema.ts")
	addFile(t, p, "api/users.ts", "db/schema.ts")

	if len(p.Graph.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(p.Graph.Edges))
	}
	got := p.Graph.FindAffected(a.ID)
	if len(got.Direct) != 1 || got.Direct[0].FilePath != "api/users.ts" {
		t.Errorf("Direct = %v, want [api/users.ts]", got.Direct)
	}
	if len(got.Transitive) != 0 {
		t.Errorf("Transitive = %v, want empty", got.Transitive)
	}
}

func TestAddToGraph_SkipsUnknownDependency(t *testing.T) {
	p := testProject()
	res, err := p.AddToGraph(GraphAddInput{
		NodeType:  NodePage,
		FilePath:  "app/page.tsx",
		DependsOn: []string{"lib/missing.ts"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Graph.Edges) != 0 {
		t.Errorf("dangling edge created: %v", p.Graph.Edges)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "lib/missing.ts" {
		t.Errorf("Skipped = %v", res.Skipped)
	}
	if res.Node.Name != "page.tsx" {
		t.Errorf("default name = %q, want base name", res.Node.Name)
	}
}

func TestAddToGraph_UpsertsByFilePath(t *testing.T) {
	p := testProject()
	first := addFile(t, p, "./lib/auth.ts")
	res, err := p.AddToGraph(GraphAddInput{NodeType: NodeService, Name: "auth service", FilePath: "lib/auth.ts"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Created {
		t.Error("re-adding a tracked path should update, not create")
	}
	if len(p.Graph.Nodes) != 1 {
		t.Fatalf("nodes = %d, want 1", len(p.Graph.Nodes))
	}
	if res.Node.ID != first.ID || res.Node.Type != NodeService || res.Node.Name != "auth service" {
		t.Errorf("upserted node = %+v", res.Node)
	}
}

func TestAddToGraph_ValidatesTypes(t *testing.T) {
	p := testProject()
	addFile(t, p, "a.ts")

	_, err := p.AddToGraph(GraphAddInput{NodeType: "widget", FilePath: "b.ts"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad node type: err = %v", err)
	}
	_, err = p.AddToGraph(GraphAddInput{
		NodeType:        NodeUtil,
		FilePath:        "b.ts",
		DependsOn:       []string{"a.ts"},
		DependencyTypes: []EdgeType{"telepathy"},
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad edge type: err = %v", err)
	}
	if len(p.Graph.Nodes) != 1 {
		t.Errorf("invalid input must not mutate the graph: %d nodes", len(p.Graph.Nodes))
	}
}

func TestAddToGraph_EdgeTypesByPosition(t *testing.T) {
	p := testProject()
	addFile(t, p, "a.ts")
	addFile(t, p, "b.ts")
	res, err := p.AddToGraph(GraphAddInput{
		NodeType:        NodeAPI,
		FilePath:        "c.ts",
		DependsOn:       []string{"a.ts", "b.ts"},
		DependencyTypes: []EdgeType{EdgeDBQuery},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Edges[0].Type != EdgeDBQuery || res.Edges[1].Type != EdgeImport {
		t.Errorf("edge types = %s, %s", res.Edges[0].Type, res.Edges[1].Type)
	}
}

// --- FindAffected ---

func TestFindAffected_TransitiveChain(t *testing.T) {
	p := testProject()
	a := addFile(t, p, "a.ts")
	addFile(t, p, "b.ts", "a.ts")
	addFile(t, p, "c.ts", "b.ts")

	got := p.Graph.FindAffected(a.ID)
	if len(got.Direct) != 1 || got.Direct[0].FilePath != "b.ts" {
		t.Errorf("Direct = %v, want [b.ts]", got.Direct)
	}
	if len(got.Transitive) != 1 || got.Transitive[0].FilePath != "c.ts" {
		t.Errorf("Transitive = %v, want [c.ts]", got.Transitive)
	}
}

func TestFindAffected_DiamondHasNoDuplicates(t *testing.T) {
	// d depends on b and c, both of which depend on a; e depends on d twice.
	p := testProject()
	a := addFile(t, p, "a.ts")
	addFile(t, p, "b.ts", "a.ts")
	addFile(t, p, "c.ts", "a.ts")
	addFile(t, p, "d.ts", "b.ts", "c.ts")
	addFile(t, p, "e.ts", "d.ts", "d.ts")

	got := p.Graph.FindAffected(a.ID)
	direct, transitive := ids(got.Direct), ids(got.Transitive)
	if len(got.Direct) != 2 || !direct["b.ts"] || !direct["c.ts"] {
		t.Errorf("Direct = %v, want b.ts and c.ts", got.Direct)
	}
	if len(got.Transitive) != 2 || !transitive["d.ts"] || !transitive["e.ts"] {
		t.Errorf("Transitive = %v, want d.ts and e.ts once each", got.Transitive)
	}
}

func TestFindAffected_CycleExcludesOrigin(t *testing.T) {
	p := testProject()
	a := addFile(t, p, "a.ts")
	b := addFile(t, p, "b.ts", "a.ts")
	p.Graph.AddEdge(a.ID, b.ID, EdgeImport) // a depends on b: cycle

	got := p.Graph.FindAffected(a.ID)
	if got.Total() != 1 || got.Direct[0].ID != b.ID {
		t.Errorf("affected = %+v, want only b", got)
	}
}

func TestFindAffected_NoTruncation(t *testing.T) {
	p := testProject()
	root := addFile(t, p, "root.ts")
	prev := "root.ts"
	for i := 0; i < 25; i++ {
		name := string(rune('a'+i)) + ".ts"
		addFile(t, p, name, prev)
		prev = name
	}
	got := p.Graph.FindAffected(root.ID)
	if got.Total() != 25 {
		t.Errorf("Total = %d, want 25", got.Total())
	}
}

// --- Impact / RiskFor ---

func TestImpact_UntrackedFile(t *testing.T) {
	p := testProject()
	_, err := p.Impact("nope.ts")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestImpact_ReportsRisk(t *testing.T) {
	p := testProject()
	addFile(t, p, "lib/db.ts")
	for _, f := range []string{"a.ts", "b.ts", "c.ts"} {
		addFile(t, p, f, "lib/db.ts")
	}
	r, err := p.Impact("./lib/db.ts")
	if err != nil {
		t.Fatal(err)
	}
	if r.Risk != RiskMedium {
		t.Errorf("Risk = %s, want medium", r.Risk)
	}
}

func TestRiskFor(t *testing.T) {
	tests := []struct {
		n    int
		want RiskLevel
	}{
		{0, RiskNone}, {1, RiskLow}, {2, RiskLow}, {3, RiskMedium}, {5, RiskMedium},
		{6, RiskHigh}, {10, RiskHigh}, {11, RiskCritical}, {500, RiskCritical},
	}
	for _, tt := range tests {
		if got := RiskFor(tt.n); got != tt.want {
			t.Errorf("RiskFor(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

// --- Dependencies / Dependents ---

func TestDependenciesAndDependents(t *testing.T) {
	p := testProject()
	a := addFile(t, p, "a.ts")
	b := addFile(t, p, "b.ts", "a.ts")

	if deps := p.Graph.Dependencies(b.ID); len(deps) != 1 || deps[0].ID != a.ID {
		t.Errorf("Dependencies(b) = %v", deps)
	}
	if deps := p.Graph.Dependents(a.ID); len(deps) != 1 || deps[0].ID != b.ID {
		t.Errorf("Dependents(a) = %v", deps)
	}
}
