package engineering

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// DependencyGraph is a directed graph of tracked files. Nodes are unique by
// file path (re-adding a path updates the node in place); edges point from
// the dependent file to the file it depends on.
type DependencyGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// NormalizePath cleans a file path so "./src/a.ts" and "src/a.ts" match.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return path.Clean(filepath.ToSlash(p))
}

// AddNode inserts a node or, when the file path is already tracked, updates
// its type and name keeping the original id. created reports which happened.
func (g *DependencyGraph) AddNode(nodeType NodeType, name, filePath string) (node GraphNode, created bool) {
	filePath = NormalizePath(filePath)
	for i := range g.Nodes {
		if g.Nodes[i].FilePath == filePath {
			g.Nodes[i].Type = nodeType
			g.Nodes[i].Name = name
			return g.Nodes[i], false
		}
	}
	node = GraphNode{ID: newID(), Type: nodeType, Name: name, FilePath: filePath}
	g.Nodes = append(g.Nodes, node)
	return node, true
}

// AddEdge appends an edge. There is no cycle detection and no duplicate suppression.
func (g *DependencyGraph) AddEdge(sourceID, targetID string, t EdgeType) GraphEdge {
	e := GraphEdge{SourceID: sourceID, TargetID: targetID, Type: t}
	g.Edges = append(g.Edges, e)
	return e
}

// NodeByPath looks a node up by file path.
func (g DependencyGraph) NodeByPath(filePath string) (GraphNode, bool) {
	filePath = NormalizePath(filePath)
	for _, n := range g.Nodes {
		if n.FilePath == filePath {
			return n, true
		}
	}
	return GraphNode{}, false
}

// NodeByID looks a node up by id.
func (g DependencyGraph) NodeByID(id string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// Dependents returns the nodes with an edge into id, in edge order, without repeats.
func (g DependencyGraph) Dependents(id string) []GraphNode {
	return g.neighbours(id, func(e GraphEdge) (string, bool) { return e.SourceID, e.TargetID == id })
}

// Dependencies returns the nodes id has an edge to, in edge order, without repeats.
func (g DependencyGraph) Dependencies(id string) []GraphNode {
	return g.neighbours(id, func(e GraphEdge) (string, bool) { return e.TargetID, e.SourceID == id })
}

func (g DependencyGraph) neighbours(id string, pick func(GraphEdge) (string, bool)) []GraphNode {
	seen := map[string]bool{}
	var out []GraphNode
	for _, e := range g.Edges {
		other, ok := pick(e)
		if !ok || seen[other] {
			continue
		}
		seen[other] = true
		if n, found := g.NodeByID(other); found {
			out = append(out, n)
		}
	}
	return out
}

// Affected is the result of an impact query.
type Affected struct {
	Direct     []GraphNode `json:"direct"`
	Transitive []GraphNode `json:"transitive"`
}

// Total returns the number of affected nodes.
func (a Affected) Total() int {
	return len(a.Direct) + len(a.Transitive)
}

// FindAffected computes who depends on nodeID. Direct holds the nodes one
// incoming edge away; Transitive holds every other node reachable over
// incoming edges. The origin never appears and no node appears twice.
func (g DependencyGraph) FindAffected(nodeID string) Affected {
	incoming := make(map[string][]string, len(g.Edges))
	for _, e := range g.Edges {
		incoming[e.TargetID] = append(incoming[e.TargetID], e.SourceID)
	}

	visited := map[string]bool{nodeID: true}
	var result Affected
	var queue []string

	for _, src := range incoming[nodeID] {
		if visited[src] {
			continue
		}
		visited[src] = true
		if n, ok := g.NodeByID(src); ok {
			result.Direct = append(result.Direct, n)
		}
		queue = append(queue, src)
	}

	// BFS from the direct dependents; everything found here is more than one hop away.
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, src := range incoming[current] {
			if visited[src] {
				continue
			}
			visited[src] = true
			if n, ok := g.NodeByID(src); ok {
				result.Transitive = append(result.Transitive, n)
			}
			queue = append(queue, src)
		}
	}
	return result
}

// RiskLevel grades the blast radius of a change.
type RiskLevel string

const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskFor maps an affected-node count to a risk level:
// 0 none, 1–2 low, 3–5 medium, 6–10 high, above 10 critical.
func RiskFor(affected int) RiskLevel {
	switch {
	case affected <= 0:
		return RiskNone
	case affected <= 2:
		return RiskLow
	case affected <= 5:
		return RiskMedium
	case affected <= 10:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// --- Project-level graph operations ---

// GraphAddInput describes a file to track and the files it depends on.
// DependencyTypes is matched to DependsOn by position; missing entries
// default to import.
type GraphAddInput struct {
	NodeType        NodeType
	Name            string
	FilePath        string
	DependsOn       []string
	DependencyTypes []EdgeType
}

// GraphAddResult reports what a graph_add did.
type GraphAddResult struct {
	Node    GraphNode   `json:"node"`
	Created bool        `json:"created"`
	Edges   []GraphEdge `json:"edges"`
	Skipped []string    `json:"skipped,omitempty"` // dependsOn paths that are not tracked yet
}

// AddToGraph upserts a node and links it to each known dependency.
// Unknown dependency paths are skipped, never stored as dangling edges.
func (p *Project) AddToGraph(in GraphAddInput) (GraphAddResult, error) {
	if !validNodeType(in.NodeType) {
		return GraphAddResult{}, InvalidArgument(
			"invalid node type %q: must be one of: schema, api, component, service, page, util, config", in.NodeType)
	}
	if NormalizePath(in.FilePath) == "" {
		return GraphAddResult{}, InvalidArgument("'file_path' is required")
	}
	edgeTypes := make([]EdgeType, len(in.DependsOn))
	for i := range in.DependsOn {
		edgeTypes[i] = EdgeImport
		if i < len(in.DependencyTypes) && in.DependencyTypes[i] != "" {
			edgeTypes[i] = in.DependencyTypes[i]
		}
		if !validEdgeTypes[edgeTypes[i]] {
			return GraphAddResult{}, InvalidArgument(
				"invalid dependency type %q: must be one of: import, api-call, db-query, event, config", edgeTypes[i])
		}
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = path.Base(NormalizePath(in.FilePath))
	}

	node, created := p.Graph.AddNode(in.NodeType, name, in.FilePath)
	res := GraphAddResult{Node: node, Created: created}
	for i, dep := range in.DependsOn {
		target, ok := p.Graph.NodeByPath(dep)
		if !ok {
			res.Skipped = append(res.Skipped, NormalizePath(dep))
			continue
		}
		res.Edges = append(res.Edges, p.Graph.AddEdge(node.ID, target.ID, edgeTypes[i]))
	}
	p.touch()
	return res, nil
}

// ImpactReport is the impact analysis of one tracked file.
type ImpactReport struct {
	Node GraphNode `json:"node"`
	Affected
	Risk RiskLevel `json:"risk"`
}

// Impact runs impact analysis for a tracked file path.
func (p *Project) Impact(filePath string) (ImpactReport, error) {
	node, ok := p.Graph.NodeByPath(filePath)
	if !ok {
		return ImpactReport{}, newError(ErrNotFound,
			fmt.Sprintf("file %q is not tracked in the dependency graph", NormalizePath(filePath)),
			"use `engineering_graph_add` to track it first")
	}
	affected := p.Graph.FindAffected(node.ID)
	return ImpactReport{Node: node, Affected: affected, Risk: RiskFor(affected.Total())}, nil
}

func validNodeType(t NodeType) bool {
	for _, nt := range NodeTypes {
		if nt == t {
			return true
		}
	}
	return false
}
