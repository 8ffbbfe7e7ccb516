package orchestrator

import "github.com/codebakers/codebakers/internal/engineering"

// StartData is the payload of start.
type StartData struct {
	Project *engineering.Project  `json:"project"`
	Next    engineering.ScopeStep `json:"next_step"`
}

// ScopeData is the payload of scope.
type ScopeData struct {
	Outcome  engineering.ScopeOutcome `json:"outcome"`
	Scope    engineering.ProjectScope `json:"scope"`
	Progress int                      `json:"progress"`
}

// AdvanceData is the payload of advance.
type AdvanceData struct {
	Result   engineering.AdvanceResult `json:"result"`
	Progress int                       `json:"progress"`
}

// GateData is the payload of gate.
type GateData struct {
	Phase    engineering.Phase `json:"phase"`
	Gate     engineering.Gate  `json:"gate"`
	Progress int               `json:"progress"`
}

// ArtifactData is the payload of artifact save and get.
type ArtifactData struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Content string `json:"content,omitempty"`
}

// ArtifactListData is the payload of artifact list.
type ArtifactListData struct {
	Names []string `json:"names"`
}

// GraphOverview summarizes the whole dependency graph.
type GraphOverview struct {
	Nodes  int                          `json:"nodes"`
	Edges  int                          `json:"edges"`
	ByType map[engineering.NodeType]int `json:"by_type"`
}

// GraphFocus is one node with its neighbours.
type GraphFocus struct {
	Node         engineering.GraphNode   `json:"node"`
	Dependencies []engineering.GraphNode `json:"dependencies"`
	Dependents   []engineering.GraphNode `json:"dependents"`
}

// PhaseView is one row of the status phase table.
type PhaseView struct {
	Phase   engineering.Phase     `json:"phase"`
	Agent   engineering.AgentRole `json:"agent"`
	Gate    engineering.Gate      `json:"gate"`
	Current bool                  `json:"current"`
}

// StatusView is the full project status.
type StatusView struct {
	ID              string                    `json:"id"`
	Key             string                    `json:"key"`
	Name            string                    `json:"name"`
	Description     string                    `json:"description,omitempty"`
	CurrentPhase    engineering.Phase         `json:"current_phase"`
	CurrentAgent    engineering.AgentRole     `json:"current_agent"`
	Progress        int                       `json:"progress"`
	Complete        bool                      `json:"complete"`
	Phases          []PhaseView               `json:"phases"`
	Scope           engineering.ProjectScope  `json:"scope"`
	ScopingPending  []string                  `json:"scoping_pending,omitempty"`
	Stack           []engineering.StackChoice `json:"stack,omitempty"`
	Artifacts       []string                  `json:"artifacts"`
	Decisions       int                       `json:"decisions"`
	RecentDecisions []engineering.Decision    `json:"recent_decisions,omitempty"`
	GraphNodes      int                       `json:"graph_nodes"`
	GraphEdges      int                       `json:"graph_edges"`
	CreatedAt       string                    `json:"created_at"`
	LastActivity    string                    `json:"last_activity"`
	Version         int64                     `json:"version"`
}

// recentDecisions is how many of the latest decisions status includes.
const recentDecisions = 5

// NewStatusView builds the status of a project.
func NewStatusView(p *engineering.Project) StatusView {
	v := StatusView{
		ID:           p.ID,
		Key:          p.Key,
		Name:         p.Name,
		Description:  p.Description,
		CurrentPhase: p.CurrentPhase,
		CurrentAgent: p.CurrentAgent,
		Progress:     p.Progress(),
		Complete:     p.IsComplete(),
		Scope:        p.Scope,
		Artifacts:    p.Artifacts.List(),
		Decisions:    p.Decisions.Len(),
		GraphNodes:   len(p.Graph.Nodes),
		GraphEdges:   len(p.Graph.Edges),
		CreatedAt:    p.CreatedAt,
		LastActivity: p.LastActivity,
		Version:      p.Version,
	}
	for _, ph := range engineering.PhaseOrder {
		v.Phases = append(v.Phases, PhaseView{
			Phase:   ph,
			Agent:   engineering.AgentFor(ph),
			Gate:    p.Gate(ph),
			Current: ph == p.CurrentPhase,
		})
	}

	answered := make(map[string]bool, len(p.Scope.Answered))
	for _, id := range p.Scope.Answered {
		answered[id] = true
	}
	if p.Gate(engineering.PhaseScoping).Status == engineering.GatePassed {
		v.Stack = engineering.DetectStack(p.Scope)
	} else {
		for _, id := range engineering.ScopeStepIDs() {
			if !answered[id] {
				v.ScopingPending = append(v.ScopingPending, id)
			}
		}
	}

	all := p.Decisions.List()
	if len(all) > recentDecisions {
		all = all[len(all)-recentDecisions:]
	}
	v.RecentDecisions = all
	return v
}

func countByType(g engineering.DependencyGraph) map[engineering.NodeType]int {
	out := make(map[engineering.NodeType]int)
	for _, n := range g.Nodes {
		out[n.Type]++
	}
	return out
}
