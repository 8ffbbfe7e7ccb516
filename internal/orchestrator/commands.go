package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codebakers/codebakers/internal/engineering"
)

// Command names accepted by Execute.
const (
	CmdStart     = "start"
	CmdScope     = "scope"
	CmdStatus    = "status"
	CmdAdvance   = "advance"
	CmdGate      = "gate"
	CmdArtifact  = "artifact"
	CmdDecision  = "decision"
	CmdGraphAdd  = "graph_add"
	CmdImpact    = "impact"
	CmdGraphView = "graph_view"
)

// Commands lists every command in display order.
var Commands = []string{
	CmdStart, CmdScope, CmdStatus, CmdAdvance, CmdGate,
	CmdArtifact, CmdDecision, CmdGraphAdd, CmdImpact, CmdGraphView,
}

// --- Arguments ---

// StartArgs creates a project.
type StartArgs struct {
	Name        string `json:"project_name"`
	Description string `json:"description,omitempty"`
	Force       bool   `json:"force,omitempty"`
}

// ScopeArgs answers one scoping step. Answer is the raw answer text; list
// answers may be a JSON array or comma separated.
type ScopeArgs struct {
	StepID string `json:"step_id"`
	Answer string `json:"answer"`
}

// AdvanceArgs moves to the next phase.
type AdvanceArgs struct {
	Artifacts []string `json:"artifacts,omitempty"`
}

// Gate actions.
const (
	GatePass = "pass"
	GateFail = "fail"
	GateSkip = "skip"
)

// GateArgs passes or fails the current phase's gate, or skips a later phase.
type GateArgs struct {
	Action     string                `json:"action"`
	Phase      engineering.Phase     `json:"phase,omitempty"`
	Artifacts  []string              `json:"artifacts,omitempty"`
	Reason     string                `json:"reason,omitempty"`
	ApprovedBy engineering.AgentRole `json:"approved_by,omitempty"`
}

// Artifact actions.
const (
	ArtifactSave = "save"
	ArtifactGet  = "get"
	ArtifactList = "list"
)

// ArtifactArgs saves, reads or lists artifacts.
type ArtifactArgs struct {
	Action  string `json:"action"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
}

// DecisionArgs records a decision in the current phase.
type DecisionArgs struct {
	Agent        engineering.AgentRole `json:"agent"`
	Decision     string                `json:"decision"`
	Reasoning    string                `json:"reasoning"`
	Alternatives []string              `json:"alternatives,omitempty"`
	Confidence   *int                  `json:"confidence,omitempty"`
	Impact       engineering.Impact    `json:"impact,omitempty"`
	Reversible   *bool                 `json:"reversible,omitempty"`
}

// GraphAddArgs tracks a file in the dependency graph.
type GraphAddArgs struct {
	NodeType        engineering.NodeType   `json:"node_type"`
	Name            string                 `json:"name,omitempty"`
	FilePath        string                 `json:"file_path"`
	DependsOn       []string               `json:"depends_on,omitempty"`
	DependencyTypes []engineering.EdgeType `json:"dependency_types,omitempty"`
}

// ImpactArgs asks what depends on a file.
type ImpactArgs struct {
	FilePath string `json:"file_path"`
}

// GraphViewArgs shows the graph, optionally around one file.
type GraphViewArgs struct {
	FocusFile string `json:"focus_file,omitempty"`
}

// --- Commands ---

// Start creates the project for key. An existing project is only replaced
// when Force is set.
func (o *Orchestrator) Start(ctx context.Context, key string, args StartArgs) (Result, error) {
	return o.run(ctx, CmdStart, key, func() (Result, error) {
		name := strings.TrimSpace(args.Name)
		if name == "" {
			return Result{}, engineering.InvalidArgument("'project_name' is required")
		}

		existing, err := o.store.Load(ctx, key)
		switch {
		case err == nil && !args.Force:
			return Result{}, &engineering.Error{
				Kind:    engineering.ErrPrecondition,
				Message: fmt.Sprintf("project %q already exists for this key", existing.Name),
				Remedy:  "use `engineering_status` to continue it, or start again with force=true",
			}
		case err != nil && !errors.Is(err, engineering.ErrNoProject):
			return Result{}, err
		}

		p := engineering.NewProject(key, name, args.Description)
		if existing != nil {
			p.Version = existing.Version
		}
		if err := o.store.Save(ctx, key, p); err != nil {
			return Result{}, err
		}
		if existing == nil && o.metrics != nil {
			o.metrics.IncProjects()
		}
		first := engineering.FirstScopeStep()
		return Result{
			Summary: formatStart(p, first),
			Data:    StartData{Project: p, Next: first},
		}, nil
	})
}

// Scope applies one scoping answer.
func (o *Orchestrator) Scope(ctx context.Context, key string, args ScopeArgs) (Result, error) {
	return o.mutate(ctx, CmdScope, key, func(p *engineering.Project) (Result, error) {
		out, err := p.AnswerScope(strings.TrimSpace(args.StepID), args.Answer)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Summary: formatScope(p, out),
			Data:    ScopeData{Outcome: out, Scope: p.Scope, Progress: p.Progress()},
		}, nil
	})
}

// Status reports the full project state.
func (o *Orchestrator) Status(ctx context.Context, key string) (Result, error) {
	return o.view(ctx, CmdStatus, key, func(p *engineering.Project) (Result, error) {
		v := NewStatusView(p)
		return Result{Summary: formatStatus(v), Data: v}, nil
	})
}

// Advance moves to the next phase once the current gate has passed.
func (o *Orchestrator) Advance(ctx context.Context, key string, args AdvanceArgs) (Result, error) {
	return o.mutate(ctx, CmdAdvance, key, func(p *engineering.Project) (Result, error) {
		out, err := p.Advance(args.Artifacts)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Summary:   formatAdvance(p, out),
			Data:      AdvanceData{Result: out, Progress: p.Progress()},
			unchanged: out.Completed,
		}, nil
	})
}

// Gate passes or fails the current phase's gate, or skips a later phase.
func (o *Orchestrator) Gate(ctx context.Context, key string, args GateArgs) (Result, error) {
	return o.mutate(ctx, CmdGate, key, func(p *engineering.Project) (Result, error) {
		action := strings.ToLower(strings.TrimSpace(args.Action))
		ph := args.Phase
		if action != GateSkip && ph != "" && ph != p.CurrentPhase {
			return Result{}, engineering.InvalidArgument(
				"%s acts on the current phase (%s), not %s", action, p.CurrentPhase, ph)
		}
		if ph == "" {
			ph = p.CurrentPhase
		}

		switch action {
		case GatePass:
			by := args.ApprovedBy
			if by == "" {
				by = p.CurrentAgent
			}
			if err := engineering.ValidateRole(by); err != nil {
				return Result{}, err
			}
			if err := p.PassGate(ph, args.Artifacts, by); err != nil {
				return Result{}, err
			}
		case GateFail:
			reason := strings.TrimSpace(args.Reason)
			if reason == "" {
				return Result{}, engineering.InvalidArgument("'reason' is required to fail a gate")
			}
			if err := p.FailGate(ph, reason); err != nil {
				return Result{}, err
			}
		case GateSkip:
			if args.Phase == "" {
				return Result{}, engineering.InvalidArgument("'phase' is required to skip a gate")
			}
			if err := p.SkipGate(ph, strings.TrimSpace(args.Reason)); err != nil {
				return Result{}, err
			}
		default:
			return Result{}, engineering.InvalidArgument("invalid action %q: must be one of: pass, fail, skip", args.Action)
		}

		g := p.Gate(ph)
		return Result{
			Summary: formatGate(p, action, ph, g),
			Data:    GateData{Phase: ph, Gate: g, Progress: p.Progress()},
		}, nil
	})
}

// Artifact saves, reads or lists artifacts. Only save writes the project.
func (o *Orchestrator) Artifact(ctx context.Context, key string, args ArtifactArgs) (Result, error) {
	action := strings.ToLower(strings.TrimSpace(args.Action))
	switch action {
	case ArtifactSave:
		return o.mutate(ctx, CmdArtifact, key, func(p *engineering.Project) (Result, error) {
			if err := p.SaveArtifact(args.Name, args.Content); err != nil {
				return Result{}, err
			}
			name := strings.TrimSpace(args.Name)
			return Result{
				Summary: fmt.Sprintf("# Artifact Saved\n\n**Name:** `%s`\n**Size:** %d bytes\n**Phase:** %s\n",
					name, len(args.Content), p.CurrentPhase),
				Data: ArtifactData{Name: name, Size: len(args.Content)},
			}, nil
		})
	case ArtifactGet:
		return o.view(ctx, CmdArtifact, key, func(p *engineering.Project) (Result, error) {
			name := strings.TrimSpace(args.Name)
			if name == "" {
				return Result{}, engineering.InvalidArgument("artifact 'name' is required")
			}
			content, ok := p.Artifacts.Get(name)
			if !ok {
				return Result{}, &engineering.Error{
					Kind:    engineering.ErrNotFound,
					Message: fmt.Sprintf("artifact %q not found", name),
					Remedy:  "use `engineering_artifact` with action=list to see saved artifacts",
				}
			}
			return Result{
				Summary: fmt.Sprintf("# Artifact: %s\n\n%s\n", name, content),
				Data:    ArtifactData{Name: name, Size: len(content), Content: content},
			}, nil
		})
	case ArtifactList:
		return o.view(ctx, CmdArtifact, key, func(p *engineering.Project) (Result, error) {
			names := p.Artifacts.List()
			return Result{Summary: formatArtifactList(names), Data: ArtifactListData{Names: names}}, nil
		})
	default:
		return o.run(ctx, CmdArtifact, key, func() (Result, error) {
			return Result{}, engineering.InvalidArgument("invalid action %q: must be one of: save, get, list", args.Action)
		})
	}
}

// Decision records a decision made in the current phase.
func (o *Orchestrator) Decision(ctx context.Context, key string, args DecisionArgs) (Result, error) {
	return o.mutate(ctx, CmdDecision, key, func(p *engineering.Project) (Result, error) {
		d, err := p.RecordDecision(engineering.DecisionInput{
			Agent:        engineering.AgentRole(strings.ToLower(strings.TrimSpace(string(args.Agent)))),
			Decision:     args.Decision,
			Reasoning:    args.Reasoning,
			Alternatives: args.Alternatives,
			Confidence:   args.Confidence,
			Impact:       args.Impact,
			Reversible:   args.Reversible,
		})
		if err != nil {
			return Result{}, err
		}
		return Result{
			Summary: formatDecision(d, p.Decisions.Len()),
			Data:    d,
		}, nil
	})
}

// GraphAdd tracks a file and links it to known dependencies.
func (o *Orchestrator) GraphAdd(ctx context.Context, key string, args GraphAddArgs) (Result, error) {
	return o.mutate(ctx, CmdGraphAdd, key, func(p *engineering.Project) (Result, error) {
		out, err := p.AddToGraph(engineering.GraphAddInput{
			NodeType:        args.NodeType,
			Name:            args.Name,
			FilePath:        args.FilePath,
			DependsOn:       args.DependsOn,
			DependencyTypes: args.DependencyTypes,
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Summary: formatGraphAdd(p, out), Data: out}, nil
	})
}

// Impact reports every tracked file that depends on a file.
func (o *Orchestrator) Impact(ctx context.Context, key string, args ImpactArgs) (Result, error) {
	return o.view(ctx, CmdImpact, key, func(p *engineering.Project) (Result, error) {
		if strings.TrimSpace(args.FilePath) == "" {
			return Result{}, engineering.InvalidArgument("'file_path' is required")
		}
		report, err := p.Impact(args.FilePath)
		if err != nil {
			return Result{}, err
		}
		return Result{Summary: formatImpact(report), Data: report}, nil
	})
}

// GraphView shows the whole graph or the neighbourhood of one file.
func (o *Orchestrator) GraphView(ctx context.Context, key string, args GraphViewArgs) (Result, error) {
	return o.view(ctx, CmdGraphView, key, func(p *engineering.Project) (Result, error) {
		if strings.TrimSpace(args.FocusFile) == "" {
			v := GraphOverview{Nodes: len(p.Graph.Nodes), Edges: len(p.Graph.Edges), ByType: countByType(p.Graph)}
			return Result{Summary: formatGraphOverview(p.Graph, v), Data: v}, nil
		}
		node, ok := p.Graph.NodeByPath(args.FocusFile)
		if !ok {
			return Result{}, &engineering.Error{
				Kind:    engineering.ErrNotFound,
				Message: fmt.Sprintf("file %q is not tracked in the dependency graph", engineering.NormalizePath(args.FocusFile)),
				Remedy:  "use `engineering_graph_add` to track it first",
			}
		}
		v := GraphFocus{
			Node:         node,
			Dependencies: p.Graph.Dependencies(node.ID),
			Dependents:   p.Graph.Dependents(node.ID),
		}
		return Result{Summary: formatGraphFocus(v), Data: v}, nil
	})
}
