package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/codebakers/codebakers/internal/engineering"
)

// maxListed caps node lists in graph summaries.
const maxListed = 10

func gateMarker(s engineering.GateStatus) string {
	switch s {
	case engineering.GatePassed:
		return "✅"
	case engineering.GateInProgress:
		return "🔄"
	case engineering.GateFailed:
		return "❌"
	case engineering.GateSkipped:
		return "⏭️"
	default:
		return "⬜"
	}
}

func formatStep(sb *strings.Builder, step engineering.ScopeStep) {
	fmt.Fprintf(sb, "**Step `%s`:** %s\n", step.ID, step.Question)
	if len(step.Options) > 0 {
		sb.WriteString("\nOptions:\n")
		for _, o := range step.Options {
			fmt.Fprintf(sb, "- `%s`: %s\n", o.Value, o.Label)
		}
	}
	if step.Type == engineering.QuestionMulti {
		sb.WriteString("\nSeveral values allowed (JSON array or comma separated).\n")
	}
}

func formatStart(p *engineering.Project, first engineering.ScopeStep) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Engineering Project Started\n\n"+
		"**Project:** %s\n"+
		"**ID:** `%s`\n"+
		"**Phase:** %s (agent: %s)\n"+
		"**Progress:** %d%%\n\n",
		p.Name, p.ID, p.CurrentPhase, p.CurrentAgent, p.Progress())
	if p.Description != "" {
		fmt.Fprintf(&sb, "> %s\n\n", p.Description)
	}
	sb.WriteString("## Scoping\n\n")
	fmt.Fprintf(&sb, "Answer the %d scoping steps with `engineering_scope`.\n\n", len(engineering.ScopeSteps()))
	formatStep(&sb, first)
	return sb.String()
}

func formatScope(p *engineering.Project, out engineering.ScopeOutcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Scoping: `%s` recorded\n\n", out.Step.ID)

	if !out.Completed {
		fmt.Fprintf(&sb, "**Answered:** %d/%d\n\n", len(p.Scope.Answered), len(engineering.ScopeSteps()))
		if out.Next != nil {
			sb.WriteString("## Next\n\n")
			formatStep(&sb, *out.Next)
		}
		return sb.String()
	}

	sb.WriteString("✅ Scoping complete. The scope is now locked.\n\n")
	fmt.Fprintf(&sb, "**Phase:** %s (agent: %s)\n**Progress:** %d%%\n\n", p.CurrentPhase, p.CurrentAgent, p.Progress())
	writeScope(&sb, p.Scope)
	if len(out.Stack) > 0 {
		sb.WriteString("\n## Suggested Stack\n\n")
		writeStack(&sb, out.Stack)
	}
	return sb.String()
}

func writeScope(sb *strings.Builder, s engineering.ProjectScope) {
	sb.WriteString("## Scope\n\n")
	sb.WriteString("| Field | Value |\n|-------|-------|\n")
	row := func(k, v string) { fmt.Fprintf(sb, "| %s | %s |\n", k, v) }
	row("Audience", valueOr(string(s.Audience), "—"))
	row("Full business", yesNo(s.IsFullBusiness))
	row("Marketing site", yesNo(s.NeedsMarketing))
	row("Analytics", yesNo(s.NeedsAnalytics))
	row("Admin dashboard", yesNo(s.NeedsAdminDashboard))
	row("Platforms", valueOr(strings.Join(s.Platforms, ", "), "—"))
	row("Auth", yesNo(s.HasAuth))
	row("Payments", yesNo(s.HasPayments))
	row("Realtime", yesNo(s.HasRealtime))
	row("Compliance", valueOr(strings.Join(s.Compliance.Names(), ", "), "none"))
	row("Expected users", valueOr(s.ExpectedUsers, "—"))
	row("Launch timeline", valueOr(s.LaunchTimeline, "—"))
}

func writeStack(sb *strings.Builder, stack []engineering.StackChoice) {
	for _, c := range stack {
		fmt.Fprintf(sb, "- **%s:** %s\n", c.Concern, c.Choice)
	}
}

func formatStatus(v StatusView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Engineering Status: %s\n\n"+
		"**Phase:** %s (agent: %s)\n"+
		"**Progress:** %d%%\n"+
		"**Last activity:** %s\n\n",
		v.Name, v.CurrentPhase, v.CurrentAgent, v.Progress, v.LastActivity)
	if v.Complete {
		sb.WriteString("🚀 All phases complete.\n\n")
	}

	sb.WriteString("## Phases\n\n")
	sb.WriteString("| Phase | Agent | Gate | Notes |\n")
	sb.WriteString("|-------|-------|------|-------|\n")
	for _, ph := range v.Phases {
		name := string(ph.Phase)
		if ph.Current {
			name = "**" + name + "**"
		}
		notes := "—"
		switch {
		case ph.Gate.Reason != "":
			notes = ph.Gate.Reason
		case len(ph.Gate.Artifacts) > 0:
			notes = strings.Join(ph.Gate.Artifacts, ", ")
		}
		fmt.Fprintf(&sb, "| %s %s | %s | %s | %s |\n", gateMarker(ph.Gate.Status), name, ph.Agent, ph.Gate.Status, notes)
	}

	sb.WriteString("\n")
	if len(v.ScopingPending) > 0 {
		fmt.Fprintf(&sb, "## Scoping\n\nPending steps: %s\n\n", strings.Join(v.ScopingPending, ", "))
	} else {
		writeScope(&sb, v.Scope)
		sb.WriteString("\n")
		if len(v.Stack) > 0 {
			sb.WriteString("## Suggested Stack\n\n")
			writeStack(&sb, v.Stack)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("## Artifacts\n\n")
	if len(v.Artifacts) == 0 {
		sb.WriteString("None yet.\n\n")
	} else {
		for _, a := range v.Artifacts {
			fmt.Fprintf(&sb, "- `%s`\n", a)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "## Decisions (%d)\n\n", v.Decisions)
	for _, d := range v.RecentDecisions {
		fmt.Fprintf(&sb, "- [%s/%s] %s (confidence %d%%, impact %s)\n", d.Phase, d.Agent, d.Decision, d.Confidence, d.Impact)
	}
	if len(v.RecentDecisions) > 0 {
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "## Dependency Graph\n\n%d files, %d edges\n", v.GraphNodes, v.GraphEdges)
	return sb.String()
}

func formatAdvance(p *engineering.Project, out engineering.AdvanceResult) string {
	if out.Completed {
		return fmt.Sprintf("# Engineering Complete\n\n🚀 %s has passed every gate. Nothing left to advance.\n\n**Progress:** %d%%\n",
			p.Name, p.Progress())
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Phase Advanced\n\n"+
		"**From:** %s\n"+
		"**To:** %s (agent: %s)\n"+
		"**Progress:** %d%%\n",
		out.From, out.To, out.Agent, p.Progress())
	if len(out.Skipped) > 0 {
		names := make([]string, len(out.Skipped))
		for i, s := range out.Skipped {
			names[i] = string(s)
		}
		fmt.Fprintf(&sb, "**Skipped:** %s\n", strings.Join(names, ", "))
	}
	return sb.String()
}

func formatGate(p *engineering.Project, action string, ph engineering.Phase, g engineering.Gate) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Gate %s: %s\n\n%s **Status:** %s\n", strings.ToUpper(action[:1])+action[1:], ph, gateMarker(g.Status), g.Status)
	if g.ApprovedBy != "" {
		fmt.Fprintf(&sb, "**Approved by:** %s\n", g.ApprovedBy)
	}
	if g.Reason != "" {
		fmt.Fprintf(&sb, "**Reason:** %s\n", g.Reason)
	}
	if len(g.Artifacts) > 0 {
		fmt.Fprintf(&sb, "**Artifacts:** %s\n", strings.Join(g.Artifacts, ", "))
	}
	fmt.Fprintf(&sb, "**Progress:** %d%%\n", p.Progress())

	switch {
	case action == GatePass && ph == engineering.PhaseLaunch:
		sb.WriteString("\n🚀 Launch gate passed.\n")
	case action == GatePass:
		sb.WriteString("\nNext: `engineering_advance` to move to the next phase.\n")
	case action == GateFail:
		sb.WriteString("\nThe phase stays current. Fix the issues and pass the gate again.\n")
	}
	return sb.String()
}

func formatArtifactList(names []string) string {
	if len(names) == 0 {
		return "# Artifacts\n\nNo artifacts saved yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Artifacts (%d)\n\n", len(names))
	for _, n := range names {
		fmt.Fprintf(&sb, "- `%s`\n", n)
	}
	return sb.String()
}

func formatDecision(d engineering.Decision, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Decision Recorded\n\n"+
		"**ID:** `%s`\n"+
		"**Phase:** %s\n"+
		"**Agent:** %s\n"+
		"**Decision:** %s\n"+
		"**Confidence:** %d%%\n"+
		"**Impact:** %s\n"+
		"**Reversible:** %s\n",
		d.ID, d.Phase, d.Agent, d.Decision, d.Confidence, d.Impact, yesNo(d.Reversible))
	if d.Reasoning != "" {
		fmt.Fprintf(&sb, "\n**Reasoning:** %s\n", d.Reasoning)
	}
	if len(d.Alternatives) > 0 {
		sb.WriteString("\n**Alternatives considered:**\n")
		for _, a := range d.Alternatives {
			fmt.Fprintf(&sb, "- %s\n", a)
		}
	}
	fmt.Fprintf(&sb, "\n%d decisions in the log.\n", total)
	return sb.String()
}

func formatGraphAdd(p *engineering.Project, out engineering.GraphAddResult) string {
	var sb strings.Builder
	verb := "Updated"
	if out.Created {
		verb = "Added"
	}
	fmt.Fprintf(&sb, "# %s `%s`\n\n**Type:** %s\n**Name:** %s\n**Edges added:** %d\n",
		verb, out.Node.FilePath, out.Node.Type, out.Node.Name, len(out.Edges))
	if len(out.Skipped) > 0 {
		fmt.Fprintf(&sb, "\n⚠️ Not tracked yet, no edge created: %s\n", strings.Join(out.Skipped, ", "))
	}
	fmt.Fprintf(&sb, "\nGraph: %d files, %d edges\n", len(p.Graph.Nodes), len(p.Graph.Edges))
	return sb.String()
}

func formatImpact(r engineering.ImpactReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Impact: `%s`\n\n", r.Node.FilePath)
	if r.Total() == 0 {
		sb.WriteString("✅ Nothing depends on this file. Safe to change.\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "**Risk:** %s\n**Affected files:** %d (%d direct, %d transitive)\n\n",
		r.Risk, r.Total(), len(r.Direct), len(r.Transitive))
	writeNodes(&sb, "Direct", r.Direct)
	writeNodes(&sb, "Transitive", r.Transitive)
	return sb.String()
}

func formatGraphOverview(g engineering.DependencyGraph, v GraphOverview) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Dependency Graph\n\n%d files, %d edges\n\n", v.Nodes, v.Edges)
	if v.Nodes == 0 {
		sb.WriteString("Empty. Track files with `engineering_graph_add`.\n")
		return sb.String()
	}
	types := make([]string, 0, len(v.ByType))
	for t := range v.ByType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(&sb, "- %s: %d\n", t, v.ByType[engineering.NodeType(t)])
	}
	sb.WriteString("\n")
	writeNodes(&sb, "Files", g.Nodes)
	return sb.String()
}

func formatGraphFocus(v GraphFocus) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# `%s` (%s)\n\n", v.Node.FilePath, v.Node.Type)
	writeNodes(&sb, "Depends on", v.Dependencies)
	writeNodes(&sb, "Used by", v.Dependents)
	return sb.String()
}

// writeNodes lists at most maxListed nodes under a heading.
func writeNodes(sb *strings.Builder, heading string, nodes []engineering.GraphNode) {
	fmt.Fprintf(sb, "## %s (%d)\n\n", heading, len(nodes))
	if len(nodes) == 0 {
		sb.WriteString("None.\n\n")
		return
	}
	for i, n := range nodes {
		if i == maxListed {
			fmt.Fprintf(sb, "- ... and %d more\n", len(nodes)-maxListed)
			break
		}
		fmt.Fprintf(sb, "- `%s` (%s)\n", n.FilePath, n.Type)
	}
	sb.WriteString("\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
