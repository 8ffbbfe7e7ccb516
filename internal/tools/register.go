package tools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/codebakers/codebakers/internal/orchestrator"
)

// Register adds every engineering tool to s.
func Register(s *server.MCPServer, orch *orchestrator.Orchestrator, keyFn KeyFunc) {
	startTool := NewStartTool(orch, keyFn)
	s.AddTool(startTool.Definition(), startTool.Handle)

	scopeTool := NewScopeTool(orch, keyFn)
	s.AddTool(scopeTool.Definition(), scopeTool.Handle)

	statusTool := NewStatusTool(orch, keyFn)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	advanceTool := NewAdvanceTool(orch, keyFn)
	s.AddTool(advanceTool.Definition(), advanceTool.Handle)

	gateTool := NewGateTool(orch, keyFn)
	s.AddTool(gateTool.Definition(), gateTool.Handle)

	artifactTool := NewArtifactTool(orch, keyFn)
	s.AddTool(artifactTool.Definition(), artifactTool.Handle)

	decisionTool := NewDecisionTool(orch, keyFn)
	s.AddTool(decisionTool.Definition(), decisionTool.Handle)

	graphAddTool := NewGraphAddTool(orch, keyFn)
	s.AddTool(graphAddTool.Definition(), graphAddTool.Handle)

	impactTool := NewImpactTool(orch, keyFn)
	s.AddTool(impactTool.Definition(), impactTool.Handle)

	graphViewTool := NewGraphViewTool(orch, keyFn)
	s.AddTool(graphViewTool.Definition(), graphViewTool.Handle)
}
