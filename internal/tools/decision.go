package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/orchestrator"
)

// DecisionTool handles the engineering_decision MCP tool.
// Decisions are append-only; there is no edit or delete.
type DecisionTool struct{ base }

// NewDecisionTool creates a DecisionTool.
func NewDecisionTool(orch *orchestrator.Orchestrator, keyFn KeyFunc) *DecisionTool {
	return &DecisionTool{base{orch: orch, keyFn: keyFn}}
}

// Definition returns the MCP tool definition for registration.
func (t *DecisionTool) Definition() mcp.Tool {
	return mcp.NewTool("engineering_decision",
		mcp.WithDescription(
			"Record a decision in the current phase's log. Use it for every choice a later "+
				"phase might question: technology, data model, trade-offs, scope cuts.",
		),
		mcp.WithString("agent",
			mcp.Required(),
			mcp.Description("Role making the decision."),
			mcp.Enum("orchestrator", "pm", "architect", "engineer", "qa", "security", "documentation", "devops"),
		),
		mcp.WithString("decision",
			mcp.Required(),
			mcp.Description("What was decided, in one sentence."),
		),
		mcp.WithString("reasoning",
			mcp.Required(),
			mcp.Description("Why."),
		),
		mcp.WithArray("alternatives",
			mcp.Description("Options considered and rejected."),
			mcp.WithStringItems(),
		),
		mcp.WithNumber("confidence",
			mcp.Description("0-100. Default 80."),
		),
		mcp.WithString("impact",
			mcp.Description("Default medium."),
			mcp.Enum("low", "medium", "high", "critical"),
		),
		mcp.WithBoolean("reversible",
			mcp.Description("Whether the decision can be undone cheaply. Default true."),
		),
	)
}

// Handle processes the engineering_decision tool call.
func (t *DecisionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := orchestrator.DecisionArgs{
		Agent:        engineering.AgentRole(stringArg(req, "agent")),
		Decision:     stringArg(req, "decision"),
		Reasoning:    stringArg(req, "reasoning"),
		Alternatives: stringSliceArg(req, "alternatives"),
		Confidence:   intArg(req, "confidence"),
		Impact:       engineering.Impact(stringArg(req, "impact")),
		Reversible:   boolArg(req, "reversible"),
	}
	return t.run(ctx, func(key string) (orchestrator.Result, error) {
		return t.orch.Decision(ctx, key, args)
	})
}
