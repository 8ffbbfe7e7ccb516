package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/orchestrator"
)

// GateTool handles the engineering_gate MCP tool.
type GateTool struct{ base }

// NewGateTool creates a GateTool.
func NewGateTool(orch *orchestrator.Orchestrator, keyFn KeyFunc) *GateTool {
	return &GateTool{base{orch: orch, keyFn: keyFn}}
}

// Definition returns the MCP tool definition for registration.
func (t *GateTool) Definition() mcp.Tool {
	phases := make([]string, len(engineering.PhaseOrder))
	for i, ph := range engineering.PhaseOrder {
		phases[i] = string(ph)
	}
	return mcp.NewTool("engineering_gate",
		mcp.WithDescription(
			"Pass or fail the current phase's gate, or skip a later phase. "+
				"Failing keeps the project in the current phase and requires a reason. "+
				"Skipping needs `phase` and cannot target launch.",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Enum(orchestrator.GatePass, orchestrator.GateFail, orchestrator.GateSkip),
		),
		mcp.WithString("phase",
			mcp.Description("Phase to skip. Pass and fail act on the current phase."),
			mcp.Enum(phases...),
		),
		mcp.WithArray("artifacts",
			mcp.Description("Artifact names that satisfy the gate."),
			mcp.WithStringItems(),
		),
		mcp.WithString("reason",
			mcp.Description("Why the gate failed or the phase is skipped."),
		),
		mcp.WithString("approved_by",
			mcp.Description("Approving agent role. Defaults to the current agent."),
		),
	)
}

// Handle processes the engineering_gate tool call.
func (t *GateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action := stringArg(req, "action")
	if action == "" {
		return mcp.NewToolResultError("'action' is required (pass, fail or skip)"), nil
	}
	args := orchestrator.GateArgs{
		Action:     action,
		Phase:      engineering.Phase(stringArg(req, "phase")),
		Artifacts:  stringSliceArg(req, "artifacts"),
		Reason:     stringArg(req, "reason"),
		ApprovedBy: engineering.AgentRole(stringArg(req, "approved_by")),
	}
	return t.run(ctx, func(key string) (orchestrator.Result, error) {
		return t.orch.Gate(ctx, key, args)
	})
}
