package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/orchestrator"
)

// AdvanceTool handles the engineering_advance MCP tool.
// It moves the project to the next phase once the current gate has passed.
type AdvanceTool struct{ base }

// NewAdvanceTool creates an AdvanceTool.
func NewAdvanceTool(orch *orchestrator.Orchestrator, keyFn KeyFunc) *AdvanceTool {
	return &AdvanceTool{base{orch: orch, keyFn: keyFn}}
}

// Definition returns the MCP tool definition for registration.
func (t *AdvanceTool) Definition() mcp.Tool {
	return mcp.NewTool("engineering_advance",
		mcp.WithDescription(
			"Advance to the next phase. Only works when the current phase's gate has passed "+
				"(use `engineering_gate` first). Skipped phases are stepped over. At launch "+
				"with a passed gate this reports completion.",
		),
		mcp.WithArray("artifacts",
			mcp.Description("Artifact names produced in the phase being left."),
			mcp.WithStringItems(),
		),
	)
}

// Handle processes the engineering_advance tool call.
func (t *AdvanceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := orchestrator.AdvanceArgs{Artifacts: stringSliceArg(req, "artifacts")}
	return t.run(ctx, func(key string) (orchestrator.Result, error) {
		return t.orch.Advance(ctx, key, args)
	})
}
