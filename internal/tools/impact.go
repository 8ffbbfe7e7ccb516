package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/orchestrator"
)

// ImpactTool handles the engineering_impact MCP tool.
type ImpactTool struct{ base }

// NewImpactTool creates an ImpactTool.
func NewImpactTool(orch *orchestrator.Orchestrator, keyFn KeyFunc) *ImpactTool {
	return &ImpactTool{base{orch: orch, keyFn: keyFn}}
}

// Definition returns the MCP tool definition for registration.
func (t *ImpactTool) Definition() mcp.Tool {
	return mcp.NewTool("engineering_impact",
		mcp.WithDescription(
			"Before changing a file, list every tracked file that depends on it directly or "+
				"transitively, with a risk level from none to critical.",
		),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Tracked file to analyse."),
		),
	)
}

// Handle processes the engineering_impact tool call.
func (t *ImpactTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := stringArg(req, "file_path")
	if path == "" {
		return mcp.NewToolResultError("'file_path' is required"), nil
	}
	return t.run(ctx, func(key string) (orchestrator.Result, error) {
		return t.orch.Impact(ctx, key, orchestrator.ImpactArgs{FilePath: path})
	})
}
