package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/orchestrator"
)

// GraphViewTool handles the engineering_graph_view MCP tool.
type GraphViewTool struct{ base }

// NewGraphViewTool creates a GraphViewTool.
func NewGraphViewTool(orch *orchestrator.Orchestrator, keyFn KeyFunc) *GraphViewTool {
	return &GraphViewTool{base{orch: orch, keyFn: keyFn}}
}

// Definition returns the MCP tool definition for registration.
func (t *GraphViewTool) Definition() mcp.Tool {
	return mcp.NewTool("engineering_graph_view",
		mcp.WithDescription(
			"Show the dependency graph: counts by node type and tracked files, or, with "+
				"`focus_file`, what that file depends on and what uses it.",
		),
		mcp.WithString("focus_file",
			mcp.Description("Tracked file to center the view on."),
		),
	)
}

// Handle processes the engineering_graph_view tool call.
func (t *GraphViewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := orchestrator.GraphViewArgs{FocusFile: stringArg(req, "focus_file")}
	return t.run(ctx, func(key string) (orchestrator.Result, error) {
		return t.orch.GraphView(ctx, key, args)
	})
}
