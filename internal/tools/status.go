package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/orchestrator"
)

// StatusTool handles the engineering_status MCP tool.
type StatusTool struct{ base }

// NewStatusTool creates a StatusTool.
func NewStatusTool(orch *orchestrator.Orchestrator, keyFn KeyFunc) *StatusTool {
	return &StatusTool{base{orch: orch, keyFn: keyFn}}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("engineering_status",
		mcp.WithDescription(
			"Show the engineering project: current phase and agent, progress, every gate, "+
				"the scope and suggested stack, artifacts, recent decisions and graph size.",
		),
	)
}

// Handle processes the engineering_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, func(key string) (orchestrator.Result, error) {
		return t.orch.Status(ctx, key)
	})
}
