package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/orchestrator"
)

// StartTool handles the engineering_start MCP tool.
// It creates the engineering project and returns the first scoping step.
type StartTool struct{ base }

// NewStartTool creates a StartTool.
func NewStartTool(orch *orchestrator.Orchestrator, keyFn KeyFunc) *StartTool {
	return &StartTool{base{orch: orch, keyFn: keyFn}}
}

// Definition returns the MCP tool definition for registration.
func (t *StartTool) Definition() mcp.Tool {
	return mcp.NewTool("engineering_start",
		mcp.WithDescription(
			"Start an engineering session for this project. Creates the project at the "+
				"scoping phase with every gate pending and returns the first scoping question. "+
				"Fails if a project already exists unless `force` is true.",
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Human-readable project name."),
		),
		mcp.WithString("description",
			mcp.Description("One or two sentences describing what is being built."),
		),
		mcp.WithBoolean("force",
			mcp.Description("Replace an existing project. Its history is lost."),
		),
	)
}

// Handle processes the engineering_start tool call.
func (t *StartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringArg(req, "project_name")
	if name == "" {
		return mcp.NewToolResultError("'project_name' is required"), nil
	}
	args := orchestrator.StartArgs{
		Name:        name,
		Description: stringArg(req, "description"),
		Force:       req.GetBool("force", false),
	}
	return t.run(ctx, func(key string) (orchestrator.Result, error) {
		return t.orch.Start(ctx, key, args)
	})
}
