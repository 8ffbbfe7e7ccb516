package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/orchestrator"
)

// ScopeTool handles the engineering_scope MCP tool.
// It records one answer of the scoping wizard.
type ScopeTool struct{ base }

// NewScopeTool creates a ScopeTool.
func NewScopeTool(orch *orchestrator.Orchestrator, keyFn KeyFunc) *ScopeTool {
	return &ScopeTool{base{orch: orch, keyFn: keyFn}}
}

// Definition returns the MCP tool definition for registration.
func (t *ScopeTool) Definition() mcp.Tool {
	return mcp.NewTool("engineering_scope",
		mcp.WithDescription(
			"Answer one scoping question. Steps: "+strings.Join(engineering.ScopeStepIDs(), ", ")+". "+
				"Answering the last step completes scoping, passes the scoping gate and moves "+
				"the project to requirements. Boolean steps take yes/no; platforms and "+
				"compliance take a list.",
		),
		mcp.WithString("step_id",
			mcp.Required(),
			mcp.Description("Scoping step being answered."),
			mcp.Enum(engineering.ScopeStepIDs()...),
		),
		mcp.WithString("answer",
			mcp.Required(),
			mcp.Description("The answer. Lists may be a JSON array or comma separated."),
		),
	)
}

// Handle processes the engineering_scope tool call.
func (t *ScopeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stepID := stringArg(req, "step_id")
	if stepID == "" {
		return mcp.NewToolResultError("'step_id' is required"), nil
	}
	args := orchestrator.ScopeArgs{StepID: stepID, Answer: rawAnswer(req, "answer")}
	return t.run(ctx, func(key string) (orchestrator.Result, error) {
		return t.orch.Scope(ctx, key, args)
	})
}
