package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/orchestrator"
)

// ArtifactTool handles the engineering_artifact MCP tool.
// It saves, reads and lists the project's named documents.
type ArtifactTool struct{ base }

// NewArtifactTool creates an ArtifactTool.
func NewArtifactTool(orch *orchestrator.Orchestrator, keyFn KeyFunc) *ArtifactTool {
	return &ArtifactTool{base{orch: orch, keyFn: keyFn}}
}

// Definition returns the MCP tool definition for registration.
func (t *ArtifactTool) Definition() mcp.Tool {
	return mcp.NewTool("engineering_artifact",
		mcp.WithDescription(
			"Save, get or list artifacts (named text documents such as prd.md or "+
				"architecture.md). Saving an existing name overwrites it.",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Enum(orchestrator.ArtifactSave, orchestrator.ArtifactGet, orchestrator.ArtifactList),
		),
		mcp.WithString("name",
			mcp.Description("Artifact name. Required for save and get."),
		),
		mcp.WithString("content",
			mcp.Description("Artifact content for save."),
		),
	)
}

// Handle processes the engineering_artifact tool call.
func (t *ArtifactTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action := stringArg(req, "action")
	if action == "" {
		return mcp.NewToolResultError("'action' is required (save, get or list)"), nil
	}
	args := orchestrator.ArtifactArgs{
		Action:  action,
		Name:    stringArg(req, "name"),
		Content: req.GetString("content", ""),
	}
	return t.run(ctx, func(key string) (orchestrator.Result, error) {
		return t.orch.Artifact(ctx, key, args)
	})
}
