package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/orchestrator"
)

// GraphAddTool handles the engineering_graph_add MCP tool.
type GraphAddTool struct{ base }

// NewGraphAddTool creates a GraphAddTool.
func NewGraphAddTool(orch *orchestrator.Orchestrator, keyFn KeyFunc) *GraphAddTool {
	return &GraphAddTool{base{orch: orch, keyFn: keyFn}}
}

// Definition returns the MCP tool definition for registration.
func (t *GraphAddTool) Definition() mcp.Tool {
	nodeTypes := make([]string, len(engineering.NodeTypes))
	for i, nt := range engineering.NodeTypes {
		nodeTypes[i] = string(nt)
	}
	return mcp.NewTool("engineering_graph_add",
		mcp.WithDescription(
			"Track a file in the dependency graph and link it to the files it depends on. "+
				"Re-adding a path updates the existing node. Dependencies that are not "+
				"tracked yet are skipped, so add leaf files first.",
		),
		mcp.WithString("node_type",
			mcp.Required(),
			mcp.Enum(nodeTypes...),
		),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Project-relative path, e.g. src/db/schema.ts."),
		),
		mcp.WithString("name",
			mcp.Description("Display name. Defaults to the file name."),
		),
		mcp.WithArray("depends_on",
			mcp.Description("Paths of tracked files this file depends on."),
			mcp.WithStringItems(),
		),
		mcp.WithArray("dependency_types",
			mcp.Description("Edge type per depends_on entry, by position: import, api-call, db-query, event, config. Default import."),
			mcp.WithStringItems(),
		),
	)
}

// Handle processes the engineering_graph_add tool call.
func (t *GraphAddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var edgeTypes []engineering.EdgeType
	for _, s := range stringSliceArg(req, "dependency_types") {
		edgeTypes = append(edgeTypes, engineering.EdgeType(s))
	}
	args := orchestrator.GraphAddArgs{
		NodeType:        engineering.NodeType(stringArg(req, "node_type")),
		Name:            stringArg(req, "name"),
		FilePath:        stringArg(req, "file_path"),
		DependsOn:       stringSliceArg(req, "depends_on"),
		DependencyTypes: edgeTypes,
	}
	return t.run(ctx, func(key string) (orchestrator.Result, error) {
		return t.orch.GraphAdd(ctx, key, args)
	})
}
