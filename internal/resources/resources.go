// Package resources implements MCP resource handlers for engineering state.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (codebakers://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/orchestrator"
	"github.com/codebakers/codebakers/internal/tools"
)

// StatusURI addresses the engineering status resource.
const StatusURI = "codebakers://engineering/status"

// Handler manages engineering resource endpoints.
type Handler struct {
	store engineering.Store
	keyFn tools.KeyFunc
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store engineering.Store, keyFn tools.KeyFunc) *Handler {
	return &Handler{store: store, keyFn: keyFn}
}

// StatusResource returns the MCP resource definition for project status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		StatusURI,
		"Engineering Status",
		mcp.WithResourceDescription("Current engineering phase, gates, scope, progress and graph size"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the current project status as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	key, err := h.keyFn(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving project: %w", err)
	}

	p, err := h.store.Load(ctx, key)
	if errors.Is(err, engineering.ErrNoProject) {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}

	data, err := json.MarshalIndent(orchestrator.NewStatusView(p), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling status: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
