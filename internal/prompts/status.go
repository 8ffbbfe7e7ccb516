package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the engineering-status MCP prompt.
// It instructs the AI to read and present the current engineering state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("engineering-status",
		mcp.WithPromptDescription(
			"Check the current engineering session: phase, gates, progress "+
				"and what to do next.",
		),
	)
}

// Handle processes the engineering-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Engineering Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `engineering_status` to check my engineering project.\n\n" +
						"Then:\n" +
						"1. Show the current phase, its agent and overall progress\n" +
						"2. Highlight failed gates and their reasons\n" +
						"3. Tell me exactly what has to happen to pass the current gate\n" +
						"4. Summarize the most recent decisions",
				),
			},
		},
	}, nil
}
