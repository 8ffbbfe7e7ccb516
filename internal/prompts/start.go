// Package prompts implements MCP prompt handlers for engineering sessions.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/engineering"
)

// StartPrompt handles the engineering-start MCP prompt.
// It guides the AI through creating a project and the scoping wizard.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("engineering-start",
		mcp.WithPromptDescription(
			"Start an engineering session: create the project, walk through the "+
				"scoping questions and hand over to requirements.",
		),
		mcp.WithArgument("project_name",
			mcp.ArgumentDescription("Name of your project"),
		),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("What you are building, in a sentence or two"),
		),
	)
}

// Handle processes the engineering-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	projectName := "my-project"
	description := ""
	if args := req.Params.Arguments; args != nil {
		if name, ok := args["project_name"]; ok && name != "" {
			projectName = name
		}
		description = args["description"]
	}

	descHint := "ask me for a one-sentence description"
	if description != "" {
		descHint = fmt.Sprintf("description='%s'", description)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Start engineering project: %s", projectName),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to start an engineering session for '%s'.\n\n"+
						"Please:\n"+
						"1. Run `engineering_start` with project_name='%s' and %s\n"+
						"2. Ask me the scoping questions one at a time, in this order: %s\n"+
						"3. Record each answer with `engineering_scope` before asking the next one\n"+
						"4. When scoping completes, show me the scope and suggested stack, then "+
						"start the requirements phase as the pm agent\n"+
						"5. Record every significant choice with `engineering_decision`",
					projectName, projectName, descHint,
					strings.Join(engineering.ScopeStepIDs(), ", "),
				)),
			},
		},
	}, nil
}
