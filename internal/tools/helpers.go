// Package tools implements the engineering_* MCP tool handlers.
//
// Each tool is a struct holding its dependencies, a Definition() returning
// the mcp.Tool schema and a Handle() that parses arguments, runs one
// orchestrator command and renders the markdown summary.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on the orchestrator facade and a KeyFunc, not on storage
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/orchestrator"
)

// KeyFunc resolves the project key a tool call acts on.
type KeyFunc func(ctx context.Context) (string, error)

// StaticKey always returns key.
func StaticKey(key string) KeyFunc {
	return func(context.Context) (string, error) { return key, nil }
}

// ProjectRootKey uses the project root of the working directory as key.
func ProjectRootKey() KeyFunc {
	return func(context.Context) (string, error) { return FindProjectRoot() }
}

// rootMarkers identify a project root, checked in order in each directory.
var rootMarkers = []string{".codebakers", ".git", "go.mod", "package.json"}

// FindProjectRoot walks up from the current working directory looking for
// a project marker. If none is found, returns cwd.
// This allows tools to work from any subdirectory of the project.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return findRootFrom(dir), nil
}

func findRootFrom(dir string) string {
	current := dir
	for {
		for _, m := range rootMarkers {
			if _, err := os.Stat(filepath.Join(current, m)); err == nil {
				return current
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			// Reached filesystem root. Return original dir.
			return dir
		}
		current = parent
	}
}

// base carries what every engineering tool needs.
type base struct {
	orch  *orchestrator.Orchestrator
	keyFn KeyFunc
}

// run resolves the key and renders the command's outcome.
func (b base) run(ctx context.Context, fn func(key string) (orchestrator.Result, error)) (*mcp.CallToolResult, error) {
	key, err := b.keyFn(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving project: %w", err)
	}
	return respond(fn(key))
}

// respond maps a command outcome to a tool result. User errors become
// tool errors carrying the remedy; infrastructure failures are returned
// as Go errors.
func respond(res orchestrator.Result, err error) (*mcp.CallToolResult, error) {
	if err == nil {
		return mcp.NewToolResultText(res.Summary), nil
	}
	if engineering.IsUserError(err) || errors.Is(err, orchestrator.ErrUnknownCommand) {
		msg := err.Error()
		if remedy := engineering.RemedyOf(err); remedy != "" {
			msg += "\n\nNext: " + remedy
		}
		return mcp.NewToolResultError(msg), nil
	}
	return nil, err
}

// stringArg returns a trimmed string argument.
func stringArg(req mcp.CallToolRequest, key string) string {
	return strings.TrimSpace(req.GetString(key, ""))
}

// intArg extracts an optional integer argument (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string) *int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return nil
	}
	n := int(v)
	return &n
}

// boolArg extracts an optional boolean argument.
func boolArg(req mcp.CallToolRequest, key string) *bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

// stringSliceArg accepts an array, a JSON array string or a comma
// separated string.
func stringSliceArg(req mcp.CallToolRequest, key string) []string {
	var out []string
	switch v := req.GetArguments()[key].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case []string:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		out = engineering.ParseListAnswer(v)
		if len(out) == 0 {
			return nil
		}
	}
	return out
}

// rawAnswer renders a scoping answer argument as the text the wizard
// parses. Arrays are passed on as JSON.
func rawAnswer(req mcp.CallToolRequest, key string) string {
	switch v := req.GetArguments()[key].(type) {
	case string:
		return v
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case nil:
		return ""
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
