// Package server wires all components and creates the MCP server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on abstractions.
// No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/codebakers/codebakers/internal/config"
	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/metrics"
	"github.com/codebakers/codebakers/internal/orchestrator"
	"github.com/codebakers/codebakers/internal/prompts"
	"github.com/codebakers/codebakers/internal/resources"
	"github.com/codebakers/codebakers/internal/storage"
	"github.com/codebakers/codebakers/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Deps holds the shared dependencies every boundary (MCP, HTTP, CLI) uses.
type Deps struct {
	Store        engineering.Store
	Orchestrator *orchestrator.Orchestrator
	Metrics      *metrics.Metrics
	KeyFn        tools.KeyFunc
	Logger       zerolog.Logger
}

// Build resolves every dependency from cfg. The returned cleanup closes
// the store; it is always non-nil and safe to call.
func Build(cfg *config.Config, logger zerolog.Logger) (*Deps, func(), error) {
	store, cleanup, err := OpenStore(cfg)
	if err != nil {
		return nil, noop, err
	}

	m := metrics.New()
	if lister, ok := store.(engineering.Lister); ok {
		if list, err := lister.List(context.Background()); err == nil {
			m.SetProjects(float64(len(list)))
		}
	}

	keyFn := tools.ProjectRootKey()
	if cfg.ProjectKey != "" {
		keyFn = tools.StaticKey(cfg.ProjectKey)
	}

	ev := logger.Info().
		Str("store", cfg.Store).
		Str("data_dir", cfg.DataDir).
		Str("project_key", cfg.ProjectKey)
	if s, ok := store.(*storage.SQLiteStore); ok {
		ev = ev.Str("db_path", s.Path())
	}
	ev.Msg("dependencies ready")

	return &Deps{
		Store:        store,
		Orchestrator: orchestrator.New(store, logger, orchestrator.WithMetrics(m)),
		Metrics:      m,
		KeyFn:        keyFn,
		Logger:       logger,
	}, cleanup, nil
}

// OpenStore creates the store backend named by cfg.Store.
func OpenStore(cfg *config.Config) (engineering.Store, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := storage.New(storage.Config{DataDir: cfg.DataDir})
		if err != nil {
			return nil, noop, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	case config.StoreFile:
		return engineering.NewFileStore(cfg.DataDir), noop, nil
	case config.StoreMemory:
		return engineering.NewMemoryStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered.
func New(d *Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"codebakers",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register engineering tools ---

	tools.Register(s, d.Orchestrator, d.KeyFn)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(d.Store, d.KeyFn)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)

	return s
}

// noop is the cleanup used when there is nothing to release.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to drive an engineering session.
func serverInstructions() string {
	return `You have access to CodeBakers, an engineering session orchestrator.

## WHEN TO ACTIVATE

Use the engineering_* tools when the user asks to build a new product, app or
major feature end to end. Skip them for bug fixes, refactors and questions.

## How the session works

Every project moves through eleven phases, in order:
scoping → requirements → architecture → design_review → implementation →
code_review → testing → security_review → documentation → staging → launch

Each phase has a gate. You can only advance when the current gate has PASSED.

1. engineering_start creates the project and returns the first scoping question.
2. Ask the user each scoping question and record the answer with
   engineering_scope. The last answer passes the scoping gate and moves the
   project to requirements.
3. In each phase, act as that phase's agent, produce the work, save documents
   with engineering_artifact and record choices with engineering_decision.
4. When the phase is done, call engineering_gate action=pass, then
   engineering_advance. If the work is not good enough, call
   engineering_gate action=fail with a reason and fix it.
5. Phases that do not apply can be skipped ahead of time with
   engineering_gate action=skip phase=<phase>. Launch cannot be skipped.

## Dependency graph

Track every file you create with engineering_graph_add (add dependencies
first). Before changing a file, run engineering_impact and tell the user what
else may break. engineering_graph_view shows the graph.

## Rules
- NEVER advance past a gate that has not passed.
- Tools STORE what you generate. Never save placeholder text.
- engineering_status shows where the session stands at any time.`
}
