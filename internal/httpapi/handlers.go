package httpapi

import (
	"context"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/orchestrator"
	"github.com/codebakers/codebakers/internal/storage"
)

// historian is implemented by stores that keep a save trail.
type historian interface {
	History(ctx context.Context, key string) ([]storage.HistoryEntry, error)
}

// Handlers contains all HTTP route handlers.
type Handlers struct {
	orch   *orchestrator.Orchestrator
	store  engineering.Store
	logger zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(orch *orchestrator.Orchestrator, store engineering.Store, logger zerolog.Logger) *Handlers {
	return &Handlers{
		orch:   orch,
		store:  store,
		logger: logger.With().Str("component", "http_handlers").Logger(),
	}
}

// Liveness handles GET /healthz.
func (h *Handlers) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ListCommands handles GET /api/v1/commands.
func (h *Handlers) ListCommands(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"commands": orchestrator.Commands})
}

// ListProjects handles GET /api/v1/projects.
func (h *Handlers) ListProjects(c *fiber.Ctx) error {
	lister, ok := h.store.(engineering.Lister)
	if !ok {
		return problemResponse(c, fiber.StatusNotImplemented,
			"not_supported", "Not Supported", "the configured store cannot list projects")
	}
	list, err := lister.List(c.UserContext())
	if err != nil {
		return err
	}
	if list == nil {
		list = []engineering.ProjectSummary{}
	}
	return c.JSON(fiber.Map{"projects": list, "total": len(list)})
}

// Status handles GET /api/v1/projects/:key/status.
func (h *Handlers) Status(c *fiber.Ctx) error {
	key, err := projectKey(c)
	if err != nil {
		return err
	}
	res, err := h.orch.Status(c.UserContext(), key)
	if err != nil {
		return commandProblem(c, err)
	}
	return c.JSON(res)
}

// History handles GET /api/v1/projects/:key/history.
func (h *Handlers) History(c *fiber.Ctx) error {
	hs, ok := h.store.(historian)
	if !ok {
		return problemResponse(c, fiber.StatusNotImplemented,
			"not_supported", "Not Supported", "the configured store keeps no history")
	}
	key, err := projectKey(c)
	if err != nil {
		return err
	}
	entries, err := hs.History(c.UserContext(), key)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return commandProblem(c, engineering.NoProject(key))
	}
	return c.JSON(fiber.Map{"key": key, "history": entries})
}

// Execute handles POST /api/v1/projects/:key/commands/:command.
// The request body is the command's JSON argument object.
func (h *Handlers) Execute(c *fiber.Ctx) error {
	key, err := projectKey(c)
	if err != nil {
		return err
	}
	command := c.Params("command")

	res, err := h.orch.Execute(c.UserContext(), key, command, c.Body())
	if err != nil {
		h.logger.Debug().Err(err).Str("key", key).Str("command", command).Msg("command rejected")
		return commandProblem(c, err)
	}

	status := fiber.StatusOK
	if res.Command == orchestrator.CmdStart {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(res)
}

// projectKey returns the unescaped :key parameter so keys that are
// filesystem paths can travel as one URL-encoded segment.
func projectKey(c *fiber.Ctx) (string, error) {
	key, err := url.PathUnescape(c.Params("key"))
	if err != nil || strings.TrimSpace(key) == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid project key")
	}
	return key, nil
}
