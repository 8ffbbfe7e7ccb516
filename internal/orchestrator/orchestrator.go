// Package orchestrator is the command facade over the engineering core.
//
// Every command loads the project for a key, applies one logical change
// in memory and saves the whole record back. Commands on the same key are
// serialized inside one Orchestrator; stores reject stale saves across
// processes with engineering.ErrConflict.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/requestid"
)

// Recorder receives per-command metrics. *metrics.Metrics implements it.
type Recorder interface {
	RecordCommand(command, status string)
	ObserveDuration(command string, seconds float64)
	RecordConflict()
	IncProjects()
}

// Result is what every command returns: a markdown summary for display
// and the structured payload behind it.
type Result struct {
	Command string `json:"command"`
	Summary string `json:"summary"`
	Data    any    `json:"data,omitempty"`

	// unchanged tells mutate the command left the project as loaded.
	unchanged bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics attaches a metrics recorder.
func WithMetrics(r Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

// Orchestrator executes engineering commands against a Store.
type Orchestrator struct {
	store   engineering.Store
	logger  zerolog.Logger
	metrics Recorder

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an Orchestrator backed by store.
func New(store engineering.Store, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:  store,
		logger: logger.With().Str("component", "orchestrator").Logger(),
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Store returns the backing store.
func (o *Orchestrator) Store() engineering.Store {
	return o.store
}

// lock serializes commands for one project key.
func (o *Orchestrator) lock(key string) func() {
	o.mu.Lock()
	l, ok := o.locks[key]
	if !ok {
		l = &sync.Mutex{}
		o.locks[key] = l
	}
	o.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// mutate runs fn on the loaded project and saves it when fn succeeds
// and reports a change. A failed fn or save leaves the stored record
// untouched.
func (o *Orchestrator) mutate(ctx context.Context, command, key string, fn func(*engineering.Project) (Result, error)) (Result, error) {
	return o.run(ctx, command, key, func() (Result, error) {
		p, err := o.store.Load(ctx, key)
		if err != nil {
			return Result{}, err
		}
		res, err := fn(p)
		if err != nil {
			return Result{}, err
		}
		if res.unchanged {
			return res, nil
		}
		if err := o.store.Save(ctx, key, p); err != nil {
			return Result{}, err
		}
		return res, nil
	})
}

// view runs fn on the loaded project without saving.
func (o *Orchestrator) view(ctx context.Context, command, key string, fn func(*engineering.Project) (Result, error)) (Result, error) {
	return o.run(ctx, command, key, func() (Result, error) {
		p, err := o.store.Load(ctx, key)
		if err != nil {
			return Result{}, err
		}
		return fn(p)
	})
}

// run wraps a command with the key lock, logging and metrics.
func (o *Orchestrator) run(ctx context.Context, command, key string, fn func() (Result, error)) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	unlock := o.lock(key)
	defer unlock()

	start := time.Now()
	res, err := fn()
	elapsed := time.Since(start)
	status := StatusOf(err)

	if o.metrics != nil {
		o.metrics.RecordCommand(command, status)
		o.metrics.ObserveDuration(command, elapsed.Seconds())
		if errors.Is(err, engineering.ErrConflict) {
			o.metrics.RecordConflict()
		}
	}

	logger := o.logger.With().Str("command", command).Str("project", key).Logger()
	if id := requestid.FromContext(ctx); id != "" {
		logger = logger.With().Str("request_id", id).Logger()
	}
	switch {
	case err == nil:
		logger.Debug().Dur("elapsed", elapsed).Msg("command completed")
	case engineering.IsUserError(err):
		logger.Info().Str("status", status).Err(err).Msg("command rejected")
	default:
		logger.Error().Err(err).Msg("command failed")
	}

	if err != nil {
		return Result{}, err
	}
	res.Command = command
	return res, nil
}

// StatusOf classifies a command error for metrics and transport mapping.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, engineering.ErrNoProject):
		return "no_project"
	case errors.Is(err, engineering.ErrUnknownStep):
		return "unknown_step"
	case errors.Is(err, engineering.ErrInvalidRole):
		return "invalid_role"
	case errors.Is(err, engineering.ErrPrecondition):
		return "precondition"
	case errors.Is(err, engineering.ErrNotFound):
		return "not_found"
	case errors.Is(err, engineering.ErrConflict):
		return "conflict"
	case errors.Is(err, engineering.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrUnknownCommand):
		return "unknown_command"
	default:
		return "error"
	}
}
