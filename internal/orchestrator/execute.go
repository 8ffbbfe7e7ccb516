package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/codebakers/codebakers/internal/engineering"
)

// ErrUnknownCommand is returned by Execute for names outside Commands.
var ErrUnknownCommand = errors.New("unknown command")

// Execute decodes a JSON argument object and runs the named command.
// Empty args are treated as {}.
func (o *Orchestrator) Execute(ctx context.Context, key, command string, args json.RawMessage) (Result, error) {
	command = strings.ToLower(strings.TrimSpace(command))
	switch command {
	case CmdStart:
		var a StartArgs
		if err := decodeArgs(args, &a); err != nil {
			return Result{}, err
		}
		return o.Start(ctx, key, a)
	case CmdScope:
		var w struct {
			StepID string          `json:"step_id"`
			Answer json.RawMessage `json:"answer"`
		}
		if err := decodeArgs(args, &w); err != nil {
			return Result{}, err
		}
		return o.Scope(ctx, key, ScopeArgs{StepID: w.StepID, Answer: answerText(w.Answer)})
	case CmdStatus:
		return o.Status(ctx, key)
	case CmdAdvance:
		var a AdvanceArgs
		if err := decodeArgs(args, &a); err != nil {
			return Result{}, err
		}
		return o.Advance(ctx, key, a)
	case CmdGate:
		var a GateArgs
		if err := decodeArgs(args, &a); err != nil {
			return Result{}, err
		}
		return o.Gate(ctx, key, a)
	case CmdArtifact:
		var a ArtifactArgs
		if err := decodeArgs(args, &a); err != nil {
			return Result{}, err
		}
		return o.Artifact(ctx, key, a)
	case CmdDecision:
		var a DecisionArgs
		if err := decodeArgs(args, &a); err != nil {
			return Result{}, err
		}
		return o.Decision(ctx, key, a)
	case CmdGraphAdd:
		var a GraphAddArgs
		if err := decodeArgs(args, &a); err != nil {
			return Result{}, err
		}
		return o.GraphAdd(ctx, key, a)
	case CmdImpact:
		var a ImpactArgs
		if err := decodeArgs(args, &a); err != nil {
			return Result{}, err
		}
		return o.Impact(ctx, key, a)
	case CmdGraphView:
		var a GraphViewArgs
		if err := decodeArgs(args, &a); err != nil {
			return Result{}, err
		}
		return o.GraphView(ctx, key, a)
	default:
		return Result{}, fmt.Errorf("%w %q: must be one of: %s", ErrUnknownCommand, command, strings.Join(Commands, ", "))
	}
}

func decodeArgs(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return engineering.InvalidArgument("invalid arguments: %v", err)
	}
	return nil
}

// answerText turns a JSON answer into the raw text the scoping wizard
// parses: strings are unquoted, arrays and scalars keep their JSON form.
func answerText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
