package engineering

import (
	"fmt"
	"math"
)

// --- Phase state machine ---
//
// The phase pointer only moves forward, one phase at a time, and only when
// the current phase's gate is exactly passed. Later phases may be marked
// skipped ahead of time; Advance steps over them.

// phaseAgents is the fixed phase → default agent table.
var phaseAgents = map[Phase]AgentRole{
	PhaseScoping:        AgentOrchestrator,
	PhaseRequirements:   AgentPM,
	PhaseArchitecture:   AgentArchitect,
	PhaseDesignReview:   AgentOrchestrator,
	PhaseImplementation: AgentEngineer,
	PhaseCodeReview:     AgentEngineer,
	PhaseTesting:        AgentQA,
	PhaseSecurityReview: AgentSecurity,
	PhaseDocumentation:  AgentDocumentation,
	PhaseStaging:        AgentDevOps,
	PhaseLaunch:         AgentDevOps,
}

// AgentFor returns the default agent of a phase.
func AgentFor(ph Phase) AgentRole {
	return phaseAgents[ph]
}

// PhaseIndex returns the ordinal position of a phase, or -1 if unknown.
func PhaseIndex(ph Phase) int {
	for i, p := range PhaseOrder {
		if p == ph {
			return i
		}
	}
	return -1
}

// ValidatePhase returns ErrInvalidArgument for unknown phases.
func ValidatePhase(ph Phase) error {
	if PhaseIndex(ph) < 0 {
		return InvalidArgument("unknown phase %q", ph)
	}
	return nil
}

// Gate returns the gate of a phase.
func (p *Project) Gate(ph Phase) Gate {
	return p.Gates[ph]
}

// SetPhase moves the phase pointer unconditionally. The entered phase's
// gate becomes in_progress if it was still pending.
func (p *Project) SetPhase(ph Phase, agent AgentRole) {
	p.CurrentPhase = ph
	p.CurrentAgent = agent
	if g := p.Gates[ph]; g.Status == GatePending {
		g.Status = GateInProgress
		p.Gates[ph] = g
	}
	p.touch()
}

// PassGate marks a phase's gate passed. It does not move the phase pointer.
func (p *Project) PassGate(ph Phase, artifacts []string, approvedBy AgentRole) error {
	if err := ValidatePhase(ph); err != nil {
		return err
	}
	p.Gates[ph] = Gate{
		Status:     GatePassed,
		Artifacts:  appendUnique(nil, artifacts...),
		ApprovedBy: approvedBy,
		Timestamp:  now(),
	}
	p.touch()
	return nil
}

// FailGate marks a phase's gate failed with a reason. The phase pointer is unchanged.
func (p *Project) FailGate(ph Phase, reason string) error {
	if err := ValidatePhase(ph); err != nil {
		return err
	}
	g := p.Gates[ph]
	g.Status = GateFailed
	g.Reason = reason
	g.Timestamp = now()
	p.Gates[ph] = g
	p.touch()
	return nil
}

// SkipGate marks a later phase skipped so Advance steps over it.
// The current phase, past phases and launch cannot be skipped.
func (p *Project) SkipGate(ph Phase, reason string) error {
	if err := ValidatePhase(ph); err != nil {
		return err
	}
	if ph == PhaseLaunch {
		return newError(ErrPrecondition, "the launch phase cannot be skipped", "")
	}
	if PhaseIndex(ph) <= PhaseIndex(p.CurrentPhase) {
		return newError(ErrPrecondition,
			fmt.Sprintf("only phases after the current phase (%s) can be skipped", p.CurrentPhase), "")
	}
	p.Gates[ph] = Gate{Status: GateSkipped, Reason: reason, Timestamp: now()}
	p.touch()
	return nil
}

// AdvanceResult describes the outcome of Advance.
type AdvanceResult struct {
	From      Phase     `json:"from"`
	To        Phase     `json:"to"`
	Agent     AgentRole `json:"agent"`
	Skipped   []Phase   `json:"skipped,omitempty"`
	Completed bool      `json:"completed"`
}

// Advance moves to the next non-skipped phase. The current gate must be
// exactly passed. At launch with a passed gate it reports completion and
// changes nothing.
func (p *Project) Advance(artifacts []string) (AdvanceResult, error) {
	cur := p.CurrentPhase
	g := p.Gates[cur]
	if g.Status != GatePassed {
		return AdvanceResult{}, newError(ErrPrecondition,
			fmt.Sprintf("gate not passed: %s gate is %s", cur, g.Status),
			"use `engineering_gate` with action=pass to pass the current phase first")
	}

	next, skipped, ok := p.nextPhase(cur)
	if !ok {
		return AdvanceResult{From: cur, To: cur, Agent: p.CurrentAgent, Completed: true}, nil
	}

	if len(artifacts) > 0 {
		g.Artifacts = appendUnique(g.Artifacts, artifacts...)
		p.Gates[cur] = g
	}
	p.SetPhase(next, AgentFor(next))
	return AdvanceResult{From: cur, To: next, Agent: p.CurrentAgent, Skipped: skipped}, nil
}

// nextPhase finds the first phase after cur whose gate is not skipped.
func (p *Project) nextPhase(cur Phase) (Phase, []Phase, bool) {
	var skipped []Phase
	for i := PhaseIndex(cur) + 1; i < TotalPhases; i++ {
		ph := PhaseOrder[i]
		if p.Gates[ph].Status == GateSkipped {
			skipped = append(skipped, ph)
			continue
		}
		return ph, skipped, true
	}
	return "", nil, false
}

// IsComplete reports whether the workflow reached launch with a passed gate.
func (p *Project) IsComplete() bool {
	return p.CurrentPhase == PhaseLaunch && p.Gates[PhaseLaunch].Status == GatePassed
}

// PassedGates counts gates with status passed.
func (p *Project) PassedGates() int {
	n := 0
	for _, ph := range PhaseOrder {
		if p.Gates[ph].Status == GatePassed {
			n++
		}
	}
	return n
}

// Progress returns round(100 * passed gates / total phases).
func (p *Project) Progress() int {
	return int(math.Round(100 * float64(p.PassedGates()) / float64(TotalPhases)))
}

// appendUnique appends values not already present, dropping empty strings.
func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		dst = append(dst, v)
	}
	return dst
}
