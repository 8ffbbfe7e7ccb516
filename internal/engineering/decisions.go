package engineering

import "strings"

// DecisionLog is the append-only sequence of decisions. Entries are never
// edited or removed; List returns copies.
type DecisionLog struct {
	Entries []Decision `json:"entries"`
}

// DecisionInput is the caller-supplied part of a decision.
// Nil Confidence and empty Impact take the defaults (80, medium); nil
// Reversible means reversible.
type DecisionInput struct {
	Agent        AgentRole
	Decision     string
	Reasoning    string
	Alternatives []string
	Confidence   *int
	Impact       Impact
	Reversible   *bool
}

// RecordDecision validates and appends a decision made in the current phase.
func (p *Project) RecordDecision(in DecisionInput) (Decision, error) {
	if err := ValidateRole(in.Agent); err != nil {
		return Decision{}, err
	}
	if strings.TrimSpace(in.Decision) == "" {
		return Decision{}, InvalidArgument("'decision' is required")
	}

	confidence := DefaultConfidence
	if in.Confidence != nil {
		confidence = *in.Confidence
	}
	if confidence < 0 || confidence > 100 {
		return Decision{}, InvalidArgument("confidence must be between 0 and 100, got %d", confidence)
	}

	impact := in.Impact
	if impact == "" {
		impact = ImpactMedium
	}
	if !validImpacts[impact] {
		return Decision{}, InvalidArgument("invalid impact %q: must be one of: low, medium, high, critical", impact)
	}

	reversible := true
	if in.Reversible != nil {
		reversible = *in.Reversible
	}

	d := p.Decisions.append(Decision{
		Agent:        in.Agent,
		Phase:        p.CurrentPhase,
		Decision:     strings.TrimSpace(in.Decision),
		Reasoning:    strings.TrimSpace(in.Reasoning),
		Alternatives: appendUnique(nil, in.Alternatives...),
		Confidence:   confidence,
		Impact:       impact,
		Reversible:   reversible,
	})
	p.touch()
	return d, nil
}

// append assigns id and timestamp and stores the decision.
func (l *DecisionLog) append(d Decision) Decision {
	d.ID = newID()
	d.Timestamp = now()
	l.Entries = append(l.Entries, d)
	return d
}

// List returns the decisions in insertion order.
func (l DecisionLog) List() []Decision {
	out := make([]Decision, len(l.Entries))
	copy(out, l.Entries)
	for i := range out {
		out[i].Alternatives = append([]string(nil), out[i].Alternatives...)
	}
	return out
}

// Len returns the number of recorded decisions.
func (l DecisionLog) Len() int {
	return len(l.Entries)
}
