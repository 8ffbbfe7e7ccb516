package engineering

import "strings"

// NewProject creates a project at the initial state: phase scoping,
// agent orchestrator, every gate pending.
func NewProject(key, name, description string) *Project {
	ts := now()
	gates := make(map[Phase]Gate, TotalPhases)
	for _, ph := range PhaseOrder {
		gates[ph] = Gate{Status: GatePending}
	}
	return &Project{
		ID:           newID(),
		Key:          key,
		Name:         strings.TrimSpace(name),
		Description:  strings.TrimSpace(description),
		CreatedAt:    ts,
		LastActivity: ts,
		CurrentPhase: PhaseScoping,
		CurrentAgent: AgentFor(PhaseScoping),
		Gates:        gates,
		Artifacts:    Artifacts{},
	}
}

// touch records activity on the project.
func (p *Project) touch() {
	p.LastActivity = now()
}

// normalize fills nil collections on a project decoded from storage.
func (p *Project) normalize() {
	if p.Gates == nil {
		p.Gates = make(map[Phase]Gate, TotalPhases)
	}
	for _, ph := range PhaseOrder {
		if _, ok := p.Gates[ph]; !ok {
			p.Gates[ph] = Gate{Status: GatePending}
		}
	}
	if p.Artifacts == nil {
		p.Artifacts = Artifacts{}
	}
}

// Normalize fills nil collections and missing gates. Stores call it after decoding.
func Normalize(p *Project) *Project {
	if p != nil {
		p.normalize()
	}
	return p
}
