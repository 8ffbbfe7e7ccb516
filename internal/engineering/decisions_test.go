package engineering

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestRecordDecision_Defaults(t *testing.T) {
	p := testProject()
	d, err := p.RecordDecision(DecisionInput{
		Agent:     AgentArchitect,
		Decision:  "Use Postgres",
		Reasoning: "relational data",
	})
	if err != nil {
		t.Fatalf("RecordDecision: %v", err)
	}
	if d.Confidence != DefaultConfidence || d.Impact != ImpactMedium {
		t.Errorf("defaults = %d/%s, want 80/medium", d.Confidence, d.Impact)
	}
	if d.ID == "" || d.Timestamp == "" {
		t.Error("decision should get an id and timestamp")
	}
	if d.Phase != PhaseScoping {
		t.Errorf("Phase = %s, want the current phase", d.Phase)
	}
}

func TestRecordDecision_InvalidRole(t *testing.T) {
	p := testProject()
	_, err := p.RecordDecision(DecisionInput{Agent: "ceo", Decision: "ship it"})
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("err = %v, want ErrInvalidRole", err)
	}
	if p.Decisions.Len() != 0 {
		t.Error("rejected decision must not be appended")
	}
}

func TestRecordDecision_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		in   DecisionInput
	}{
		{"empty decision", DecisionInput{Agent: AgentPM}},
		{"confidence above 100", DecisionInput{Agent: AgentPM, Decision: "x", Confidence: intPtr(101)}},
		{"negative confidence", DecisionInput{Agent: AgentPM, Decision: "x", Confidence: intPtr(-1)}},
		{"unknown impact", DecisionInput{Agent: AgentPM, Decision: "x", Impact: "huge"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProject()
			if _, err := p.RecordDecision(tt.in); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestDecisionLog_AppendOnly(t *testing.T) {
	p := testProject()
	first, _ := p.RecordDecision(DecisionInput{
		Agent:        AgentEngineer,
		Decision:     "Use tRPC",
		Alternatives: []string{"REST", "GraphQL"},
		Confidence:   intPtr(0),
	})

	snapshot := p.Decisions.List()
	snapshot[0].Decision = "tampered"
	snapshot[0].Alternatives[0] = "tampered"

	for i := 2; i <= 4; i++ {
		if _, err := p.RecordDecision(DecisionInput{Agent: AgentQA, Decision: "more"}); err != nil {
			t.Fatal(err)
		}
		if p.Decisions.Len() != i {
			t.Fatalf("Len = %d, want %d", p.Decisions.Len(), i)
		}
	}

	got := p.Decisions.List()[0]
	if got.Decision != first.Decision || got.Alternatives[0] != "REST" {
		t.Errorf("first entry mutated: %+v", got)
	}
	if got.Confidence != 0 {
		t.Errorf("explicit zero confidence replaced: %d", got.Confidence)
	}
}
