package engineering

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuestionType declares how a scoping answer is parsed.
type QuestionType string

const (
	QuestionSingle  QuestionType = "single_select"
	QuestionMulti   QuestionType = "multi_select"
	QuestionBoolean QuestionType = "boolean"
)

// ScopeOption is one selectable answer of a scoping step.
type ScopeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ScopeStep is one question of the scoping wizard.
type ScopeStep struct {
	ID       string        `json:"id"`
	Question string        `json:"question"`
	Type     QuestionType  `json:"type"`
	Options  []ScopeOption `json:"options,omitempty"`

	apply func(s *ProjectScope, a answer)
}

// answer is a parsed scoping answer; only the field matching the step type is set.
type answer struct {
	text string
	flag bool
	list []string
}

var yesNo = []ScopeOption{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}}

// scopeSteps is the fixed, ordered wizard.
var scopeSteps = []ScopeStep{
	{
		ID:       "audience",
		Question: "Who is this product for?",
		Type:     QuestionSingle,
		Options: []ScopeOption{
			{Value: string(AudienceConsumers), Label: "Consumers"},
			{Value: string(AudienceBusinesses), Label: "Businesses (B2B)"},
			{Value: string(AudienceInternal), Label: "Internal team"},
			{Value: string(AudienceDevelopers), Label: "Developers"},
		},
		apply: func(s *ProjectScope, a answer) { s.Audience = Audience(a.text) },
	},
	{
		ID:       "business",
		Question: "Is this a full business (marketing site, analytics and an admin dashboard)?",
		Type:     QuestionBoolean,
		Options:  yesNo,
		apply: func(s *ProjectScope, a answer) {
			s.IsFullBusiness = a.flag
			s.NeedsMarketing = a.flag
			s.NeedsAnalytics = a.flag
			s.NeedsAdminDashboard = a.flag
		},
	},
	{
		ID:       "platforms",
		Question: "Which platforms do you need?",
		Type:     QuestionMulti,
		Options: []ScopeOption{
			{Value: "web", Label: "Web app"},
			{Value: "mobile", Label: "Mobile app"},
			{Value: "api", Label: "Public API"},
		},
		apply: func(s *ProjectScope, a answer) {
			var platforms []string
			for _, v := range a.list {
				platforms = appendUnique(platforms, strings.ToLower(v))
			}
			s.Platforms = platforms
		},
	},
	{
		ID:       "auth",
		Question: "Do users need accounts and sign-in?",
		Type:     QuestionBoolean,
		Options:  yesNo,
		apply:    func(s *ProjectScope, a answer) { s.HasAuth = a.flag },
	},
	{
		ID:       "payments",
		Question: "Will you accept payments or subscriptions?",
		Type:     QuestionBoolean,
		Options:  yesNo,
		apply:    func(s *ProjectScope, a answer) { s.HasPayments = a.flag },
	},
	{
		ID:       "realtime",
		Question: "Do you need realtime features (live updates, chat, presence)?",
		Type:     QuestionBoolean,
		Options:  yesNo,
		apply:    func(s *ProjectScope, a answer) { s.HasRealtime = a.flag },
	},
	{
		ID:       "compliance",
		Question: "Which compliance requirements apply? (none is fine)",
		Type:     QuestionMulti,
		Options: []ScopeOption{
			{Value: "hipaa", Label: "HIPAA"},
			{Value: "pci", Label: "PCI DSS"},
			{Value: "gdpr", Label: "GDPR"},
			{Value: "soc2", Label: "SOC 2"},
			{Value: "coppa", Label: "COPPA"},
		},
		apply: func(s *ProjectScope, a answer) {
			var c Compliance
			for _, v := range a.list {
				switch strings.ToLower(v) {
				case "hipaa":
					c.HIPAA = true
				case "pci":
					c.PCI = true
				case "gdpr":
					c.GDPR = true
				case "soc2":
					c.SOC2 = true
				case "coppa":
					c.COPPA = true
				}
			}
			s.Compliance = c
		},
	},
	{
		ID:       "scale",
		Question: "How many users do you expect in the first year?",
		Type:     QuestionSingle,
		Options: []ScopeOption{
			{Value: "small", Label: "Under 1,000"},
			{Value: "medium", Label: "1,000 – 50,000"},
			{Value: "large", Label: "50,000 – 1M"},
			{Value: "enterprise", Label: "Over 1M"},
		},
		apply: func(s *ProjectScope, a answer) { s.ExpectedUsers = a.text },
	},
	{
		ID:       "timeline",
		Question: "When do you need to launch?",
		Type:     QuestionSingle,
		Options: []ScopeOption{
			{Value: "asap", Label: "As soon as possible"},
			{Value: "weeks", Label: "In a few weeks"},
			{Value: "months", Label: "In a few months"},
			{Value: "flexible", Label: "Flexible"},
		},
		apply: func(s *ProjectScope, a answer) { s.LaunchTimeline = a.text },
	},
}

// ScopeSteps returns the wizard steps in order.
func ScopeSteps() []ScopeStep {
	out := make([]ScopeStep, len(scopeSteps))
	copy(out, scopeSteps)
	return out
}

// FirstScopeStep returns the step engineering_start presents.
func FirstScopeStep() ScopeStep {
	return scopeSteps[0]
}

// ScopeStepByID returns the step and its index, or ok=false.
func ScopeStepByID(id string) (ScopeStep, int, bool) {
	for i, s := range scopeSteps {
		if s.ID == id {
			return s, i, true
		}
	}
	return ScopeStep{}, -1, false
}

// ScopeStepIDs lists the step ids in order.
func ScopeStepIDs() []string {
	ids := make([]string, len(scopeSteps))
	for i, s := range scopeSteps {
		ids[i] = s.ID
	}
	return ids
}

// ParseBoolAnswer accepts case-insensitive "yes" or "true"; anything else is false.
func ParseBoolAnswer(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true":
		return true
	}
	return false
}

// ParseListAnswer reads a JSON array or a JSON string (a one-item list),
// falling back to a comma-separated list when the input is not JSON.
// Blank entries are dropped.
func ParseListAnswer(raw string) []string {
	raw = strings.TrimSpace(raw)
	list, ok := decodeListJSON(raw)
	if !ok {
		list = strings.Split(raw, ",")
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// decodeListJSON decodes raw when it looks like a JSON array or string.
// Number and bool elements keep their JSON text; objects, arrays and
// nulls inside the array are dropped.
func decodeListJSON(raw string) ([]string, bool) {
	if !strings.HasPrefix(raw, "[") && !strings.HasPrefix(raw, `"`) {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	switch v := v.(type) {
	case string:
		return []string{v}, true
	case []any:
		list := make([]string, 0, len(v))
		for _, e := range v {
			switch e := e.(type) {
			case string:
				list = append(list, e)
			case float64, bool:
				list = append(list, fmt.Sprint(e))
			}
		}
		return list, true
	}
	return nil, false
}

func parseAnswer(t QuestionType, raw string) answer {
	switch t {
	case QuestionBoolean:
		return answer{flag: ParseBoolAnswer(raw)}
	case QuestionMulti:
		return answer{list: ParseListAnswer(raw)}
	default:
		return answer{text: strings.TrimSpace(raw)}
	}
}

// ScopeOutcome is the result of answering one scoping step.
type ScopeOutcome struct {
	Step      ScopeStep     `json:"step"`
	Next      *ScopeStep    `json:"next,omitempty"`
	Completed bool          `json:"completed"`
	Stack     []StackChoice `json:"stack,omitempty"`
	Decision  *Decision     `json:"decision,omitempty"`
}

// AnswerScope applies one scoping answer. Steps may be answered in any
// order and re-answered; the step after the answered one (by position) is
// returned as Next. Answering the last step completes scoping: the scoping
// gate passes with scope.json, the project moves to requirements/pm and one
// audit decision is appended.
func (p *Project) AnswerScope(stepID, raw string) (ScopeOutcome, error) {
	if p.Gates[PhaseScoping].Status == GatePassed {
		return ScopeOutcome{}, newError(ErrPrecondition,
			"scoping is already complete and the scope is locked",
			"use `engineering_status` to review the scope")
	}

	step, idx, ok := ScopeStepByID(stepID)
	if !ok {
		return ScopeOutcome{}, newError(ErrUnknownStep,
			fmt.Sprintf("unknown scoping step %q", stepID),
			fmt.Sprintf("use one of: %s", strings.Join(ScopeStepIDs(), ", ")))
	}

	step.apply(&p.Scope, parseAnswer(step.Type, raw))
	p.Scope.Answered = appendUnique(p.Scope.Answered, step.ID)
	if g := p.Gates[PhaseScoping]; g.Status == GatePending {
		g.Status = GateInProgress
		p.Gates[PhaseScoping] = g
	}
	p.touch()

	if idx+1 < len(scopeSteps) {
		next := scopeSteps[idx+1]
		return ScopeOutcome{Step: step, Next: &next}, nil
	}

	if err := p.PassGate(PhaseScoping, []string{"scope.json"}, AgentOrchestrator); err != nil {
		return ScopeOutcome{}, err
	}
	p.SetPhase(PhaseRequirements, AgentFor(PhaseRequirements))

	stack := DetectStack(p.Scope)
	d := p.Decisions.append(Decision{
		Agent:      AgentOrchestrator,
		Phase:      PhaseScoping,
		Decision:   "Project scope defined",
		Reasoning:  scopeReasoning(p.Scope, stack),
		Confidence: 100,
		Impact:     ImpactHigh,
		Reversible: true,
	})
	return ScopeOutcome{Step: step, Completed: true, Stack: stack, Decision: &d}, nil
}

func scopeReasoning(s ProjectScope, stack []StackChoice) string {
	parts := []string{
		fmt.Sprintf("audience=%s", valueOr(string(s.Audience), "unspecified")),
		fmt.Sprintf("platforms=%s", valueOr(strings.Join(s.Platforms, ","), "none")),
		fmt.Sprintf("users=%s", valueOr(s.ExpectedUsers, "unspecified")),
		fmt.Sprintf("timeline=%s", valueOr(s.LaunchTimeline, "unspecified")),
	}
	if names := s.Compliance.Names(); len(names) > 0 {
		parts = append(parts, "compliance="+strings.Join(names, ","))
	}
	return fmt.Sprintf("Scoping answers captured (%s); %d stack choices derived.",
		strings.Join(parts, "; "), len(stack))
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
