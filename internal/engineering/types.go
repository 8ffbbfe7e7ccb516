// Package engineering implements the engineering session orchestrator core:
// an eleven-phase state machine with pass/fail gates, the scoping wizard,
// an append-only decision log, a file-level dependency graph with impact
// analysis, and a flat artifact store.
//
// Everything lives inside one Project aggregate which callers load whole,
// mutate in memory and save whole through a Store.
package engineering

import "fmt"

// --- Phase enum ---

// Phase is one step of the engineering workflow.
type Phase string

const (
	PhaseScoping        Phase = "scoping"
	PhaseRequirements   Phase = "requirements"
	PhaseArchitecture   Phase = "architecture"
	PhaseDesignReview   Phase = "design_review"
	PhaseImplementation Phase = "implementation"
	PhaseCodeReview     Phase = "code_review"
	PhaseTesting        Phase = "testing"
	PhaseSecurityReview Phase = "security_review"
	PhaseDocumentation  Phase = "documentation"
	PhaseStaging        Phase = "staging"
	PhaseLaunch         Phase = "launch"
)

// PhaseOrder is the fixed total order of phases.
var PhaseOrder = []Phase{
	PhaseScoping,
	PhaseRequirements,
	PhaseArchitecture,
	PhaseDesignReview,
	PhaseImplementation,
	PhaseCodeReview,
	PhaseTesting,
	PhaseSecurityReview,
	PhaseDocumentation,
	PhaseStaging,
	PhaseLaunch,
}

// TotalPhases is len(PhaseOrder), used for progress.
var TotalPhases = len(PhaseOrder)

// --- Agent roles ---

// AgentRole identifies who acts in a phase or records a decision.
type AgentRole string

const (
	AgentOrchestrator  AgentRole = "orchestrator"
	AgentPM            AgentRole = "pm"
	AgentArchitect     AgentRole = "architect"
	AgentEngineer      AgentRole = "engineer"
	AgentQA            AgentRole = "qa"
	AgentSecurity      AgentRole = "security"
	AgentDocumentation AgentRole = "documentation"
	AgentDevOps        AgentRole = "devops"
)

// validRoles is the set of the eight known agent roles.
var validRoles = map[AgentRole]bool{
	AgentOrchestrator:  true,
	AgentPM:            true,
	AgentArchitect:     true,
	AgentEngineer:      true,
	AgentQA:            true,
	AgentSecurity:      true,
	AgentDocumentation: true,
	AgentDevOps:        true,
}

// ValidateRole returns ErrInvalidRole if the role is not one of the eight known roles.
func ValidateRole(r AgentRole) error {
	if !validRoles[r] {
		return newError(ErrInvalidRole,
			fmt.Sprintf("invalid agent role %q: must be one of: orchestrator, pm, architect, engineer, qa, security, documentation, devops", r),
			"")
	}
	return nil
}

// --- Gate status ---

// GateStatus is the state of one phase gate.
type GateStatus string

const (
	GatePending    GateStatus = "pending"
	GateInProgress GateStatus = "in_progress"
	GatePassed     GateStatus = "passed"
	GateFailed     GateStatus = "failed"
	GateSkipped    GateStatus = "skipped"
)

// Gate is the pass/fail checkpoint of one phase.
type Gate struct {
	Status     GateStatus `json:"status"`
	Artifacts  []string   `json:"artifacts,omitempty"`
	ApprovedBy AgentRole  `json:"approved_by,omitempty"`
	Timestamp  string     `json:"timestamp,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

// --- Scope ---

// Audience is the scoping answer for who the product serves.
type Audience string

const (
	AudienceConsumers  Audience = "consumers"
	AudienceBusinesses Audience = "businesses"
	AudienceInternal   Audience = "internal"
	AudienceDevelopers Audience = "developers"
)

// Compliance holds the five known compliance flags.
type Compliance struct {
	HIPAA bool `json:"hipaa"`
	PCI   bool `json:"pci"`
	GDPR  bool `json:"gdpr"`
	SOC2  bool `json:"soc2"`
	COPPA bool `json:"coppa"`
}

// Any reports whether at least one flag is set.
func (c Compliance) Any() bool {
	return c.HIPAA || c.PCI || c.GDPR || c.SOC2 || c.COPPA
}

// Names returns the set flags in a fixed order.
func (c Compliance) Names() []string {
	var names []string
	for _, f := range []struct {
		name string
		on   bool
	}{
		{"hipaa", c.HIPAA}, {"pci", c.PCI}, {"gdpr", c.GDPR}, {"soc2", c.SOC2}, {"coppa", c.COPPA},
	} {
		if f.on {
			names = append(names, f.name)
		}
	}
	return names
}

// ProjectScope is the requirements profile built by the scoping wizard.
type ProjectScope struct {
	Audience            Audience   `json:"audience,omitempty"`
	IsFullBusiness      bool       `json:"is_full_business"`
	NeedsMarketing      bool       `json:"needs_marketing"`
	NeedsAnalytics      bool       `json:"needs_analytics"`
	NeedsAdminDashboard bool       `json:"needs_admin_dashboard"`
	Platforms           []string   `json:"platforms,omitempty"`
	HasAuth             bool       `json:"has_auth"`
	HasPayments         bool       `json:"has_payments"`
	HasRealtime         bool       `json:"has_realtime"`
	Compliance          Compliance `json:"compliance"`
	ExpectedUsers       string     `json:"expected_users,omitempty"`
	LaunchTimeline      string     `json:"launch_timeline,omitempty"`
	Answered            []string   `json:"answered,omitempty"` // step ids in answer order, no repeats
}

// --- Decisions ---

// Impact grades how far a decision reaches.
type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

var validImpacts = map[Impact]bool{
	ImpactLow:      true,
	ImpactMedium:   true,
	ImpactHigh:     true,
	ImpactCritical: true,
}

// DefaultConfidence is applied when a decision is recorded without one.
const DefaultConfidence = 80

// Decision is one immutable entry of the decision log.
type Decision struct {
	ID           string    `json:"id"`
	Timestamp    string    `json:"timestamp"`
	Agent        AgentRole `json:"agent"`
	Phase        Phase     `json:"phase"`
	Decision     string    `json:"decision"`
	Reasoning    string    `json:"reasoning"`
	Alternatives []string  `json:"alternatives,omitempty"`
	Confidence   int       `json:"confidence"`
	Impact       Impact    `json:"impact"`
	Reversible   bool      `json:"reversible"`
}

// --- Dependency graph ---

// NodeType classifies a tracked source file.
type NodeType string

const (
	NodeSchema    NodeType = "schema"
	NodeAPI       NodeType = "api"
	NodeComponent NodeType = "component"
	NodeService   NodeType = "service"
	NodePage      NodeType = "page"
	NodeUtil      NodeType = "util"
	NodeConfig    NodeType = "config"
)

// NodeTypes lists node types in display order.
var NodeTypes = []NodeType{NodeSchema, NodeAPI, NodeComponent, NodeService, NodePage, NodeUtil, NodeConfig}

// EdgeType classifies how one file depends on another.
type EdgeType string

const (
	EdgeImport  EdgeType = "import"
	EdgeAPICall EdgeType = "api-call"
	EdgeDBQuery EdgeType = "db-query"
	EdgeEvent   EdgeType = "event"
	EdgeConfig  EdgeType = "config"
)

var validEdgeTypes = map[EdgeType]bool{
	EdgeImport:  true,
	EdgeAPICall: true,
	EdgeDBQuery: true,
	EdgeEvent:   true,
	EdgeConfig:  true,
}

// GraphNode is one tracked file. FilePath is the lookup key.
type GraphNode struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Name     string   `json:"name"`
	FilePath string   `json:"file_path"`
}

// GraphEdge points from the dependent node (source) to the node it depends on (target).
type GraphEdge struct {
	SourceID string   `json:"source_id"`
	TargetID string   `json:"target_id"`
	Type     EdgeType `json:"type"`
}

// --- Project aggregate ---

// Project is the root aggregate of one engineering build, persisted whole.
type Project struct {
	ID           string          `json:"id"`
	Key          string          `json:"key"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    string          `json:"created_at"`
	LastActivity string          `json:"last_activity"`
	CurrentPhase Phase           `json:"current_phase"`
	CurrentAgent AgentRole       `json:"current_agent"`
	Scope        ProjectScope    `json:"scope"`
	Gates        map[Phase]Gate  `json:"gates"`
	Decisions    DecisionLog     `json:"decisions"`
	Graph        DependencyGraph `json:"graph"`
	Artifacts    Artifacts       `json:"artifacts"`

	// Version is the optimistic-concurrency token. Stores bump it on every
	// successful Save and reject saves whose Version is stale.
	Version int64 `json:"version"`
}
