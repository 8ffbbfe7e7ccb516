package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebakers/codebakers/internal/engineering"
	"github.com/codebakers/codebakers/internal/requestid"
)

const testKey = "/work/acme"

// fakeRecorder captures metric calls.
type fakeRecorder struct {
	mu        sync.Mutex
	commands  map[string]int
	durations int
	conflicts int
	projects  int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{commands: map[string]int{}}
}

func (r *fakeRecorder) RecordCommand(command, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[command+"/"+status]++
}

func (r *fakeRecorder) ObserveDuration(string, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations++
}

func (r *fakeRecorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts++
}

func (r *fakeRecorder) IncProjects() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects++
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *fakeRecorder) {
	t.Helper()
	rec := newFakeRecorder()
	return New(engineering.NewMemoryStore(), zerolog.Nop(), WithMetrics(rec)), rec
}

func startProject(t *testing.T, o *Orchestrator) {
	t.Helper()
	_, err := o.Start(context.Background(), testKey, StartArgs{Name: "Acme", Description: "a CRM"})
	require.NoError(t, err)
}

func completeScoping(t *testing.T, o *Orchestrator) Result {
	t.Helper()
	answers := []struct{ step, answer string }{
		{"audience", `"businesses"`},
		{"business", `"yes"`},
		{"platforms", `["web","api"]`},
		{"auth", `true`},
		{"payments", `"no"`},
		{"realtime", `"no"`},
		{"compliance", `[]`},
		{"scale", `"medium"`},
		{"timeline", `"weeks"`},
	}
	var last Result
	for _, a := range answers {
		args := fmt.Sprintf(`{"step_id":%q,"answer":%s}`, a.step, a.answer)
		res, err := o.Execute(context.Background(), testKey, CmdScope, json.RawMessage(args))
		require.NoError(t, err, "step %s", a.step)
		last = res
	}
	return last
}

// --- Project existence ---

func TestCommands_RequireProject(t *testing.T) {
	o, rec := newTestOrchestrator(t)

	for _, cmd := range Commands {
		if cmd == CmdStart {
			continue
		}
		t.Run(cmd, func(t *testing.T) {
			_, err := o.Execute(context.Background(), testKey, cmd, json.RawMessage(`{"action":"list"}`))
			require.Error(t, err)
			assert.ErrorIs(t, err, engineering.ErrNoProject)
			assert.Contains(t, engineering.RemedyOf(err), "engineering_start")
		})
	}
	assert.Equal(t, 1, rec.commands["status/no_project"])
}

func TestStart_CreatesProject(t *testing.T) {
	o, rec := newTestOrchestrator(t)

	res, err := o.Start(context.Background(), testKey, StartArgs{Name: " Acme ", Description: "a CRM"})
	require.NoError(t, err)
	assert.Equal(t, CmdStart, res.Command)
	assert.Contains(t, res.Summary, "Acme")
	assert.Contains(t, res.Summary, "`audience`")

	data := res.Data.(StartData)
	assert.Equal(t, "Acme", data.Project.Name)
	assert.Equal(t, int64(1), data.Project.Version)
	assert.Equal(t, "audience", data.Next.ID)
	assert.Equal(t, 1, rec.commands["start/ok"])
	assert.Equal(t, 1, rec.durations)
}

func TestStart_RequiresName(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	_, err := o.Start(context.Background(), testKey, StartArgs{Name: "  "})
	assert.ErrorIs(t, err, engineering.ErrInvalidArgument)
}

func TestStart_ExistingProjectNeedsForce(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()
	startProject(t, o)

	_, err := o.Start(ctx, testKey, StartArgs{Name: "Other"})
	require.ErrorIs(t, err, engineering.ErrPrecondition)
	assert.Contains(t, engineering.RemedyOf(err), "force=true")

	res, err := o.Start(ctx, testKey, StartArgs{Name: "Other", Force: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Data.(StartData).Project.Version)

	status, err := o.Status(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "Other", status.Data.(StatusView).Name)
}

func TestStart_CountsOnlyNewProjects(t *testing.T) {
	o, rec := newTestOrchestrator(t)
	ctx := context.Background()
	startProject(t, o)

	_, err := o.Start(ctx, "other", StartArgs{Name: "Other"})
	require.NoError(t, err)
	_, err = o.Start(ctx, testKey, StartArgs{Name: "Again"})
	require.ErrorIs(t, err, engineering.ErrPrecondition)
	_, err = o.Start(ctx, testKey, StartArgs{Name: "Again", Force: true})
	require.NoError(t, err)

	assert.Equal(t, 2, rec.projects)
}

// --- End to end ---

func TestEndToEnd_ScopingScenario(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	startProject(t, o)

	last := completeScoping(t, o)
	assert.Contains(t, last.Summary, "Scoping complete")
	assert.True(t, last.Data.(ScopeData).Outcome.Completed)

	res, err := o.Status(context.Background(), testKey)
	require.NoError(t, err)
	v := res.Data.(StatusView)
	assert.Equal(t, []string{"web", "api"}, v.Scope.Platforms)
	assert.True(t, v.Scope.NeedsAdminDashboard)
	assert.True(t, v.Scope.HasAuth)
	assert.False(t, v.Scope.HasPayments)
	assert.Equal(t, engineering.PhaseRequirements, v.CurrentPhase)
	assert.Equal(t, engineering.AgentPM, v.CurrentAgent)
	assert.Equal(t, 9, v.Progress)
	assert.Equal(t, 1, v.Decisions)
	assert.Equal(t, 100, v.RecentDecisions[0].Confidence)
	assert.Empty(t, v.ScopingPending)
	assert.NotEmpty(t, v.Stack)
	assert.Contains(t, res.Summary, "| Platforms | web, api |")
	assert.Contains(t, res.Summary, "**Progress:** 9%")
}

func TestScope_LockedAfterCompletion(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	startProject(t, o)
	completeScoping(t, o)

	_, err := o.Scope(context.Background(), testKey, ScopeArgs{StepID: "audience", Answer: "consumers"})
	assert.ErrorIs(t, err, engineering.ErrPrecondition)
}

func TestScope_UnknownStep(t *testing.T) {
	o, rec := newTestOrchestrator(t)
	startProject(t, o)

	_, err := o.Scope(context.Background(), testKey, ScopeArgs{StepID: "budget", Answer: "big"})
	require.ErrorIs(t, err, engineering.ErrUnknownStep)
	assert.Contains(t, engineering.RemedyOf(err), "audience")
	assert.Equal(t, 1, rec.commands["scope/unknown_step"])
}

func TestStatus_PendingScopingSteps(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	startProject(t, o)
	_, err := o.Scope(context.Background(), testKey, ScopeArgs{StepID: "business", Answer: "no"})
	require.NoError(t, err)

	res, err := o.Status(context.Background(), testKey)
	require.NoError(t, err)
	v := res.Data.(StatusView)
	assert.NotContains(t, v.ScopingPending, "business")
	assert.Contains(t, v.ScopingPending, "audience")
	assert.Len(t, v.ScopingPending, 8)
	assert.Len(t, v.Phases, engineering.TotalPhases)
	assert.True(t, v.Phases[0].Current)
}

// --- Gates and phases ---

func TestAdvance_RequiresPassedGate(t *testing.T) {
	o, rec := newTestOrchestrator(t)
	startProject(t, o)
	completeScoping(t, o)
	ctx := context.Background()

	_, err := o.Advance(ctx, testKey, AdvanceArgs{})
	require.ErrorIs(t, err, engineering.ErrPrecondition)
	assert.Contains(t, engineering.RemedyOf(err), "engineering_gate")
	assert.Equal(t, 1, rec.commands["advance/precondition"])

	_, err = o.Gate(ctx, testKey, GateArgs{Action: "pass", Artifacts: []string{"prd.md"}})
	require.NoError(t, err)

	res, err := o.Advance(ctx, testKey, AdvanceArgs{Artifacts: []string{"stories.md"}})
	require.NoError(t, err)
	data := res.Data.(AdvanceData)
	assert.Equal(t, engineering.PhaseRequirements, data.Result.From)
	assert.Equal(t, engineering.PhaseArchitecture, data.Result.To)
	assert.Equal(t, engineering.AgentArchitect, data.Result.Agent)
	assert.Equal(t, 18, data.Progress)

	status, err := o.Status(ctx, testKey)
	require.NoError(t, err)
	g := status.Data.(StatusView).Phases[1].Gate
	assert.Equal(t, []string{"prd.md", "stories.md"}, g.Artifacts)
	assert.Equal(t, engineering.AgentPM, g.ApprovedBy)
}

func TestGate_FailKeepsPhase(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	startProject(t, o)
	completeScoping(t, o)
	ctx := context.Background()

	_, err := o.Gate(ctx, testKey, GateArgs{Action: "fail"})
	require.ErrorIs(t, err, engineering.ErrInvalidArgument)

	res, err := o.Gate(ctx, testKey, GateArgs{Action: "FAIL", Reason: "missing acceptance criteria"})
	require.NoError(t, err)
	assert.Contains(t, res.Summary, "missing acceptance criteria")

	status, err := o.Status(ctx, testKey)
	require.NoError(t, err)
	v := status.Data.(StatusView)
	assert.Equal(t, engineering.PhaseRequirements, v.CurrentPhase)
	assert.Equal(t, engineering.GateFailed, v.Phases[1].Gate.Status)
	assert.Equal(t, "missing acceptance criteria", v.Phases[1].Gate.Reason)
	assert.Contains(t, status.Summary, "missing acceptance criteria")

	_, err = o.Advance(ctx, testKey, AdvanceArgs{})
	assert.ErrorIs(t, err, engineering.ErrPrecondition)
}

func TestGate_Validation(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	startProject(t, o)
	ctx := context.Background()

	tests := []struct {
		name string
		args GateArgs
		want error
	}{
		{"unknown action", GateArgs{Action: "approve"}, engineering.ErrInvalidArgument},
		{"pass other phase", GateArgs{Action: "pass", Phase: engineering.PhaseTesting}, engineering.ErrInvalidArgument},
		{"skip without phase", GateArgs{Action: "skip"}, engineering.ErrInvalidArgument},
		{"skip launch", GateArgs{Action: "skip", Phase: engineering.PhaseLaunch}, engineering.ErrPrecondition},
		{"skip current", GateArgs{Action: "skip", Phase: engineering.PhaseScoping}, engineering.ErrPrecondition},
		{"skip unknown phase", GateArgs{Action: "skip", Phase: "qa"}, engineering.ErrInvalidArgument},
		{"bad approver", GateArgs{Action: "pass", ApprovedBy: "ceo"}, engineering.ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Gate(ctx, testKey, tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGate_SkipIsBypassedByAdvance(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	startProject(t, o)
	completeScoping(t, o)
	ctx := context.Background()

	_, err := o.Gate(ctx, testKey, GateArgs{Action: "skip", Phase: engineering.PhaseArchitecture, Reason: "reusing existing design"})
	require.NoError(t, err)
	_, err = o.Gate(ctx, testKey, GateArgs{Action: "pass"})
	require.NoError(t, err)

	res, err := o.Advance(ctx, testKey, AdvanceArgs{})
	require.NoError(t, err)
	data := res.Data.(AdvanceData)
	assert.Equal(t, engineering.PhaseDesignReview, data.Result.To)
	assert.Equal(t, []engineering.Phase{engineering.PhaseArchitecture}, data.Result.Skipped)
	assert.Contains(t, res.Summary, "**Skipped:** architecture")
}

func TestAdvance_ThroughLaunch(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	startProject(t, o)
	completeScoping(t, o)
	ctx := context.Background()

	for i := 1; i < engineering.TotalPhases-1; i++ {
		_, err := o.Gate(ctx, testKey, GateArgs{Action: "pass"})
		require.NoError(t, err)
		_, err = o.Advance(ctx, testKey, AdvanceArgs{})
		require.NoError(t, err)
	}
	_, err := o.Gate(ctx, testKey, GateArgs{Action: "pass"})
	require.NoError(t, err)

	before, err := o.Store().Load(ctx, testKey)
	require.NoError(t, err)

	for range 2 {
		res, err := o.Advance(ctx, testKey, AdvanceArgs{Artifacts: []string{"release.md"}})
		require.NoError(t, err)
		assert.True(t, res.Data.(AdvanceData).Result.Completed)
		assert.Equal(t, 100, res.Data.(AdvanceData).Progress)
		assert.Equal(t, CmdAdvance, res.Command)
	}

	after, err := o.Store().Load(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version, "completed advance must not save")
	assert.Equal(t, before.LastActivity, after.LastActivity)

	status, err := o.Status(ctx, testKey)
	require.NoError(t, err)
	assert.True(t, status.Data.(StatusView).Complete)
}

// --- Artifacts ---

func TestArtifact_Lifecycle(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	startProject(t, o)
	ctx := context.Background()

	res, err := o.Artifact(ctx, testKey, ArtifactArgs{Action: "list"})
	require.NoError(t, err)
	assert.Contains(t, res.Summary, "No artifacts")

	_, err = o.Artifact(ctx, testKey, ArtifactArgs{Action: "save", Name: "prd.md", Content: "v1"})
	require.NoError(t, err)
	_, err = o.Artifact(ctx, testKey, ArtifactArgs{Action: "save", Name: "prd.md", Content: "v2"})
	require.NoError(t, err)
	_, err = o.Artifact(ctx, testKey, ArtifactArgs{Action: "save", Name: "api.md", Content: "routes"})
	require.NoError(t, err)

	res, err = o.Artifact(ctx, testKey, ArtifactArgs{Action: "get", Name: "prd.md"})
	require.NoError(t, err)
	assert.Equal(t, "v2", res.Data.(ArtifactData).Content)

	res, err = o.Artifact(ctx, testKey, ArtifactArgs{Action: "list"})
	require.NoError(t, err)
	assert.Equal(t, []string{"api.md", "prd.md"}, res.Data.(ArtifactListData).Names)

	_, err = o.Artifact(ctx, testKey, ArtifactArgs{Action: "get", Name: "missing.md"})
	require.ErrorIs(t, err, engineering.ErrNotFound)
	assert.Contains(t, engineering.RemedyOf(err), "action=list")

	_, err = o.Artifact(ctx, testKey, ArtifactArgs{Action: "delete", Name: "prd.md"})
	assert.ErrorIs(t, err, engineering.ErrInvalidArgument)
	_, err = o.Artifact(ctx, testKey, ArtifactArgs{Action: "save"})
	assert.ErrorIs(t, err, engineering.ErrInvalidArgument)
}

// --- Decisions ---

func TestDecision_RecordsInCurrentPhase(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	startProject(t, o)
	ctx := context.Background()

	res, err := o.Decision(ctx, testKey, DecisionArgs{
		Agent:        "Architect",
		Decision:     "Use Postgres",
		Reasoning:    "relational data",
		Alternatives: []string{"MongoDB"},
	})
	require.NoError(t, err)
	d := res.Data.(engineering.Decision)
	assert.Equal(t, engineering.AgentArchitect, d.Agent)
	assert.Equal(t, engineering.PhaseScoping, d.Phase)
	assert.Equal(t, engineering.DefaultConfidence, d.Confidence)
	assert.Equal(t, engineering.ImpactMedium, d.Impact)
	assert.True(t, d.Reversible)
	assert.Contains(t, res.Summary, "MongoDB")

	_, err = o.Decision(ctx, testKey, DecisionArgs{Agent: "ceo", Decision: "x"})
	assert.ErrorIs(t, err, engineering.ErrInvalidRole)

	status, err := o.Status(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Data.(StatusView).Decisions)
}

// --- Graph ---

func TestGraph_AddImpactView(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	startProject(t, o)
	ctx := context.Background()

	_, err := o.GraphAdd(ctx, testKey, GraphAddArgs{NodeType: "schema", FilePath: "db/schema.ts"})
	require.NoError(t, err)
	res, err := o.GraphAdd(ctx, testKey, GraphAddArgs{
		NodeType:  "api",
		FilePath:  "app/api/users/route.ts",
		DependsOn: []string{"db/schema.ts", "lib/missing.ts"},
	})
	require.NoError(t, err)
	out := res.Data.(engineering.GraphAddResult)
	assert.Len(t, out.Edges, 1)
	assert.Equal(t, []string{"lib/missing.ts"}, out.Skipped)
	assert.Contains(t, res.Summary, "lib/missing.ts")

	_, err = o.GraphAdd(ctx, testKey, GraphAddArgs{
		NodeType:        "page",
		FilePath:        "app/users/page.tsx",
		DependsOn:       []string{"app/api/users/route.ts"},
		DependencyTypes: []engineering.EdgeType{engineering.EdgeAPICall},
	})
	require.NoError(t, err)

	res, err = o.Impact(ctx, testKey, ImpactArgs{FilePath: "db/schema.ts"})
	require.NoError(t, err)
	report := res.Data.(engineering.ImpactReport)
	assert.Len(t, report.Direct, 1)
	assert.Len(t, report.Transitive, 1)
	assert.Equal(t, engineering.RiskLow, report.Risk)

	res, err = o.Impact(ctx, testKey, ImpactArgs{FilePath: "app/users/page.tsx"})
	require.NoError(t, err)
	assert.Contains(t, res.Summary, "Safe to change")

	_, err = o.Impact(ctx, testKey, ImpactArgs{FilePath: "nope.ts"})
	require.ErrorIs(t, err, engineering.ErrNotFound)
	assert.Contains(t, engineering.RemedyOf(err), "engineering_graph_add")

	res, err = o.GraphView(ctx, testKey, GraphViewArgs{})
	require.NoError(t, err)
	overview := res.Data.(GraphOverview)
	assert.Equal(t, 3, overview.Nodes)
	assert.Equal(t, 2, overview.Edges)
	assert.Equal(t, 1, overview.ByType[engineering.NodeSchema])

	res, err = o.GraphView(ctx, testKey, GraphViewArgs{FocusFile: "./app/api/users/route.ts"})
	require.NoError(t, err)
	focus := res.Data.(GraphFocus)
	require.Len(t, focus.Dependencies, 1)
	assert.Equal(t, "db/schema.ts", focus.Dependencies[0].FilePath)
	require.Len(t, focus.Dependents, 1)
	assert.Equal(t, "app/users/page.tsx", focus.Dependents[0].FilePath)

	_, err = o.GraphView(ctx, testKey, GraphViewArgs{FocusFile: "nope.ts"})
	assert.ErrorIs(t, err, engineering.ErrNotFound)
}

func TestGraph_ImpactListingTruncated(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	startProject(t, o)
	ctx := context.Background()

	_, err := o.GraphAdd(ctx, testKey, GraphAddArgs{NodeType: "util", FilePath: "lib/core.ts"})
	require.NoError(t, err)
	for i := 0; i < 15; i++ {
		_, err := o.GraphAdd(ctx, testKey, GraphAddArgs{
			NodeType:  "component",
			FilePath:  fmt.Sprintf("components/c%02d.tsx", i),
			DependsOn: []string{"lib/core.ts"},
		})
		require.NoError(t, err)
	}

	res, err := o.Impact(ctx, testKey, ImpactArgs{FilePath: "lib/core.ts"})
	require.NoError(t, err)
	report := res.Data.(engineering.ImpactReport)
	assert.Len(t, report.Direct, 15, "data is never truncated")
	assert.Equal(t, engineering.RiskCritical, report.Risk)
	assert.Contains(t, res.Summary, "... and 5 more")
	assert.Equal(t, maxListed, strings.Count(res.Summary, "(component)"))
}

// --- Execute ---

func TestExecute_Dispatch(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	res, err := o.Execute(ctx, testKey, " START ", json.RawMessage(`{"project_name":"Acme"}`))
	require.NoError(t, err)
	assert.Equal(t, CmdStart, res.Command)

	_, err = o.Execute(ctx, testKey, "status", nil)
	require.NoError(t, err)

	_, err = o.Execute(ctx, testKey, "deploy", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, "unknown_command", StatusOf(err))

	_, err = o.Execute(ctx, testKey, "decision", json.RawMessage(`{"agent":`))
	assert.ErrorIs(t, err, engineering.ErrInvalidArgument)
}

func TestAnswerText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{``, ""},
		{`null`, ""},
		{`"businesses"`, "businesses"},
		{`["web","api"]`, `["web","api"]`},
		{`true`, "true"},
		{` 42 `, "42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, answerText(json.RawMessage(tt.raw)), tt.raw)
	}
}

// --- Concurrency ---

func TestConcurrentCommandsAreSerialized(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	startProject(t, o)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := o.Decision(ctx, testKey, DecisionArgs{Agent: "engineer", Decision: fmt.Sprintf("d%d", i)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	status, err := o.Status(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, n, status.Data.(StatusView).Decisions)
}

// racingStore lets another writer save between this caller's load and save.
type racingStore struct {
	*engineering.MemoryStore
	once sync.Once
}

func (s *racingStore) Save(ctx context.Context, key string, p *engineering.Project) error {
	s.once.Do(func() {
		other, err := s.MemoryStore.Load(ctx, key)
		if err == nil {
			other.Name = "changed elsewhere"
			_ = s.MemoryStore.Save(ctx, key, other)
		}
	})
	return s.MemoryStore.Save(ctx, key, p)
}

func TestStaleSaveIsRejected(t *testing.T) {
	mem := engineering.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, mem.Save(ctx, testKey, engineering.NewProject(testKey, "Acme", "")))

	rec := newFakeRecorder()
	o := New(&racingStore{MemoryStore: mem}, zerolog.Nop(), WithMetrics(rec))

	_, err := o.Artifact(ctx, testKey, ArtifactArgs{Action: "save", Name: "prd.md", Content: "lost"})
	require.ErrorIs(t, err, engineering.ErrConflict)
	assert.Equal(t, 1, rec.conflicts)
	assert.Equal(t, 1, rec.commands["artifact/conflict"])

	p, err := mem.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "changed elsewhere", p.Name)
	_, ok := p.Artifacts.Get("prd.md")
	assert.False(t, ok, "the rejected mutation must not be applied")

	_, err = o.Artifact(ctx, testKey, ArtifactArgs{Action: "save", Name: "prd.md", Content: "retried"})
	require.NoError(t, err)
}

func TestRun_LogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	o := New(engineering.NewMemoryStore(), zerolog.New(&buf))

	ctx, _ := requestid.New(context.Background(), "req-99")
	_, err := o.Status(ctx, testKey)
	require.ErrorIs(t, err, engineering.ErrNoProject)

	assert.Contains(t, buf.String(), `"request_id":"req-99"`)
	assert.Contains(t, buf.String(), `"command":"status"`)
}

func TestRun_OmitsMissingRequestID(t *testing.T) {
	var buf bytes.Buffer
	o := New(engineering.NewMemoryStore(), zerolog.New(&buf))

	_, err := o.Status(context.Background(), testKey)
	require.Error(t, err)
	assert.NotContains(t, buf.String(), "request_id")
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, "ok", StatusOf(nil))
	assert.Equal(t, "no_project", StatusOf(engineering.NoProject("k")))
	assert.Equal(t, "conflict", StatusOf(engineering.Conflict("k", 2, 1)))
	assert.Equal(t, "invalid_argument", StatusOf(engineering.InvalidArgument("x")))
	assert.Equal(t, "error", StatusOf(fmt.Errorf("disk: %w", context.Canceled)))
}
