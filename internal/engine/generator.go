package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// Phase is the generator's run state. Every transition is recorded in the
// audit trail.
type Phase string

const (
	PhaseInitialized   Phase = "INITIALIZED"
	PhaseContextLoaded Phase = "CONTEXT_LOADED"
	PhaseAssigning     Phase = "ASSIGNING"
	PhaseValidating    Phase = "VALIDATING"
	PhasePersisted     Phase = "PERSISTED"
	PhaseCompleted     Phase = "COMPLETED"
	PhaseFailed        Phase = "FAILED"
)

// ErrInvalidContext marks a run context that cannot be assigned at all.
var ErrInvalidContext = errors.New("generation context is invalid")

// AuditDetail carries the structured payload of one audit entry. Fields
// are populated per action; unused ones stay zero.
type AuditDetail struct {
	StaffID         string  `json:"staff_id,omitempty"`
	ShiftInstanceID string  `json:"shift_instance_id,omitempty"`
	ShiftCode       string  `json:"shift_code,omitempty"`
	Constraint      string  `json:"constraint,omitempty"`
	Score           float64 `json:"score,omitempty"`
	Candidates      int     `json:"candidates,omitempty"`
	Note            string  `json:"note,omitempty"`
}

// AuditEntry is one ordered event in the run's audit trail.
type AuditEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	Phase     Phase       `json:"phase"`
	Action    string      `json:"action"`
	Detail    AuditDetail `json:"detail"`
}

// Gap reports a shift instance no candidate could fill.
type Gap struct {
	ShiftInstanceID string    `json:"shift_instance_id"`
	ShiftCode       string    `json:"shift_code"`
	Date            time.Time `json:"date"`
	Reason          string    `json:"reason"`
}

// VacationSatisfaction breaks granted preferences down by rank.
type VacationSatisfaction struct {
	Requested    int     `json:"requested"`
	Rank1Granted int     `json:"rank1_granted"`
	Rank2Granted int     `json:"rank2_granted"`
	Rank3Granted int     `json:"rank3_granted"`
	GrantedRate  float64 `json:"granted_rate"`
}

// Metrics aggregates the run's quality signals.
type Metrics struct {
	TotalInstances  int                       `json:"total_instances"`
	Assigned        int                       `json:"assigned"`
	GapCount        int                       `json:"gap_count"`
	CoveragePercent float64                   `json:"coverage_percent"`
	Workload        models.WorkloadStatistics `json:"workload"`
	Vacation        VacationSatisfaction      `json:"vacation"`
}

// Input is the full context snapshot a run operates on. The engine never
// touches storage; the orchestrating service loads and persists.
type Input struct {
	OrganizationID string
	Year           int
	Month          int
	ShiftTypes     []models.ShiftTypeDefinition
	Staff          []models.StaffProfile
	Instances      []models.ShiftInstance
	Preferences    []models.VacationPreference
	// Existing holds the period's pre-existing assignments. MANUAL and
	// SWAPPED rows are kept and block their days; GENERATED rows are
	// superseded by this run.
	Existing    []models.AssignmentRecord
	PriorLedger []models.FairnessScore
}

// Options tunes a run. Zero values fall back to the published defaults.
type Options struct {
	Seed                int64
	FairnessWeight      float64
	JitterAmplitude     float64
	SelectionPoolSize   int
	WorkdaysPerMonth    int
	VacationWeeklyQuota float64
	CoverageWarnBelow   float64
	WorkloadCVWarnAbove float64
	// Now supplies record timestamps; injectable for reproducible tests.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.SelectionPoolSize <= 0 {
		o.SelectionPoolSize = 3
	}
	if o.WorkdaysPerMonth <= 0 {
		o.WorkdaysPerMonth = 22
	}
	if o.VacationWeeklyQuota <= 0 {
		o.VacationWeeklyQuota = 0.3
	}
	if o.CoverageWarnBelow <= 0 {
		o.CoverageWarnBelow = 0.95
	}
	if o.WorkloadCVWarnAbove <= 0 {
		o.WorkloadCVWarnAbove = 0.25
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Output is everything a run produced. The service persists assignments,
// ledger rows and vacation status updates atomically.
type Output struct {
	Assignments     []models.AssignmentRecord
	Gaps            []Gap
	Ledger          []models.FairnessScore
	VacationUpdates []models.VacationPreference
	AwardedByStaff  map[string]string
	Metrics         Metrics
	Audit           []AuditEntry
	Recommendations []string
	Warnings        []string
}

// runState is the live per-run view backing the Snapshot interface.
// Assignments made earlier in the run shape later eligibility checks.
type runState struct {
	dailyAssigned    map[string]map[string]bool
	blocks           map[string][]models.DateRange
	ledger           *Ledger
	workdaysPerMonth int
}

func (s *runState) AssignedOn(staffID string, date time.Time) bool {
	return s.dailyAssigned[staffID][date.Format("2006-01-02")]
}

func (s *runState) AssignmentCount(staffID string) int {
	return s.ledger.Count(staffID)
}

func (s *runState) VacationBlocks(staffID string) []models.DateRange {
	return s.blocks[staffID]
}

func (s *runState) WorkdaysPerMonth() int {
	return s.workdaysPerMonth
}

func (s *runState) mark(staffID string, date time.Time) {
	if s.dailyAssigned[staffID] == nil {
		s.dailyAssigned[staffID] = make(map[string]bool)
	}
	s.dailyAssigned[staffID][date.Format("2006-01-02")] = true
}

// Generator runs the difficulty-ordered, constraint-scored assignment
// loop for one period. One Generator per run; not safe for reuse.
type Generator struct {
	opts  Options
	rng   *Rand
	eval  *Evaluator
	audit []AuditEntry
	phase Phase
}

// NewGenerator builds a run with the given options.
func NewGenerator(opts Options) *Generator {
	opts = opts.withDefaults()
	rng := NewRand(opts.Seed)
	return &Generator{
		opts:  opts,
		rng:   rng,
		eval:  NewEvaluator(opts.FairnessWeight, opts.JitterAmplitude, rng),
		phase: PhaseInitialized,
	}
}

// Run executes the assignment pipeline over the input snapshot. The only
// returned error is an invalid context; missing candidates degrade
// coverage instead of failing. A successful run stops at VALIDATING;
// MarkPersisted closes the trail once the output is durable.
func (g *Generator) Run(input Input) (*Output, error) {
	g.transition(PhaseInitialized, "run_started", AuditDetail{Note: fmt.Sprintf("%s %04d-%02d", input.OrganizationID, input.Year, input.Month)})

	if input.OrganizationID == "" || len(input.Staff) == 0 {
		g.transition(PhaseFailed, "context_invalid", AuditDetail{Note: "no staff loaded"})
		return nil, fmt.Errorf("%w: organization %q has no schedulable staff", ErrInvalidContext, input.OrganizationID)
	}

	shiftTypes := make(map[string]models.ShiftTypeDefinition, len(input.ShiftTypes))
	for _, t := range input.ShiftTypes {
		shiftTypes[t.ID] = t
	}
	instancesByID := make(map[string]models.ShiftInstance, len(input.Instances))
	for _, inst := range input.Instances {
		if _, ok := shiftTypes[inst.ShiftTypeID]; !ok {
			g.transition(PhaseFailed, "context_invalid", AuditDetail{ShiftInstanceID: inst.ID, Note: "unknown shift type"})
			return nil, fmt.Errorf("%w: instance %s references unknown shift type %s", ErrInvalidContext, inst.ID, inst.ShiftTypeID)
		}
		instancesByID[inst.ID] = inst
	}

	ledger := NewLedger(input.OrganizationID, input.Year, input.Month, input.Staff, len(input.Instances), input.PriorLedger)
	state := &runState{
		dailyAssigned:    make(map[string]map[string]bool),
		ledger:           ledger,
		workdaysPerMonth: g.opts.WorkdaysPerMonth,
	}

	// Manual and swapped assignments survive regeneration and block days.
	kept := make(map[string]bool)
	for _, a := range input.Existing {
		if a.Type == models.AssignmentGenerated {
			continue
		}
		if inst, ok := instancesByID[a.ShiftInstanceID]; ok {
			state.mark(a.StaffID, inst.Date)
			ledger.RecordAssignment(a.StaffID, a.Score)
			kept[a.ShiftInstanceID] = true
		}
	}

	// Resolve vacations against a single debt snapshot taken now.
	debtSnapshot := make(map[string]float64, len(input.Staff))
	for _, s := range input.Staff {
		debtSnapshot[s.ID] = ledger.Debt(s.ID)
	}
	vacations := ResolveVacations(input.Preferences, len(input.Staff), g.opts.VacationWeeklyQuota, func(staffID string) float64 {
		return debtSnapshot[staffID]
	})
	state.blocks = vacations.Blocks
	for _, update := range vacations.StatusUpdates {
		if update.Status == models.VacationApproved {
			ledger.GrantVacation(update.StaffID, update.Rank)
		}
	}
	g.transition(PhaseContextLoaded, "context_loaded", AuditDetail{
		Note:       fmt.Sprintf("%d instances, %d staff, %d preferences", len(input.Instances), len(input.Staff), len(input.Preferences)),
		Candidates: len(input.Staff),
	})

	ranked := RankByDifficulty(input.Instances, shiftTypes, input.Staff, state)
	g.transition(PhaseAssigning, "instances_ranked", AuditDetail{Candidates: len(ranked)})

	output := &Output{
		AwardedByStaff:  vacations.AwardedByStaff,
		VacationUpdates: vacations.StatusUpdates,
	}

	for _, item := range ranked {
		inst := item.Instance
		if kept[inst.ID] {
			continue
		}
		shiftType := shiftTypes[inst.ShiftTypeID]

		record, gap := g.assignOne(inst, shiftType, input.Staff, state)
		if gap != nil {
			output.Gaps = append(output.Gaps, *gap)
			continue
		}
		record.OrganizationID = input.OrganizationID
		output.Assignments = append(output.Assignments, *record)
		state.mark(record.StaffID, inst.Date)
		ledger.RecordAssignment(record.StaffID, record.Score)
	}

	g.transition(PhaseValidating, "assignment_loop_done", AuditDetail{Candidates: len(output.Assignments)})
	g.finalize(input, output, ledger)
	return output, nil
}

// assignOne narrows, scores and selects a candidate for one instance.
func (g *Generator) assignOne(
	inst models.ShiftInstance,
	shiftType models.ShiftTypeDefinition,
	staff []models.StaffProfile,
	state *runState,
) (*models.AssignmentRecord, *Gap) {
	type scored struct {
		staff   models.StaffProfile
		score   float64
		results []ConstraintResult
	}

	cohort := state.ledger.Cohort()
	var pool []scored
	for _, s := range staff {
		if violation := CheckEligibility(s, inst, shiftType, state); violation != nil {
			g.record("candidate_excluded", AuditDetail{
				StaffID:         s.ID,
				ShiftInstanceID: inst.ID,
				ShiftCode:       shiftType.Code,
				Constraint:      string(violation.Constraint),
			})
			continue
		}
		results, score := g.eval.Evaluate(s, shiftType, state.ledger.Count(s.ID), cohort)
		pool = append(pool, scored{staff: s, score: score, results: results})
	}

	if len(pool) == 0 {
		g.record("coverage_gap", AuditDetail{ShiftInstanceID: inst.ID, ShiftCode: shiftType.Code, Note: "no eligible candidate"})
		return nil, &Gap{
			ShiftInstanceID: inst.ID,
			ShiftCode:       shiftType.Code,
			Date:            inst.Date,
			Reason:          "no eligible candidate after hard constraints",
		}
	}

	// Stable ordering before the draw keeps runs reproducible.
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].score == pool[j].score {
			return pool[i].staff.ID < pool[j].staff.ID
		}
		return pool[i].score > pool[j].score
	})

	top := pool
	if len(top) > g.opts.SelectionPoolSize {
		top = top[:g.opts.SelectionPoolSize]
	}

	// Weighted random among the near-optimal pool: unpredictable for any
	// single actor, reproducible for a fixed seed.
	weights := make([]float64, len(top))
	for i, c := range top {
		weights[i] = c.score
		if weights[i] < 1 {
			weights[i] = 1
		}
	}
	chosen := top[g.rng.WeightedIndex(weights)]

	satisfied := make([]string, 0, len(chosen.results))
	for _, res := range chosen.results {
		if res.Satisfied {
			satisfied = append(satisfied, string(res.ID))
		}
	}

	record := &models.AssignmentRecord{
		ID:              uuid.NewString(),
		ShiftInstanceID: inst.ID,
		StaffID:         chosen.staff.ID,
		Type:            models.AssignmentGenerated,
		Score:           chosen.score,
		Satisfied:       satisfied,
		CreatedAt:       g.opts.Now().UTC(),
	}
	g.record("assignment_made", AuditDetail{
		StaffID:         chosen.staff.ID,
		ShiftInstanceID: inst.ID,
		ShiftCode:       shiftType.Code,
		Score:           chosen.score,
		Candidates:      len(pool),
	})
	return record, nil
}

func (g *Generator) finalize(input Input, output *Output, ledger *Ledger) {
	total := len(input.Instances)
	assigned := total - len(output.Gaps)

	var coverage float64
	if total > 0 {
		coverage = float64(assigned) / float64(total)
	}

	staffWithPrefs := make(map[string]bool)
	rankGranted := [4]int{}
	for _, p := range input.Preferences {
		staffWithPrefs[p.StaffID] = true
	}
	for _, prefID := range output.AwardedByStaff {
		for _, p := range input.Preferences {
			if p.ID == prefID && p.Rank >= 1 && p.Rank <= 3 {
				rankGranted[p.Rank]++
			}
		}
	}
	var grantedRate float64
	if len(staffWithPrefs) > 0 {
		grantedRate = float64(len(output.AwardedByStaff)) / float64(len(staffWithPrefs))
	}

	output.Ledger = ledger.Snapshot(g.opts.Now().UTC())
	output.Metrics = Metrics{
		TotalInstances:  total,
		Assigned:        assigned,
		GapCount:        len(output.Gaps),
		CoveragePercent: coverage * 100,
		Workload:        ComputeWorkloadStatistics(ledger.Counts()),
		Vacation: VacationSatisfaction{
			Requested:    len(staffWithPrefs),
			Rank1Granted: rankGranted[1],
			Rank2Granted: rankGranted[2],
			Rank3Granted: rankGranted[3],
			GrantedRate:  grantedRate,
		},
	}

	if coverage < g.opts.CoverageWarnBelow {
		output.Warnings = append(output.Warnings, fmt.Sprintf("coverage is %.1f%%, below the %.0f%% threshold", coverage*100, g.opts.CoverageWarnBelow*100))
		output.Recommendations = append(output.Recommendations, g.coverageRecommendation(input, output))
	}
	if cv := output.Metrics.Workload.CoefficientOfVariation; cv > g.opts.WorkloadCVWarnAbove {
		output.Warnings = append(output.Warnings, fmt.Sprintf("workload coefficient of variation %.2f exceeds %.2f", cv, g.opts.WorkloadCVWarnAbove))
		output.Recommendations = append(output.Recommendations, "workload is uneven; review FTE targets and shift recurrence masks")
	}

	output.Audit = g.audit
}

// MarkPersisted records the transactional write and completes the run.
// The orchestrator calls it after a successful commit, so the audit trail
// never claims completion before the roster is durable.
func (g *Generator) MarkPersisted(output *Output) {
	g.transition(PhasePersisted, "output_persisted", AuditDetail{Candidates: len(output.Assignments)})
	g.transition(PhaseCompleted, "run_completed", AuditDetail{
		Candidates: output.Metrics.Assigned,
		Note:       fmt.Sprintf("coverage %.1f%%", output.Metrics.CoveragePercent),
	})
	output.Audit = g.audit
}

// coverageRecommendation names the subspecialties behind the gaps so the
// warning is actionable.
func (g *Generator) coverageRecommendation(input Input, output *Output) string {
	typeByID := make(map[string]models.ShiftTypeDefinition)
	for _, t := range input.ShiftTypes {
		typeByID[t.ID] = t
	}
	instByID := make(map[string]models.ShiftInstance)
	for _, inst := range input.Instances {
		instByID[inst.ID] = inst
	}

	short := make(map[string]int)
	for _, gap := range output.Gaps {
		if inst, ok := instByID[gap.ShiftInstanceID]; ok {
			if t, ok := typeByID[inst.ShiftTypeID]; ok && t.RequiredSubspecialty != "" {
				short[t.RequiredSubspecialty]++
			}
		}
	}
	if len(short) == 0 {
		return "coverage is incomplete; consider reviewing eligibility rules or adding staff"
	}

	worst, worstCount := "", 0
	for sub, count := range short {
		if count > worstCount || (count == worstCount && sub < worst) {
			worst, worstCount = sub, count
		}
	}
	return fmt.Sprintf("coverage is incomplete; subspecialty %s is under-covered (%d unfilled shifts)", worst, worstCount)
}

func (g *Generator) transition(phase Phase, action string, detail AuditDetail) {
	g.phase = phase
	g.record(action, detail)
}

func (g *Generator) record(action string, detail AuditDetail) {
	g.audit = append(g.audit, AuditEntry{
		Timestamp: g.opts.Now().UTC(),
		Phase:     g.phase,
		Action:    action,
		Detail:    detail,
	})
}

// Phase exposes the current run phase.
func (g *Generator) Phase() Phase {
	return g.phase
}
