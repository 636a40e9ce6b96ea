package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/radmosaic/rostergen-api/internal/dto"
	"github.com/radmosaic/rostergen-api/internal/engine"
	"github.com/radmosaic/rostergen-api/internal/models"
	appErrors "github.com/radmosaic/rostergen-api/pkg/errors"
)

type generationStaffReader interface {
	ListByOrganization(ctx context.Context, organizationID string) ([]models.StaffProfile, error)
}

type generationShiftTypeReader interface {
	ListByOrganization(ctx context.Context, organizationID string) ([]models.ShiftTypeDefinition, error)
}

type shiftInstanceMaterializer interface {
	MaterializeMonth(ctx context.Context, organizationID string, year, month int, types []models.ShiftTypeDefinition) ([]models.ShiftInstance, error)
}

type vacationPreferenceStore interface {
	ListByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.VacationPreference, error)
	ApplyAwards(ctx context.Context, exec sqlx.ExtContext, organizationID string, year, month int, awardedByStaff map[string]string) error
}

type assignmentStore interface {
	ListByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.AssignmentRecord, error)
	ReplaceGenerated(ctx context.Context, exec sqlx.ExtContext, organizationID string, year, month int, records []models.AssignmentRecord) error
}

type fairnessLedgerStore interface {
	Latest(ctx context.Context, organizationID string) ([]models.FairnessScore, error)
	UpsertBatch(ctx context.Context, exec sqlx.ExtContext, rows []models.FairnessScore) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type resultCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// GenerationConfig tunes the generation pipeline.
type GenerationConfig struct {
	FairnessWeight      float64
	JitterAmplitude     float64
	SelectionPoolSize   int
	WorkdaysPerMonth    int
	VacationWeeklyQuota float64
	CoverageWarnBelow   float64
	WorkloadCVWarnAbove float64
	ResultCacheTTL      time.Duration
}

// GenerationService orchestrates schedule generation: it loads the
// period context, runs the engine and persists the outcome atomically.
type GenerationService struct {
	staff       generationStaffReader
	shiftTypes  generationShiftTypeReader
	instances   shiftInstanceMaterializer
	prefs       vacationPreferenceStore
	assignments assignmentStore
	ledger      fairnessLedgerStore
	tx          txProvider
	cache       resultCache
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         GenerationConfig
	locks       *periodLock
	now         func() time.Time
}

// NewGenerationService wires generation dependencies.
func NewGenerationService(
	staff generationStaffReader,
	shiftTypes generationShiftTypeReader,
	instances shiftInstanceMaterializer,
	prefs vacationPreferenceStore,
	assignments assignmentStore,
	ledger fairnessLedgerStore,
	tx txProvider,
	cache resultCache,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg GenerationConfig,
) *GenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultCacheTTL <= 0 {
		cfg.ResultCacheTTL = time.Hour
	}
	return &GenerationService{
		staff:       staff,
		shiftTypes:  shiftTypes,
		instances:   instances,
		prefs:       prefs,
		assignments: assignments,
		ledger:      ledger,
		tx:          tx,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
		locks:       newPeriodLock(),
		now:         time.Now,
	}
}

// Generate runs generation for one organization-month. Concurrent calls
// for the same period join the in-flight run; the boolean reports
// whether this caller joined one.
func (s *GenerationService) Generate(ctx context.Context, req dto.GenerationRequest) (*dto.GenerationResult, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}
	key := periodKey(req.OrganizationID, req.Year, req.Month)
	return s.locks.Do(ctx, key, func() (*dto.GenerationResult, error) {
		return s.run(ctx, req)
	})
}

// Result returns the cached outcome of the period's most recent run.
func (s *GenerationService) Result(ctx context.Context, query dto.PeriodQuery) (*dto.GenerationResult, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period query")
	}
	if s.cache == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no generation result available for this period")
	}

	var result dto.GenerationResult
	start := s.now()
	err := s.cache.Get(ctx, resultCacheKey(query.OrganizationID, query.Year, query.Month), &result)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no generation result available for this period")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read generation result")
	}
	return &result, nil
}

func (s *GenerationService) run(ctx context.Context, req dto.GenerationRequest) (*dto.GenerationResult, error) {
	started := s.now()

	seed := started.UnixNano()
	seedGenerated := true
	if req.Seed != nil {
		seed = *req.Seed
		seedGenerated = false
	}

	input, err := s.loadContext(ctx, req)
	if err != nil {
		s.metrics.RecordGenerationRun(false, time.Since(started))
		return nil, err
	}

	opts := engine.Options{
		Seed:                seed,
		FairnessWeight:      floatOr(req.FairnessWeight, s.cfg.FairnessWeight),
		JitterAmplitude:     s.cfg.JitterAmplitude,
		SelectionPoolSize:   s.cfg.SelectionPoolSize,
		WorkdaysPerMonth:    s.cfg.WorkdaysPerMonth,
		VacationWeeklyQuota: s.cfg.VacationWeeklyQuota,
		CoverageWarnBelow:   s.cfg.CoverageWarnBelow,
		WorkloadCVWarnAbove: s.cfg.WorkloadCVWarnAbove,
		Now:                 s.now,
	}

	gen := engine.NewGenerator(opts)
	out, err := gen.Run(*input)
	if err != nil {
		s.metrics.RecordGenerationRun(false, time.Since(started))
		if errors.Is(err, engine.ErrInvalidContext) {
			return nil, appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, err.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generation run failed")
	}

	if err := s.persist(ctx, req, out); err != nil {
		s.metrics.RecordGenerationRun(false, time.Since(started))
		return nil, err
	}
	gen.MarkPersisted(out)

	s.metrics.RecordGenerationRun(true, time.Since(started))
	s.metrics.SetCoverage(req.OrganizationID, out.Metrics.CoveragePercent, out.Metrics.GapCount)

	result := &dto.GenerationResult{
		Success:         true,
		OrganizationID:  req.OrganizationID,
		Year:            req.Year,
		Month:           req.Month,
		Seed:            seed,
		SeedGenerated:   seedGenerated,
		Assignments:     out.Assignments,
		Gaps:            out.Gaps,
		Metrics:         out.Metrics,
		Audit:           out.Audit,
		Recommendations: out.Recommendations,
		Warnings:        out.Warnings,
		GeneratedAt:     s.now().UTC(),
	}

	if s.cache != nil {
		cacheKey := resultCacheKey(req.OrganizationID, req.Year, req.Month)
		if err := s.cache.Set(ctx, cacheKey, result, s.cfg.ResultCacheTTL); err != nil {
			s.logger.Warn("failed to cache generation result", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	s.logger.Info("generation run completed",
		zap.String("organization", req.OrganizationID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int64("seed", seed),
		zap.Float64("coverage", out.Metrics.CoveragePercent),
		zap.Int("gaps", out.Metrics.GapCount),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func (s *GenerationService) loadContext(ctx context.Context, req dto.GenerationRequest) (*engine.Input, error) {
	staff, err := s.staff.ListByOrganization(ctx, req.OrganizationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff roster")
	}
	if len(staff) == 0 {
		return nil, appErrors.Clone(appErrors.ErrDataIntegrity, fmt.Sprintf("organization %s has no schedulable staff", req.OrganizationID))
	}

	shiftTypes, err := s.shiftTypes.ListByOrganization(ctx, req.OrganizationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift types")
	}
	if len(shiftTypes) == 0 {
		return nil, appErrors.Clone(appErrors.ErrDataIntegrity, fmt.Sprintf("organization %s has no shift types configured", req.OrganizationID))
	}

	instances, err := s.instances.MaterializeMonth(ctx, req.OrganizationID, req.Year, req.Month, shiftTypes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to materialize shift instances")
	}

	prefs, err := s.prefs.ListByPeriod(ctx, req.OrganizationID, req.Year, req.Month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vacation preferences")
	}

	existing, err := s.assignments.ListByPeriod(ctx, req.OrganizationID, req.Year, req.Month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing assignments")
	}

	prior, err := s.ledger.Latest(ctx, req.OrganizationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fairness ledger")
	}

	return &engine.Input{
		OrganizationID: req.OrganizationID,
		Year:           req.Year,
		Month:          req.Month,
		ShiftTypes:     shiftTypes,
		Staff:          staff,
		Instances:      instances,
		Preferences:    prefs,
		Existing:       existing,
		PriorLedger:    prior,
	}, nil
}

// persist writes assignments, vacation awards and the ledger snapshot in
// one transaction. A failed commit leaves the previous roster intact.
func (s *GenerationService) persist(ctx context.Context, req dto.GenerationRequest, out *engine.Output) error {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrPersistence, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.assignments.ReplaceGenerated(ctx, tx, req.OrganizationID, req.Year, req.Month, out.Assignments); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist assignments")
		return err
	}

	if len(out.VacationUpdates) > 0 {
		if err = s.prefs.ApplyAwards(ctx, tx, req.OrganizationID, req.Year, req.Month, out.AwardedByStaff); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist vacation awards")
			return err
		}
	}

	if err = s.ledger.UpsertBatch(ctx, tx, out.Ledger); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist fairness ledger")
		return err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to commit generation output")
		return err
	}
	return nil
}

func periodKey(organizationID string, year, month int) string {
	return fmt.Sprintf("%s:%04d-%02d", organizationID, year, month)
}

func resultCacheKey(organizationID string, year, month int) string {
	return "rostergen:result:" + periodKey(organizationID, year, month)
}

func floatOr(value, fallback float64) float64 {
	if value > 0 {
		return value
	}
	return fallback
}
