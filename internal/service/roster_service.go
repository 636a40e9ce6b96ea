package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/radmosaic/rostergen-api/internal/dto"
	"github.com/radmosaic/rostergen-api/internal/models"
	appErrors "github.com/radmosaic/rostergen-api/pkg/errors"
)

type rosterAssignmentReader interface {
	ListDetailsByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.AssignmentDetail, error)
}

type rosterInstanceStore interface {
	ListByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.ShiftInstance, error)
	MaterializeMonth(ctx context.Context, organizationID string, year, month int, types []models.ShiftTypeDefinition) ([]models.ShiftInstance, error)
}

type rosterShiftTypeReader interface {
	ListByOrganization(ctx context.Context, organizationID string) ([]models.ShiftTypeDefinition, error)
}

type rosterLedgerReader interface {
	ListByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.FairnessScore, error)
}

// RosterService serves roster read models and shift materialization.
type RosterService struct {
	assignments rosterAssignmentReader
	instances   rosterInstanceStore
	shiftTypes  rosterShiftTypeReader
	ledger      rosterLedgerReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRosterService wires roster dependencies.
func NewRosterService(
	assignments rosterAssignmentReader,
	instances rosterInstanceStore,
	shiftTypes rosterShiftTypeReader,
	ledger rosterLedgerReader,
	validate *validator.Validate,
	logger *zap.Logger,
) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		assignments: assignments,
		instances:   instances,
		shiftTypes:  shiftTypes,
		ledger:      ledger,
		validator:   validate,
		logger:      logger,
	}
}

// Materialize creates the month's shift instances from the recurrence
// masks. Safe to repeat; existing instances are untouched.
func (s *RosterService) Materialize(ctx context.Context, query dto.PeriodQuery) ([]models.ShiftInstance, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period query")
	}

	types, err := s.shiftTypes.ListByOrganization(ctx, query.OrganizationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift types")
	}
	if len(types) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no shift types configured for this organization")
	}

	instances, err := s.instances.MaterializeMonth(ctx, query.OrganizationID, query.Year, query.Month, types)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to materialize shift instances")
	}

	s.logger.Info("shift instances materialized",
		zap.String("organization", query.OrganizationID),
		zap.Int("year", query.Year),
		zap.Int("month", query.Month),
		zap.Int("instances", len(instances)),
	)
	return instances, nil
}

// Roster returns the period's assignments joined with shift and staff
// fields, plus the instances still uncovered.
func (s *RosterService) Roster(ctx context.Context, query dto.PeriodQuery) (*dto.RosterView, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period query")
	}

	details, err := s.assignments.ListDetailsByPeriod(ctx, query.OrganizationID, query.Year, query.Month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	instances, err := s.instances.ListByPeriod(ctx, query.OrganizationID, query.Year, query.Month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shift instances")
	}

	covered := make(map[string]bool, len(details))
	for _, d := range details {
		covered[d.ShiftInstanceID] = true
	}
	unassigned := make([]models.ShiftInstance, 0)
	for _, inst := range instances {
		if !covered[inst.ID] {
			unassigned = append(unassigned, inst)
		}
	}

	var coverage float64
	if len(instances) > 0 {
		coverage = float64(len(instances)-len(unassigned)) / float64(len(instances)) * 100
	}

	return &dto.RosterView{
		OrganizationID:  query.OrganizationID,
		Year:            query.Year,
		Month:           query.Month,
		Assignments:     details,
		Unassigned:      unassigned,
		CoveragePercent: coverage,
	}, nil
}

// Ledger returns the period's fairness ledger snapshot.
func (s *RosterService) Ledger(ctx context.Context, query dto.PeriodQuery) ([]models.FairnessScore, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period query")
	}
	rows, err := s.ledger.ListByPeriod(ctx, query.OrganizationID, query.Year, query.Month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fairness ledger")
	}
	return rows, nil
}
