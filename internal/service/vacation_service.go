package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/radmosaic/rostergen-api/internal/dto"
	"github.com/radmosaic/rostergen-api/internal/models"
	appErrors "github.com/radmosaic/rostergen-api/pkg/errors"
)

type vacationStaffFinder interface {
	FindByID(ctx context.Context, id string) (*models.StaffProfile, error)
}

type vacationPreferenceRepository interface {
	ListByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.VacationPreference, error)
	Insert(ctx context.Context, pref *models.VacationPreference) error
}

// VacationService files and lists ranked vacation preferences. Award
// decisions are made exclusively by the generation run.
type VacationService struct {
	prefs     vacationPreferenceRepository
	staff     vacationStaffFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVacationService wires vacation dependencies.
func NewVacationService(prefs vacationPreferenceRepository, staff vacationStaffFinder, validate *validator.Validate, logger *zap.Logger) *VacationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VacationService{prefs: prefs, staff: staff, validator: validate, logger: logger}
}

// Submit files one ranked week-off request. Requests enter as PENDING and
// stay that way until a generation run resolves the period.
func (s *VacationService) Submit(ctx context.Context, req dto.SubmitVacationRequest) (*models.VacationPreference, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vacation request payload")
	}

	weekStart, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "week_start must be an ISO date")
	}
	weekEnd, err := time.Parse("2006-01-02", req.WeekEnd)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "week_end must be an ISO date")
	}
	if weekEnd.Before(weekStart) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "week_end must not precede week_start")
	}
	if !touchesPeriod(weekStart, weekEnd, req.Year, req.Month) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("requested week does not overlap %04d-%02d", req.Year, req.Month))
	}

	staff, err := s.staff.FindByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	if !staff.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "inactive staff cannot file vacation preferences")
	}

	pref := &models.VacationPreference{
		OrganizationID: staff.OrganizationID,
		StaffID:        staff.ID,
		Year:           req.Year,
		Month:          req.Month,
		Rank:           req.Rank,
		WeekStart:      weekStart,
		WeekEnd:        weekEnd,
		Status:         models.VacationPending,
	}

	if err := s.prefs.Insert(ctx, pref); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("a rank %d preference is already filed for this period", req.Rank))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store vacation preference")
	}

	s.logger.Info("vacation preference filed",
		zap.String("staff", staff.ID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("rank", req.Rank),
	)
	return pref, nil
}

// List returns the period's preferences with their current statuses.
func (s *VacationService) List(ctx context.Context, query dto.PeriodQuery) ([]models.VacationPreference, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period query")
	}
	prefs, err := s.prefs.ListByPeriod(ctx, query.OrganizationID, query.Year, query.Month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list vacation preferences")
	}
	return prefs, nil
}

// touchesPeriod reports whether the inclusive week overlaps the target
// month. Weeks straddling a month boundary count for either month.
func touchesPeriod(weekStart, weekEnd time.Time, year, month int) bool {
	periodStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, -1)
	return !weekEnd.Before(periodStart) && !weekStart.After(periodEnd)
}
