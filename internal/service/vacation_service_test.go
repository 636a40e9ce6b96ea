package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radmosaic/rostergen-api/internal/dto"
	"github.com/radmosaic/rostergen-api/internal/models"
	appErrors "github.com/radmosaic/rostergen-api/pkg/errors"
)

func newVacationFixture(insertErr error) (*VacationService, *prefRepoStub) {
	prefs := &prefRepoStub{insertErr: insertErr}
	staff := staffFinderStub{items: map[string]*models.StaffProfile{
		"s-1": {ID: "s-1", OrganizationID: "org-1", Email: "ana@rad.example", FTEPercent: 100, Active: true},
		"s-2": {ID: "s-2", OrganizationID: "org-1", Email: "bo@rad.example", FTEPercent: 100, Active: false},
	}}
	return NewVacationService(prefs, staff, validator.New(), zap.NewNop()), prefs
}

func validSubmitRequest() dto.SubmitVacationRequest {
	return dto.SubmitVacationRequest{
		StaffID:   "s-1",
		Year:      2026,
		Month:     9,
		Rank:      1,
		WeekStart: "2026-09-07",
		WeekEnd:   "2026-09-13",
	}
}

func TestVacationServiceSubmit(t *testing.T) {
	service, prefs := newVacationFixture(nil)

	pref, err := service.Submit(context.Background(), validSubmitRequest())
	require.NoError(t, err)

	assert.Equal(t, "org-1", pref.OrganizationID)
	assert.Equal(t, "s-1", pref.StaffID)
	assert.Equal(t, models.VacationPending, pref.Status)
	assert.Equal(t, 1, pref.Rank)
	require.NotNil(t, prefs.inserted)
	assert.Equal(t, "2026-09-07", prefs.inserted.WeekStart.Format("2006-01-02"))
}

func TestVacationServiceSubmitUnknownStaff(t *testing.T) {
	service, _ := newVacationFixture(nil)

	req := validSubmitRequest()
	req.StaffID = "ghost"
	_, err := service.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestVacationServiceSubmitInactiveStaff(t *testing.T) {
	service, _ := newVacationFixture(nil)

	req := validSubmitRequest()
	req.StaffID = "s-2"
	_, err := service.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestVacationServiceSubmitDuplicateRank(t *testing.T) {
	service, _ := newVacationFixture(&pq.Error{Code: "23505"})

	_, err := service.Submit(context.Background(), validSubmitRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "rank 1")
}

func TestVacationServiceSubmitWeekOutsidePeriod(t *testing.T) {
	service, _ := newVacationFixture(nil)

	req := validSubmitRequest()
	req.WeekStart = "2026-10-05"
	req.WeekEnd = "2026-10-11"
	_, err := service.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestVacationServiceSubmitStraddlingWeekAccepted(t *testing.T) {
	service, _ := newVacationFixture(nil)

	// The week runs into October but touches September.
	req := validSubmitRequest()
	req.WeekStart = "2026-09-28"
	req.WeekEnd = "2026-10-04"
	_, err := service.Submit(context.Background(), req)
	require.NoError(t, err)
}

func TestVacationServiceSubmitReversedWeek(t *testing.T) {
	service, _ := newVacationFixture(nil)

	req := validSubmitRequest()
	req.WeekStart = "2026-09-13"
	req.WeekEnd = "2026-09-07"
	_, err := service.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestVacationServiceSubmitRejectsRankFour(t *testing.T) {
	service, _ := newVacationFixture(nil)

	req := validSubmitRequest()
	req.Rank = 4
	_, err := service.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestVacationServiceList(t *testing.T) {
	service, prefs := newVacationFixture(nil)
	prefs.items = []models.VacationPreference{{ID: "p-1", StaffID: "s-1", Rank: 1}}

	listed, err := service.List(context.Background(), dto.PeriodQuery{OrganizationID: "org-1", Year: 2026, Month: 9})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestVacationServiceListValidatesQuery(t *testing.T) {
	service, _ := newVacationFixture(nil)

	_, err := service.List(context.Background(), dto.PeriodQuery{Year: 2026, Month: 9})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

// --- Fixtures ---

type staffFinderStub struct {
	items map[string]*models.StaffProfile
}

func (s staffFinderStub) FindByID(ctx context.Context, id string) (*models.StaffProfile, error) {
	if staff, ok := s.items[id]; ok {
		return staff, nil
	}
	return nil, sql.ErrNoRows
}

type prefRepoStub struct {
	items     []models.VacationPreference
	inserted  *models.VacationPreference
	insertErr error
}

func (s *prefRepoStub) ListByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.VacationPreference, error) {
	return s.items, nil
}

func (s *prefRepoStub) Insert(ctx context.Context, pref *models.VacationPreference) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = pref
	return nil
}
