package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radmosaic/rostergen-api/internal/dto"
	"github.com/radmosaic/rostergen-api/internal/models"
	appErrors "github.com/radmosaic/rostergen-api/pkg/errors"
)

func newRosterFixture(details []models.AssignmentDetail, instances []models.ShiftInstance, types []models.ShiftTypeDefinition) *RosterService {
	return NewRosterService(
		detailReaderStub{items: details},
		instanceMaterializerStub{items: instances},
		shiftTypeReaderStub{items: types},
		ledgerReaderStub{items: []models.FairnessScore{{StaffID: "s-1"}}},
		validator.New(),
		zap.NewNop(),
	)
}

func rosterPeriod() dto.PeriodQuery {
	return dto.PeriodQuery{OrganizationID: "org-1", Year: 2026, Month: 9}
}

func TestRosterServiceRosterCoverage(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	details := []models.AssignmentDetail{{
		AssignmentRecord: models.AssignmentRecord{ID: "a-1", ShiftInstanceID: "inst-1", StaffID: "s-1"},
		ShiftCode:        "XR",
		Date:             date,
	}}
	instances := []models.ShiftInstance{
		{ID: "inst-1", Date: date},
		{ID: "inst-2", Date: date},
	}

	view, err := newRosterFixture(details, instances, nil).Roster(context.Background(), rosterPeriod())
	require.NoError(t, err)

	assert.Len(t, view.Assignments, 1)
	require.Len(t, view.Unassigned, 1)
	assert.Equal(t, "inst-2", view.Unassigned[0].ID)
	assert.InDelta(t, 50.0, view.CoveragePercent, 1e-9)
}

func TestRosterServiceRosterEmptyPeriod(t *testing.T) {
	view, err := newRosterFixture(nil, nil, nil).Roster(context.Background(), rosterPeriod())
	require.NoError(t, err)
	assert.Zero(t, view.CoveragePercent)
	assert.Empty(t, view.Unassigned)
}

func TestRosterServiceMaterialize(t *testing.T) {
	instances := []models.ShiftInstance{{ID: "inst-1"}}
	types := []models.ShiftTypeDefinition{{ID: "st-1", Code: "XR"}}

	created, err := newRosterFixture(nil, instances, types).Materialize(context.Background(), rosterPeriod())
	require.NoError(t, err)
	assert.Len(t, created, 1)
}

func TestRosterServiceMaterializeWithoutShiftTypes(t *testing.T) {
	_, err := newRosterFixture(nil, nil, nil).Materialize(context.Background(), rosterPeriod())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestRosterServiceLedger(t *testing.T) {
	rows, err := newRosterFixture(nil, nil, nil).Ledger(context.Background(), rosterPeriod())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "s-1", rows[0].StaffID)
}

func TestRosterServiceValidatesQuery(t *testing.T) {
	service := newRosterFixture(nil, nil, nil)

	_, err := service.Roster(context.Background(), dto.PeriodQuery{Year: 2026, Month: 13})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

// --- Fixtures ---

type detailReaderStub struct {
	items []models.AssignmentDetail
}

func (s detailReaderStub) ListDetailsByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.AssignmentDetail, error) {
	return s.items, nil
}

type ledgerReaderStub struct {
	items []models.FairnessScore
}

func (s ledgerReaderStub) ListByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.FairnessScore, error) {
	return s.items, nil
}
