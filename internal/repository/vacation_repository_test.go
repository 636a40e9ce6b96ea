package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radmosaic/rostergen-api/internal/models"
)

func TestVacationPreferenceRepositoryInsertDefaults(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewVacationPreferenceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO vacation_preferences")).
		WithArgs(sqlmock.AnyArg(), "org-1", "s-1", 2026, 9, 1, sqlmock.AnyArg(), sqlmock.AnyArg(),
			string(models.VacationPending), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	pref := &models.VacationPreference{
		OrganizationID: "org-1",
		StaffID:        "s-1",
		Year:           2026,
		Month:          9,
		Rank:           1,
		WeekStart:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		WeekEnd:        time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Insert(context.Background(), pref))

	assert.NotEmpty(t, pref.ID)
	assert.Equal(t, models.VacationPending, pref.Status)
	assert.False(t, pref.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVacationPreferenceRepositoryListByPeriod(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewVacationPreferenceRepository(db)

	rows := sqlmock.NewRows([]string{"id", "organization_id", "staff_id", "year", "month", "rank", "week_start", "week_end", "status", "created_at", "updated_at"}).
		AddRow("p-1", "org-1", "s-1", 2026, 9, 1, time.Now(), time.Now(), "PENDING", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM vacation_preferences WHERE organization_id = $1 AND year = $2 AND month = $3 ORDER BY staff_id, rank")).
		WithArgs("org-1", 2026, 9).
		WillReturnRows(rows)

	prefs, err := repo.ListByPeriod(context.Background(), "org-1", 2026, 9)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, models.VacationPending, prefs[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVacationPreferenceRepositoryApplyAwards(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewVacationPreferenceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SET status = 'REJECTED'")).
		WithArgs(sqlmock.AnyArg(), "org-1", 2026, 9).
		WillReturnResult(sqlmock.NewResult(0, 4))

	// Approvals run in staff-id order regardless of map iteration.
	mock.ExpectExec(regexp.QuoteMeta("SET status = 'APPROVED'")).
		WithArgs(sqlmock.AnyArg(), "p-a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET status = 'APPROVED'")).
		WithArgs(sqlmock.AnyArg(), "p-b").
		WillReturnResult(sqlmock.NewResult(0, 1))

	awarded := map[string]string{"s-2": "p-b", "s-1": "p-a"}
	require.NoError(t, repo.ApplyAwards(context.Background(), db, "org-1", 2026, 9, awarded))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVacationPreferenceRepositoryApplyAwardsNoWinners(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewVacationPreferenceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SET status = 'REJECTED'")).
		WithArgs(sqlmock.AnyArg(), "org-1", 2026, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.ApplyAwards(context.Background(), db, "org-1", 2026, 9, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
