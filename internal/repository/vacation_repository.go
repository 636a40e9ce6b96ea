package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// VacationPreferenceRepository persists ranked vacation requests.
type VacationPreferenceRepository struct {
	db *sqlx.DB
}

// NewVacationPreferenceRepository constructs the repository.
func NewVacationPreferenceRepository(db *sqlx.DB) *VacationPreferenceRepository {
	return &VacationPreferenceRepository{db: db}
}

// ListByPeriod returns all preferences for an organization-month.
func (r *VacationPreferenceRepository) ListByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.VacationPreference, error) {
	const query = `SELECT id, organization_id, staff_id, year, month, rank, week_start, week_end, status, created_at, updated_at
		FROM vacation_preferences WHERE organization_id = $1 AND year = $2 AND month = $3 ORDER BY staff_id, rank`
	var prefs []models.VacationPreference
	if err := r.db.SelectContext(ctx, &prefs, query, organizationID, year, month); err != nil {
		return nil, fmt.Errorf("list vacation preferences: %w", err)
	}
	return prefs, nil
}

// Insert stores a new preference. The unique key on
// (staff_id, year, month, rank) rejects duplicate ranks.
func (r *VacationPreferenceRepository) Insert(ctx context.Context, pref *models.VacationPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	pref.CreatedAt = now
	pref.UpdatedAt = now
	if pref.Status == "" {
		pref.Status = models.VacationPending
	}

	const query = `INSERT INTO vacation_preferences (id, organization_id, staff_id, year, month, rank, week_start, week_end, status, created_at, updated_at)
		VALUES (:id, :organization_id, :staff_id, :year, :month, :rank, :week_start, :week_end, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("insert vacation preference: %w", err)
	}
	return nil
}

// ApplyAwards rewrites preference statuses for the period inside the
// caller's transaction: every pending row is rejected, then the one
// awarded preference per staff is approved.
func (r *VacationPreferenceRepository) ApplyAwards(
	ctx context.Context,
	exec sqlx.ExtContext,
	organizationID string,
	year, month int,
	awardedByStaff map[string]string,
) error {
	const rejectAll = `UPDATE vacation_preferences SET status = 'REJECTED', updated_at = $1
		WHERE organization_id = $2 AND year = $3 AND month = $4 AND status = 'PENDING'`
	now := time.Now().UTC()
	if _, err := exec.ExecContext(ctx, rejectAll, now, organizationID, year, month); err != nil {
		return fmt.Errorf("reject pending preferences: %w", err)
	}

	const approve = `UPDATE vacation_preferences SET status = 'APPROVED', updated_at = $1 WHERE id = $2`
	for _, prefID := range sortedValues(awardedByStaff) {
		if _, err := exec.ExecContext(ctx, approve, now, prefID); err != nil {
			return fmt.Errorf("approve awarded preference: %w", err)
		}
	}
	return nil
}
