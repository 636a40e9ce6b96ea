package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// ShiftInstanceRepository materializes and lists concrete shift occurrences.
type ShiftInstanceRepository struct {
	db *sqlx.DB
}

// NewShiftInstanceRepository constructs the repository.
func NewShiftInstanceRepository(db *sqlx.DB) *ShiftInstanceRepository {
	return &ShiftInstanceRepository{db: db}
}

// ListByPeriod returns all instances for an organization-month.
func (r *ShiftInstanceRepository) ListByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.ShiftInstance, error) {
	start, end := periodRange(year, month)
	const query = `SELECT id, organization_id, shift_type_id, date, starts_at, ends_at, status, created_at
		FROM shift_instances WHERE organization_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date, shift_type_id`
	var instances []models.ShiftInstance
	if err := r.db.SelectContext(ctx, &instances, query, organizationID, start, end); err != nil {
		return nil, fmt.Errorf("list shift instances: %w", err)
	}
	return instances, nil
}

// MaterializeMonth creates one instance per (shift type, matching day)
// for the month and returns the full set. Idempotent: the unique key on
// (shift_type_id, date) makes repeat calls a no-op for existing rows.
func (r *ShiftInstanceRepository) MaterializeMonth(
	ctx context.Context,
	organizationID string,
	year, month int,
	types []models.ShiftTypeDefinition,
) ([]models.ShiftInstance, error) {
	const insert = `INSERT INTO shift_instances (id, organization_id, shift_type_id, date, starts_at, ends_at, status, created_at)
		VALUES (:id, :organization_id, :shift_type_id, :date, :starts_at, :ends_at, :status, :created_at)
		ON CONFLICT (shift_type_id, date) DO NOTHING`

	start, end := periodRange(year, month)
	now := time.Now().UTC()
	for _, t := range types {
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			if !t.RecursOn(day.Weekday()) {
				continue
			}
			startsAt, endsAt := resolveWindow(t, day)
			instance := models.ShiftInstance{
				ID:             uuid.NewString(),
				OrganizationID: organizationID,
				ShiftTypeID:    t.ID,
				Date:           day,
				StartsAt:       startsAt,
				EndsAt:         endsAt,
				Status:         models.ShiftInstanceDraft,
				CreatedAt:      now,
			}
			if _, err := r.db.NamedExecContext(ctx, insert, instance); err != nil {
				return nil, fmt.Errorf("materialize shift instance: %w", err)
			}
		}
	}

	return r.ListByPeriod(ctx, organizationID, year, month)
}

// resolveWindow turns a type's HH:MM window into concrete timestamps on
// the given day. All-day shifts span the whole calendar day; windows
// ending at or before their start roll over to the next day.
func resolveWindow(t models.ShiftTypeDefinition, day time.Time) (time.Time, time.Time) {
	if t.AllDay {
		return day, day.Add(24*time.Hour - time.Second)
	}
	startsAt := combineClock(day, t.StartTime)
	endsAt := combineClock(day, t.EndTime)
	if !endsAt.After(startsAt) {
		endsAt = endsAt.AddDate(0, 0, 1)
	}
	return startsAt, endsAt
}

func combineClock(day time.Time, clock string) time.Time {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

// periodRange returns the first and last day of a month, UTC midnight.
func periodRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}
