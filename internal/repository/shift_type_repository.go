package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// ShiftTypeRepository provides persistence for shift type definitions.
type ShiftTypeRepository struct {
	db *sqlx.DB
}

// NewShiftTypeRepository constructs the repository.
func NewShiftTypeRepository(db *sqlx.DB) *ShiftTypeRepository {
	return &ShiftTypeRepository{db: db}
}

// ListByOrganization returns every shift type configured for an organization.
func (r *ShiftTypeRepository) ListByOrganization(ctx context.Context, organizationID string) ([]models.ShiftTypeDefinition, error) {
	const query = `SELECT id, organization_id, code, name, all_day, start_time, end_time, recurrence, eligibility_mode, required_subspecialty, allowed_staff_emails, created_at, updated_at
		FROM shift_types WHERE organization_id = $1 ORDER BY code`
	var types []models.ShiftTypeDefinition
	if err := r.db.SelectContext(ctx, &types, query, organizationID); err != nil {
		return nil, fmt.Errorf("list shift types: %w", err)
	}
	return types, nil
}
