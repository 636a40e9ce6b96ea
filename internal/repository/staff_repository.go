package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// StaffRepository provides persistence for staff profiles.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs the repository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// ListByOrganization returns the active roster for an organization.
func (r *StaffRepository) ListByOrganization(ctx context.Context, organizationID string) ([]models.StaffProfile, error) {
	const query = `SELECT id, organization_id, full_name, email, subspecialty, fte_percent, is_fellow, is_resident, cross_trained, active, created_at, updated_at
		FROM staff_profiles WHERE organization_id = $1 AND active = TRUE ORDER BY id`
	var staff []models.StaffProfile
	if err := r.db.SelectContext(ctx, &staff, query, organizationID); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

// FindByID loads one staff profile.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.StaffProfile, error) {
	const query = `SELECT id, organization_id, full_name, email, subspecialty, fte_percent, is_fellow, is_resident, cross_trained, active, created_at, updated_at
		FROM staff_profiles WHERE id = $1`
	var staff models.StaffProfile
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		return nil, err
	}
	return &staff, nil
}
