package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// AssignmentRepository persists generated schedule output.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListByPeriod returns the period's assignments of every type.
func (r *AssignmentRepository) ListByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.AssignmentRecord, error) {
	start, end := periodRange(year, month)
	const query = `SELECT a.id, a.organization_id, a.shift_instance_id, a.staff_id, a.type, a.score, a.satisfied_constraints, a.created_at
		FROM assignments a
		JOIN shift_instances si ON si.id = a.shift_instance_id
		WHERE a.organization_id = $1 AND si.date BETWEEN $2 AND $3
		ORDER BY si.date, a.shift_instance_id`
	var records []models.AssignmentRecord
	if err := r.db.SelectContext(ctx, &records, query, organizationID, start, end); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return records, nil
}

// ListDetailsByPeriod joins shift and staff fields for listing and export.
func (r *AssignmentRepository) ListDetailsByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.AssignmentDetail, error) {
	start, end := periodRange(year, month)
	const query = `SELECT a.id, a.organization_id, a.shift_instance_id, a.staff_id, a.type, a.score, a.satisfied_constraints, a.created_at,
			st.code AS shift_code, st.name AS shift_name, si.date, sp.full_name AS staff_name, sp.email AS staff_email
		FROM assignments a
		JOIN shift_instances si ON si.id = a.shift_instance_id
		JOIN shift_types st ON st.id = si.shift_type_id
		JOIN staff_profiles sp ON sp.id = a.staff_id
		WHERE a.organization_id = $1 AND si.date BETWEEN $2 AND $3
		ORDER BY si.date, st.code`
	var details []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &details, query, organizationID, start, end); err != nil {
		return nil, fmt.Errorf("list assignment details: %w", err)
	}
	return details, nil
}

// ReplaceGenerated supersedes the period's GENERATED assignments inside
// the caller's transaction: prior generated rows are deleted, the new set
// inserted. Manual and swapped rows are untouched.
func (r *AssignmentRepository) ReplaceGenerated(
	ctx context.Context,
	exec sqlx.ExtContext,
	organizationID string,
	year, month int,
	records []models.AssignmentRecord,
) error {
	start, end := periodRange(year, month)
	const del = `DELETE FROM assignments
		WHERE organization_id = $1 AND type = 'GENERATED'
		AND shift_instance_id IN (SELECT id FROM shift_instances WHERE organization_id = $1 AND date BETWEEN $2 AND $3)`
	if _, err := exec.ExecContext(ctx, del, organizationID, start, end); err != nil {
		return fmt.Errorf("delete generated assignments: %w", err)
	}

	const insert = `INSERT INTO assignments (id, organization_id, shift_instance_id, staff_id, type, score, satisfied_constraints, created_at)
		VALUES (:id, :organization_id, :shift_instance_id, :staff_id, :type, :score, :satisfied_constraints, :created_at)`
	for _, record := range records {
		if _, err := sqlx.NamedExecContext(ctx, exec, insert, record); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	return nil
}

// sortedValues returns map values ordered by key for deterministic writes.
func sortedValues(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
