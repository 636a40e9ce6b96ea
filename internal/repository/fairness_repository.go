package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/radmosaic/rostergen-api/internal/models"
)

// FairnessLedgerRepository persists the running fairness ledger.
type FairnessLedgerRepository struct {
	db *sqlx.DB
}

// NewFairnessLedgerRepository constructs the repository.
func NewFairnessLedgerRepository(db *sqlx.DB) *FairnessLedgerRepository {
	return &FairnessLedgerRepository{db: db}
}

// Latest returns each staff member's most recent ledger row for the
// organization, used to carry cross-period counters into a new run.
func (r *FairnessLedgerRepository) Latest(ctx context.Context, organizationID string) ([]models.FairnessScore, error) {
	const query = `SELECT DISTINCT ON (staff_id)
			id, organization_id, staff_id, year, month, current_assignments, target_assignments, fairness_debt,
			rank1_granted, rank2_granted, rank3_granted, desirability_balance, updated_at
		FROM fairness_ledger WHERE organization_id = $1
		ORDER BY staff_id, year DESC, month DESC`
	var rows []models.FairnessScore
	if err := r.db.SelectContext(ctx, &rows, query, organizationID); err != nil {
		return nil, fmt.Errorf("load fairness ledger: %w", err)
	}
	return rows, nil
}

// ListByPeriod returns the ledger snapshot written by a period's run.
func (r *FairnessLedgerRepository) ListByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.FairnessScore, error) {
	const query = `SELECT id, organization_id, staff_id, year, month, current_assignments, target_assignments, fairness_debt,
			rank1_granted, rank2_granted, rank3_granted, desirability_balance, updated_at
		FROM fairness_ledger WHERE organization_id = $1 AND year = $2 AND month = $3 ORDER BY staff_id`
	var rows []models.FairnessScore
	if err := r.db.SelectContext(ctx, &rows, query, organizationID, year, month); err != nil {
		return nil, fmt.Errorf("list fairness ledger: %w", err)
	}
	return rows, nil
}

// UpsertBatch writes a run's ledger snapshot inside the caller's
// transaction.
func (r *FairnessLedgerRepository) UpsertBatch(ctx context.Context, exec sqlx.ExtContext, rows []models.FairnessScore) error {
	const query = `INSERT INTO fairness_ledger (id, organization_id, staff_id, year, month, current_assignments, target_assignments, fairness_debt,
			rank1_granted, rank2_granted, rank3_granted, desirability_balance, updated_at)
		VALUES (:id, :organization_id, :staff_id, :year, :month, :current_assignments, :target_assignments, :fairness_debt,
			:rank1_granted, :rank2_granted, :rank3_granted, :desirability_balance, :updated_at)
		ON CONFLICT (organization_id, staff_id, year, month) DO UPDATE
		SET current_assignments = EXCLUDED.current_assignments,
		    target_assignments = EXCLUDED.target_assignments,
		    fairness_debt = EXCLUDED.fairness_debt,
		    rank1_granted = EXCLUDED.rank1_granted,
		    rank2_granted = EXCLUDED.rank2_granted,
		    rank3_granted = EXCLUDED.rank3_granted,
		    desirability_balance = EXCLUDED.desirability_balance,
		    updated_at = EXCLUDED.updated_at`
	for _, row := range rows {
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if row.UpdatedAt.IsZero() {
			row.UpdatedAt = time.Now().UTC()
		}
		if _, err := sqlx.NamedExecContext(ctx, exec, query, row); err != nil {
			return fmt.Errorf("upsert fairness ledger row: %w", err)
		}
	}
	return nil
}
