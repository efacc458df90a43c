package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/rift-edge/internal/database"
	"github.com/yourusername/rift-edge/internal/models"
)

// PostgresEstimateRepository implements EstimateRepository for PostgreSQL
type PostgresEstimateRepository struct {
	db *database.DB
}

// NewPostgresEstimateRepository creates a new estimate repository
func NewPostgresEstimateRepository(db *database.DB) EstimateRepository {
	return &PostgresEstimateRepository{db: db}
}

// InsertBatch persists fair-odds estimates for audit
func (r *PostgresEstimateRepository) InsertBatch(ctx context.Context, estimates []*models.FairOddsEstimate) error {
	if len(estimates) == 0 {
		return nil
	}

	columns := []string{"match_id", "market", "selection", "line", "probability", "fair_price", "model_version", "computed_at"}

	rows := make([][]interface{}, len(estimates))
	for i, e := range estimates {
		rows[i] = []interface{}{
			e.MatchID, e.Market, e.Selection, e.Line, e.Probability, e.FairPrice, e.ModelVersion, e.ComputedAt,
		}
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"fair_odds_estimates"}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to batch insert estimates: %w", err)
	}

	if count != int64(len(estimates)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(estimates))
	}

	return nil
}
