package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/rift-edge/internal/database"
	"github.com/yourusername/rift-edge/internal/models"
)

// PostgresAlertRepository implements AlertRepository for PostgreSQL
type PostgresAlertRepository struct {
	db *database.DB
}

// NewPostgresAlertRepository creates a new alert repository
func NewPostgresAlertRepository(db *database.DB) AlertRepository {
	return &PostgresAlertRepository{db: db}
}

// Has reports whether an alert record exists for the given key
func (r *PostgresAlertRepository) Has(ctx context.Context, key models.AlertKey) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM alert_records
			WHERE match_id = $1 AND market = $2 AND selection = $3 AND bucket = $4
		)
	`

	var exists bool
	err := r.db.GetPool().QueryRow(ctx, query, key.MatchID, key.Market, key.Selection, key.Bucket).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check alert record: %w", err)
	}

	return exists, nil
}

// Create inserts an alert record. The insert is conditional on the dedup key:
// a concurrent or prior insert for the same key yields models.ErrDuplicateKey
// instead of a second row.
func (r *PostgresAlertRepository) Create(ctx context.Context, record *models.AlertRecord) error {
	query := `
		INSERT INTO alert_records (match_id, market, selection, bucket, sent_at, edge, fair_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id, market, selection, bucket) DO NOTHING
	`

	tag, err := r.db.GetPool().Exec(ctx, query,
		record.Key.MatchID, record.Key.Market, record.Key.Selection, record.Key.Bucket,
		record.SentAt, record.Edge, record.FairPrice,
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert record: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrDuplicateKey
	}

	return nil
}
