package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/rift-edge/internal/database"
	"github.com/yourusername/rift-edge/internal/models"
)

// PostgresQuoteRepository implements QuoteRepository for PostgreSQL
type PostgresQuoteRepository struct {
	db *database.DB
}

// NewPostgresQuoteRepository creates a new quote repository
func NewPostgresQuoteRepository(db *database.DB) QuoteRepository {
	return &PostgresQuoteRepository{db: db}
}

// Insert inserts a single odds quote
func (r *PostgresQuoteRepository) Insert(ctx context.Context, quote *models.OddsQuote) error {
	query := `
		INSERT INTO odds_quotes (id, match_id, market, selection, line, price, provider, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		quote.ID, quote.MatchID, quote.Market, quote.Selection,
		quote.Line, quote.Price, quote.Provider, quote.ObservedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert odds quote: %w", err)
	}

	return nil
}

// InsertBatch inserts multiple odds quotes using high-performance batch insert
func (r *PostgresQuoteRepository) InsertBatch(ctx context.Context, quotes []*models.OddsQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	// Use COPY for high-performance bulk insert
	columns := []string{"id", "match_id", "market", "selection", "line", "price", "provider", "observed_at"}

	rows := make([][]interface{}, len(quotes))
	for i, q := range quotes {
		rows[i] = []interface{}{
			q.ID, q.MatchID, q.Market, q.Selection, q.Line, q.Price, q.Provider, q.ObservedAt,
		}
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"odds_quotes"}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to batch insert odds quotes: %w", err)
	}

	if count != int64(len(quotes)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(quotes))
	}

	return nil
}

// GetByMatchID retrieves quotes for a specific match within a time range
func (r *PostgresQuoteRepository) GetByMatchID(ctx context.Context, matchID uuid.UUID, start, end time.Time) ([]*models.OddsQuote, error) {
	query := `
		SELECT id, match_id, market, selection, line, price, provider, observed_at
		FROM odds_quotes
		WHERE match_id = $1 AND observed_at >= $2 AND observed_at <= $3
		ORDER BY observed_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, matchID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes by match: %w", err)
	}
	defer rows.Close()

	var quotes []*models.OddsQuote
	for rows.Next() {
		quote := &models.OddsQuote{}
		err := rows.Scan(
			&quote.ID, &quote.MatchID, &quote.Market, &quote.Selection,
			&quote.Line, &quote.Price, &quote.Provider, &quote.ObservedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote row: %w", err)
		}
		quotes = append(quotes, quote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote rows: %w", err)
	}

	return quotes, nil
}
