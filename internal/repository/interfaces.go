package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/rift-edge/internal/models"
)

// QuoteRepository defines the interface for odds quote persistence.
// Quotes are append-only observations.
type QuoteRepository interface {
	Insert(ctx context.Context, quote *models.OddsQuote) error
	InsertBatch(ctx context.Context, quotes []*models.OddsQuote) error
	GetByMatchID(ctx context.Context, matchID uuid.UUID, start, end time.Time) ([]*models.OddsQuote, error)
}

// EstimateRepository defines the interface for fair-odds estimate audit records
type EstimateRepository interface {
	InsertBatch(ctx context.Context, estimates []*models.FairOddsEstimate) error
}

// AlertRepository defines the interface for alert dedup records.
// Create must be an atomic conditional insert: it returns models.ErrDuplicateKey
// when a record for the same key already exists, so two concurrent writers can
// never both pass the dedup gate.
type AlertRepository interface {
	Has(ctx context.Context, key models.AlertKey) (bool, error)
	Create(ctx context.Context, record *models.AlertRecord) error
}
