//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/rift-edge/internal/database"
	"github.com/yourusername/rift-edge/internal/models"
	"github.com/yourusername/rift-edge/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS odds_quotes (
	id UUID PRIMARY KEY,
	match_id UUID NOT NULL,
	market TEXT NOT NULL,
	selection TEXT NOT NULL,
	line NUMERIC,
	price NUMERIC NOT NULL,
	provider TEXT NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS fair_odds_estimates (
	match_id UUID NOT NULL,
	market TEXT NOT NULL,
	selection TEXT NOT NULL,
	line DOUBLE PRECISION,
	probability DOUBLE PRECISION NOT NULL,
	fair_price DOUBLE PRECISION NOT NULL,
	model_version TEXT NOT NULL,
	computed_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS alert_records (
	match_id UUID NOT NULL,
	market TEXT NOT NULL,
	selection TEXT NOT NULL,
	bucket TEXT NOT NULL,
	sent_at TIMESTAMPTZ NOT NULL,
	edge DOUBLE PRECISION NOT NULL,
	fair_price DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (match_id, market, selection, bucket)
);
`

// setupTestDB connects to the database named by RIFT_EDGE_TEST_DSN and
// ensures the schema exists. Tests are skipped when the variable is unset.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("RIFT_EDGE_TEST_DSN")
	if dsn == "" {
		t.Skip("RIFT_EDGE_TEST_DSN not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, dsn, 4)
	require.NoError(t, err)

	_, err = db.GetPool().Exec(ctx, schema)
	require.NoError(t, err)

	t.Cleanup(db.Close)
	return db
}

func TestQuoteRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPostgresQuoteRepository(db)
	ctx := context.Background()

	matchID := uuid.New()
	line := decimal.NewFromFloat(28.5)
	observed := time.Now().UTC().Truncate(time.Microsecond)

	quotes := []*models.OddsQuote{
		{
			ID: uuid.New(), MatchID: matchID, Market: models.MarketMoneyline,
			Selection: "T1", Price: decimal.NewFromFloat(1.50),
			Provider: "test", ObservedAt: observed,
		},
		{
			ID: uuid.New(), MatchID: matchID, Market: models.MarketKillTotal,
			Selection: models.SelectionOver, Line: &line, Price: decimal.NewFromFloat(1.90),
			Provider: "test", ObservedAt: observed,
		},
	}

	require.NoError(t, repo.InsertBatch(ctx, quotes))

	got, err := repo.GetByMatchID(ctx, matchID, observed.Add(-time.Minute), observed.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 2)

	byMarket := map[string]*models.OddsQuote{}
	for _, q := range got {
		byMarket[q.Market] = q
	}
	assert.True(t, byMarket[models.MarketMoneyline].Price.Equal(decimal.NewFromFloat(1.50)))
	require.NotNil(t, byMarket[models.MarketKillTotal].Line)
	assert.True(t, byMarket[models.MarketKillTotal].Line.Equal(line))
}

func TestEstimateRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPostgresEstimateRepository(db)
	ctx := context.Background()

	line := 28.5
	estimates := []*models.FairOddsEstimate{
		{
			MatchID: uuid.New(), Market: models.MarketKillTotal,
			Selection: models.SelectionOver, Line: &line,
			Probability: 0.55, FairPrice: 1.818,
			ModelVersion: "poisson-skellam/v1", ComputedAt: time.Now().UTC(),
		},
	}

	assert.NoError(t, repo.InsertBatch(ctx, estimates))
	assert.NoError(t, repo.InsertBatch(ctx, nil), "empty batch is a no-op")
}

func TestAlertRepositoryDedup(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPostgresAlertRepository(db)
	ctx := context.Background()

	key := models.AlertKey{
		MatchID:   uuid.New(),
		Market:    models.MarketMoneyline,
		Selection: "T1",
		Bucket:    "2026-08-25",
	}

	exists, err := repo.Has(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	record := &models.AlertRecord{Key: key, SentAt: time.Now().UTC(), Edge: 0.08, FairPrice: 1.39}
	require.NoError(t, repo.Create(ctx, record))

	exists, err = repo.Has(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	// Second insert for the same key loses the conditional insert
	err = repo.Create(ctx, record)
	assert.ErrorIs(t, err, models.ErrDuplicateKey)

	// A different bucket is a fresh key
	nextDay := *record
	nextDay.Key.Bucket = "2026-08-26"
	assert.NoError(t, repo.Create(ctx, &nextDay))

	// Totals carry the line in the selection label, so the same side at two
	// lines never collides on the primary key
	lowLine := *record
	lowLine.Key.Market = models.MarketKillTotal
	lowLine.Key.Selection = "over 20.5"
	highLine := lowLine
	highLine.Key.Selection = "over 24.5"
	assert.NoError(t, repo.Create(ctx, &lowLine))
	assert.NoError(t, repo.Create(ctx, &highLine))
}

func TestAlertRepositoryConcurrentCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewPostgresAlertRepository(db)
	ctx := context.Background()

	key := models.AlertKey{
		MatchID:   uuid.New(),
		Market:    models.MarketKillTotal,
		Selection: models.SelectionOver,
		Bucket:    "2026-08-25",
	}
	record := &models.AlertRecord{Key: key, SentAt: time.Now().UTC(), Edge: 0.06, FairPrice: 1.72}

	const writers = 8
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func() {
			results <- repo.Create(ctx, record)
		}()
	}

	wins := 0
	for i := 0; i < writers; i++ {
		if err := <-results; err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, models.ErrDuplicateKey)
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent writer may pass the dedup gate")
}
