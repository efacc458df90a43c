package provider

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/rift-edge/internal/models"
)

const mockName = "mock"

// MockProvider produces deterministic synthetic quotes for development and tests
type MockProvider struct {
	now func() time.Time
}

// NewMockProvider creates a mock provider using the wall clock
func NewMockProvider() *MockProvider {
	return &MockProvider{now: time.Now}
}

// NewMockProviderAt creates a mock provider with an injected clock
func NewMockProviderAt(now func() time.Time) *MockProvider {
	return &MockProvider{now: now}
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return mockName
}

// FetchQuotes returns two synthetic upcoming matches with moneyline and
// kill-total quotes. Match IDs are stable across calls so dedup behaves as
// it would against a real provider.
func (p *MockProvider) FetchQuotes(ctx context.Context, window time.Duration) ([]MatchQuotes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	observed := p.now().UTC()
	line := decimal.NewFromFloat(28.5)

	fixtures := []struct {
		sourceID string
		league   string
		teamA    string
		teamB    string
		startIn  time.Duration
		priceA   float64
		priceB   float64
		over     float64
		under    float64
	}{
		{"mock:1001", "lck", "T1", "Gen.G", 6 * time.Hour, 1.50, 2.60, 1.90, 1.90},
		{"mock:1002", "lec", "G2 Esports", "Fnatic", 20 * time.Hour, 2.10, 1.72, 1.85, 1.95},
	}

	results := make([]MatchQuotes, 0, len(fixtures))
	for _, f := range fixtures {
		if f.startIn > window {
			continue
		}
		match := models.Match{
			ID:             uuid.NewSHA1(matchNamespace, []byte(f.sourceID)),
			SourceID:       f.sourceID,
			League:         f.league,
			TeamA:          f.teamA,
			TeamB:          f.teamB,
			ScheduledStart: observed.Add(f.startIn),
			Status:         models.MatchStatusUpcoming,
			CreatedAt:      observed,
		}

		quotes := []models.OddsQuote{
			p.quote(match, models.MarketMoneyline, f.teamA, nil, f.priceA, observed),
			p.quote(match, models.MarketMoneyline, f.teamB, nil, f.priceB, observed),
			p.quote(match, models.MarketKillTotal, models.SelectionOver, &line, f.over, observed),
			p.quote(match, models.MarketKillTotal, models.SelectionUnder, &line, f.under, observed),
		}

		results = append(results, MatchQuotes{Match: match, Quotes: quotes})
	}

	return results, nil
}

func (p *MockProvider) quote(match models.Match, market, selection string, line *decimal.Decimal, price float64, observed time.Time) models.OddsQuote {
	return models.OddsQuote{
		ID:         uuid.New(),
		MatchID:    match.ID,
		Market:     market,
		Selection:  selection,
		Line:       line,
		Price:      decimal.NewFromFloat(price),
		Provider:   mockName,
		ObservedAt: observed,
	}
}
