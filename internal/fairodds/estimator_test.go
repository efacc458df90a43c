package fairodds

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/rift-edge/internal/models"
)

func testMatch() models.Match {
	return models.Match{
		ID:             uuid.New(),
		SourceID:       "mock:1",
		League:         "lck",
		TeamA:          "T1",
		TeamB:          "Gen.G",
		ScheduledStart: time.Now().Add(6 * time.Hour),
		Status:         models.MatchStatusUpcoming,
	}
}

func testStats(teamID string, kills float64) models.TeamStats {
	return models.TeamStats{
		TeamID:             teamID,
		GamesPlayed:        30,
		AvgKillsPerGame:    kills,
		AvgKillsConceded:   10,
		AvgGameDurationMin: 30.0,
	}
}

func TestEstimateMarketMoneyline(t *testing.T) {
	calc, err := NewCalculator(30.0)
	require.NoError(t, err)
	estimator := NewEstimator(calc, 5, time.Minute)

	match := testMatch()
	estimates, err := estimator.EstimateMarket(
		match, models.MarketMoneyline, nil,
		testStats("t1", 16.0), testStats("gen.g", 10.0), "stamp-1")
	require.NoError(t, err)
	require.Len(t, estimates, 2)

	byTeam := make(map[string]*models.FairOddsEstimate)
	for _, est := range estimates {
		byTeam[est.Selection] = est
		assert.Equal(t, match.ID, est.MatchID)
		assert.Equal(t, ModelVersion, est.ModelVersion)
		assert.InDelta(t, 1.0/est.Probability, est.FairPrice, 1e-9)
	}

	// Selections carry concrete team names, not team_a/team_b
	require.Contains(t, byTeam, "T1")
	require.Contains(t, byTeam, "Gen.G")
	assert.Greater(t, byTeam["T1"].Probability, byTeam["Gen.G"].Probability)
}

func TestEstimateMarketKillTotal(t *testing.T) {
	calc, err := NewCalculator(30.0)
	require.NoError(t, err)
	estimator := NewEstimator(calc, 5, time.Minute)

	line := 27.5
	estimates, err := estimator.EstimateMarket(
		testMatch(), models.MarketKillTotal, &line,
		testStats("t1", 16.0), testStats("gen.g", 10.0), "stamp-1")
	require.NoError(t, err)
	require.Len(t, estimates, 2)

	selections := []string{estimates[0].Selection, estimates[1].Selection}
	assert.ElementsMatch(t, []string{models.SelectionOver, models.SelectionUnder}, selections)
	for _, est := range estimates {
		require.NotNil(t, est.Line)
		assert.Equal(t, line, *est.Line)
	}
}

func TestEstimateMarketInsufficientData(t *testing.T) {
	calc, err := NewCalculator(30.0)
	require.NoError(t, err)
	estimator := NewEstimator(calc, 5, time.Minute)

	thin := testStats("rookie org", 14.0)
	thin.GamesPlayed = 2

	_, err = estimator.EstimateMarket(
		testMatch(), models.MarketMoneyline, nil,
		thin, testStats("gen.g", 10.0), "stamp-1")
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestEstimateMarketCaching(t *testing.T) {
	calc, err := NewCalculator(30.0)
	require.NoError(t, err)
	estimator := NewEstimator(calc, 5, time.Minute)

	match := testMatch()
	statsA := testStats("t1", 16.0)
	statsB := testStats("gen.g", 10.0)

	first, err := estimator.EstimateMarket(match, models.MarketMoneyline, nil, statsA, statsB, "stamp-1")
	require.NoError(t, err)

	// Same snapshot stamp: cached result, even if the inputs change
	statsA.AvgKillsPerGame = 8.0
	second, err := estimator.EstimateMarket(match, models.MarketMoneyline, nil, statsA, statsB, "stamp-1")
	require.NoError(t, err)
	assert.Equal(t, first[0].Probability, second[0].Probability)
	assert.Equal(t, first[0].ComputedAt, second[0].ComputedAt)

	// New snapshot stamp: recomputed against the changed stats
	third, err := estimator.EstimateMarket(match, models.MarketMoneyline, nil, statsA, statsB, "stamp-2")
	require.NoError(t, err)

	var firstT1, thirdT1 float64
	for _, est := range first {
		if est.Selection == "T1" {
			firstT1 = est.Probability
		}
	}
	for _, est := range third {
		if est.Selection == "T1" {
			thirdT1 = est.Probability
		}
	}
	assert.Less(t, thirdT1, firstT1)
}
