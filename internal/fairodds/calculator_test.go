package fairodds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/rift-edge/internal/models"
)

func TestNewCalculator(t *testing.T) {
	t.Run("valid duration", func(t *testing.T) {
		calc, err := NewCalculator(32.0)
		require.NoError(t, err)
		assert.NotNil(t, calc)
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		_, err := NewCalculator(0)
		assert.Error(t, err)

		_, err = NewCalculator(-5)
		assert.Error(t, err)
	})
}

func TestMoneylineStrongerTeamFavored(t *testing.T) {
	calc, err := NewCalculator(30.0)
	require.NoError(t, err)

	// 8 kills per 30-minute game vs 4 kills per 30-minute game
	rateA := ScoringRate(8.0 / 30.0)
	rateB := ScoringRate(4.0 / 30.0)

	pA, pB := calc.Moneyline(rateA, rateB)

	assert.Greater(t, pA, 0.6, "team with double the scoring rate should be a clear favorite")
	assert.InDelta(t, 1.0, pA+pB, 1e-9)
}

func TestMoneylineEqualRates(t *testing.T) {
	calc, err := NewCalculator(32.0)
	require.NoError(t, err)

	pA, pB := calc.Moneyline(0.25, 0.25)

	assert.InDelta(t, 0.5, pA, 1e-6)
	assert.InDelta(t, 0.5, pB, 1e-6)
}

func TestMoneylineAntiSymmetric(t *testing.T) {
	calc, err := NewCalculator(32.0)
	require.NoError(t, err)

	rateA := ScoringRate(0.31)
	rateB := ScoringRate(0.19)

	pA1, pB1 := calc.Moneyline(rateA, rateB)
	pA2, pB2 := calc.Moneyline(rateB, rateA)

	assert.InDelta(t, pA1, pB2, 1e-9, "swapping the teams must swap the probabilities")
	assert.InDelta(t, pB1, pA2, 1e-9)
}

func TestKillTotal(t *testing.T) {
	calc, err := NewCalculator(32.0)
	require.NoError(t, err)

	rateA := ScoringRate(0.25)
	rateB := ScoringRate(0.20)

	t.Run("over and under sum to one", func(t *testing.T) {
		pOver, pUnder := calc.KillTotal(rateA, rateB, 28.5)
		assert.InDelta(t, 1.0, pOver+pUnder, 1e-9)
		assert.Greater(t, pOver, 0.0)
		assert.Greater(t, pUnder, 0.0)
	})

	t.Run("higher line lowers the over", func(t *testing.T) {
		over1, _ := calc.KillTotal(rateA, rateB, 20.5)
		over2, _ := calc.KillTotal(rateA, rateB, 28.5)
		over3, _ := calc.KillTotal(rateA, rateB, 36.5)
		assert.Greater(t, over1, over2)
		assert.Greater(t, over2, over3)
	})

	t.Run("line below zero means over is certain", func(t *testing.T) {
		pOver, pUnder := calc.KillTotal(rateA, rateB, -0.5)
		assert.Equal(t, 1.0, pOver)
		assert.Equal(t, 0.0, pUnder)
	})
}

func TestFairOdds(t *testing.T) {
	calc, err := NewCalculator(30.0)
	require.NoError(t, err)

	t.Run("moneyline selections sum to one", func(t *testing.T) {
		probs, err := calc.FairOdds(0.27, 0.13, models.MarketMoneyline, nil)
		require.NoError(t, err)
		require.Len(t, probs, 2)
		assert.InDelta(t, 1.0, probs[SelectionTeamA]+probs[SelectionTeamB], 1e-6)
	})

	t.Run("kill total selections sum to one", func(t *testing.T) {
		line := 27.5
		probs, err := calc.FairOdds(0.27, 0.13, models.MarketKillTotal, &line)
		require.NoError(t, err)
		require.Len(t, probs, 2)
		assert.InDelta(t, 1.0, probs[models.SelectionOver]+probs[models.SelectionUnder], 1e-6)
	})

	t.Run("kill total requires a line", func(t *testing.T) {
		_, err := calc.FairOdds(0.27, 0.13, models.MarketKillTotal, nil)
		assert.ErrorIs(t, err, models.ErrMalformedQuote)
	})

	t.Run("rejects negative rates", func(t *testing.T) {
		_, err := calc.FairOdds(-0.1, 0.2, models.MarketMoneyline, nil)
		assert.Error(t, err)
	})

	t.Run("rejects unsupported markets", func(t *testing.T) {
		_, err := calc.FairOdds(0.2, 0.2, "first_blood", nil)
		assert.Error(t, err)
	})
}

func TestFairPrice(t *testing.T) {
	assert.InDelta(t, 2.0, FairPrice(0.5), 1e-9)
	assert.InDelta(t, 4.0, FairPrice(0.25), 1e-9)

	// Probabilities at or below the floor never produce an infinite price
	assert.False(t, FairPrice(0) > 1/minProbability+1)
	assert.Greater(t, FairPrice(0), 1.0)
}

func TestPoissonPMF(t *testing.T) {
	t.Run("degenerate at zero rate", func(t *testing.T) {
		assert.Equal(t, 1.0, poissonPMF(0, 0))
		assert.Equal(t, 0.0, poissonPMF(0, 3))
	})

	t.Run("sums to one over the truncated support", func(t *testing.T) {
		lam := 12.0
		limit := truncationLimit(lam, lam)
		sum := 0.0
		for k := 0; k <= limit; k++ {
			sum += poissonPMF(lam, k)
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("matches known value", func(t *testing.T) {
		// P(X=2) for lam=2 is 2e^-2
		assert.InDelta(t, 0.2706705665, poissonPMF(2, 2), 1e-9)
	})
}

func TestPoissonCDF(t *testing.T) {
	assert.Equal(t, 0.0, poissonCDF(5, -1))
	assert.InDelta(t, 1.0, poissonCDF(5, 1000), 1e-12)

	// CDF is non-decreasing
	prev := 0.0
	for n := 0; n <= 20; n++ {
		cur := poissonCDF(7.5, n)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}
