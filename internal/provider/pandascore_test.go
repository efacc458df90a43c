package provider

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/rift-edge/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testProvider() *PandaScoreProvider {
	return NewPandaScoreProvider(
		"https://api.example.com",
		"token",
		[]string{"LCK", "lec"},
		nil,
		quietLogger(),
	)
}

func wireMatch() psMatch {
	begin := time.Now().UTC().Add(12 * time.Hour)
	return psMatch{
		ID:      1001,
		Name:    "T1 vs Gen.G",
		BeginAt: &begin,
		Status:  "not_started",
		League:  psLeague{Slug: "LCK"},
		Opponents: []psOpponent{
			{Opponent: psTeam{Name: "T1"}},
			{Opponent: psTeam{Name: "Gen.G"}},
		},
		Markets: []psMarket{
			{
				Name: "Match Winner",
				Selections: []psSelection{
					{Name: "T1", Odd: 1.50},
					{Name: "Gen.G", Odd: 2.60},
				},
			},
		},
	}
}

func TestNormalizeMatch(t *testing.T) {
	p := testProvider()
	observed := time.Now().UTC()

	t.Run("valid record", func(t *testing.T) {
		mq, err := p.normalizeMatch(wireMatch(), observed)
		require.NoError(t, err)
		require.NotNil(t, mq)

		assert.Equal(t, "pandascore:1001", mq.Match.SourceID)
		assert.Equal(t, "lck", mq.Match.League)
		assert.Equal(t, "T1", mq.Match.TeamA)
		assert.Equal(t, "Gen.G", mq.Match.TeamB)
		assert.Equal(t, models.MatchStatusUpcoming, mq.Match.Status)
		require.Len(t, mq.Quotes, 2)
		assert.Equal(t, models.MarketMoneyline, mq.Quotes[0].Market)
	})

	t.Run("match IDs are stable across fetches", func(t *testing.T) {
		first, err := p.normalizeMatch(wireMatch(), observed)
		require.NoError(t, err)
		second, err := p.normalizeMatch(wireMatch(), observed.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, first.Match.ID, second.Match.ID)
	})

	t.Run("unmonitored league filtered", func(t *testing.T) {
		raw := wireMatch()
		raw.League.Slug = "vcs"
		mq, err := p.normalizeMatch(raw, observed)
		assert.NoError(t, err)
		assert.Nil(t, mq)
	})

	t.Run("started match filtered", func(t *testing.T) {
		raw := wireMatch()
		raw.Status = "running"
		mq, err := p.normalizeMatch(raw, observed)
		assert.NoError(t, err)
		assert.Nil(t, mq)
	})

	t.Run("missing begin_at is malformed", func(t *testing.T) {
		raw := wireMatch()
		raw.BeginAt = nil
		_, err := p.normalizeMatch(raw, observed)
		assert.ErrorIs(t, err, models.ErrMalformedQuote)
	})

	t.Run("single opponent is malformed", func(t *testing.T) {
		raw := wireMatch()
		raw.Opponents = raw.Opponents[:1]
		_, err := p.normalizeMatch(raw, observed)
		assert.ErrorIs(t, err, models.ErrMalformedQuote)
	})

	t.Run("price at or below 1.0 dropped, match kept", func(t *testing.T) {
		raw := wireMatch()
		raw.Markets[0].Selections[1].Odd = 1.0
		mq, err := p.normalizeMatch(raw, observed)
		require.NoError(t, err)
		require.NotNil(t, mq)
		assert.Len(t, mq.Quotes, 1)
	})
}

func TestClassifyMarket(t *testing.T) {
	line := 28.5

	t.Run("winner variants map to moneyline", func(t *testing.T) {
		for _, name := range []string{"Match Winner", "winner 2-way", "Moneyline", "ml"} {
			market, l, ok := classifyMarket(psMarket{Name: name})
			assert.True(t, ok, name)
			assert.Equal(t, models.MarketMoneyline, market)
			assert.Nil(t, l)
		}
	})

	t.Run("kill totals keep their line", func(t *testing.T) {
		market, l, ok := classifyMarket(psMarket{Name: "Total Kills Over/Under", Line: &line})
		require.True(t, ok)
		assert.Equal(t, models.MarketKillTotal, market)
		require.NotNil(t, l)
		assert.Equal(t, 28.5, *l)
	})

	t.Run("kill market without line dropped", func(t *testing.T) {
		_, _, ok := classifyMarket(psMarket{Name: "Total Kills Over/Under"})
		assert.False(t, ok)
	})

	t.Run("unsupported markets dropped", func(t *testing.T) {
		_, _, ok := classifyMarket(psMarket{Name: "First Blood"})
		assert.False(t, ok)
	})
}

func TestNormalizeSelection(t *testing.T) {
	assert.Equal(t, models.SelectionOver, normalizeSelection(models.MarketKillTotal, "Over"))
	assert.Equal(t, models.SelectionUnder, normalizeSelection(models.MarketKillTotal, "U"))
	assert.Equal(t, "T1", normalizeSelection(models.MarketMoneyline, "T1"))
}
