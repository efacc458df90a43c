package fairodds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/rift-edge/internal/models"
)

func TestStrength(t *testing.T) {
	t.Run("computes kills per minute", func(t *testing.T) {
		stats := models.TeamStats{
			TeamID:             "t1",
			GamesPlayed:        40,
			AvgKillsPerGame:    15.0,
			AvgGameDurationMin: 30.0,
		}

		rate, err := Strength(stats, 5)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, float64(rate), 1e-9)
	})

	t.Run("excludes teams below minimum sample", func(t *testing.T) {
		stats := models.TeamStats{
			TeamID:             "new team",
			GamesPlayed:        2,
			AvgKillsPerGame:    20.0,
			AvgGameDurationMin: 30.0,
		}

		_, err := Strength(stats, 5)
		assert.ErrorIs(t, err, models.ErrInsufficientData)
	})

	t.Run("exactly at minimum is included", func(t *testing.T) {
		stats := models.TeamStats{
			TeamID:             "edge case",
			GamesPlayed:        5,
			AvgKillsPerGame:    10.0,
			AvgGameDurationMin: 25.0,
		}

		_, err := Strength(stats, 5)
		assert.NoError(t, err)
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		stats := models.TeamStats{
			TeamID:          "broken",
			GamesPlayed:     10,
			AvgKillsPerGame: 12.0,
		}

		_, err := Strength(stats, 5)
		assert.ErrorIs(t, err, models.ErrMalformedStats)
	})

	t.Run("rejects negative kills", func(t *testing.T) {
		stats := models.TeamStats{
			TeamID:             "broken",
			GamesPlayed:        10,
			AvgKillsPerGame:    -1.0,
			AvgGameDurationMin: 30.0,
		}

		_, err := Strength(stats, 5)
		assert.ErrorIs(t, err, models.ErrMalformedStats)
	})
}
