// Package fairodds turns historical team statistics into zero-margin prices.
package fairodds

import (
	"fmt"

	"github.com/yourusername/rift-edge/internal/models"
)

// ScoringRate is a team's expected kills per minute of game time
type ScoringRate float64

// Strength derives a team's scoring rate from its aggregate statistics.
// Teams below the minimum sample size are excluded from evaluation entirely:
// callers must skip the match, never substitute a default rate.
func Strength(stats models.TeamStats, minGamesPlayed int) (ScoringRate, error) {
	if stats.GamesPlayed < minGamesPlayed {
		return 0, fmt.Errorf("%w: team %s played %d games, minimum is %d",
			models.ErrInsufficientData, stats.TeamID, stats.GamesPlayed, minGamesPlayed)
	}
	if stats.AvgGameDurationMin <= 0 {
		return 0, fmt.Errorf("%w: team %s has non-positive average game duration",
			models.ErrMalformedStats, stats.TeamID)
	}
	if stats.AvgKillsPerGame < 0 {
		return 0, fmt.Errorf("%w: team %s has negative average kills",
			models.ErrMalformedStats, stats.TeamID)
	}

	return ScoringRate(stats.AvgKillsPerGame / stats.AvgGameDurationMin), nil
}
