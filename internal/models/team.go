package models

// TeamStats holds per-team aggregates derived from one historical data snapshot.
// A stats snapshot is immutable once loaded; a refresh replaces it wholesale.
type TeamStats struct {
	TeamID             string  `db:"team_id" json:"team_id" validate:"required"`
	GamesPlayed        int     `db:"games_played" json:"games_played" validate:"gte=0"`
	AvgKillsPerGame    float64 `db:"avg_kills_per_game" json:"avg_kills_per_game" validate:"gte=0"`
	AvgKillsConceded   float64 `db:"avg_kills_conceded" json:"avg_kills_conceded" validate:"gte=0"`
	AvgGameDurationMin float64 `db:"avg_game_duration_min" json:"avg_game_duration_min" validate:"gte=0"`
}
