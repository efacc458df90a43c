// Package stats loads historical team statistics used by the fair-odds model.
package stats

import (
	"strings"
	"time"

	"github.com/yourusername/rift-edge/internal/models"
)

// Snapshot is one immutable view of per-team aggregate statistics.
// A refresh replaces the whole snapshot; it is never mutated in place.
type Snapshot struct {
	Source   string
	LoadedAt time.Time
	teams    map[string]models.TeamStats
	skipped  int
}

// NewSnapshot builds a snapshot from aggregated team stats
func NewSnapshot(source string, loadedAt time.Time, teams map[string]models.TeamStats, skippedRows int) *Snapshot {
	return &Snapshot{
		Source:   source,
		LoadedAt: loadedAt,
		teams:    teams,
		skipped:  skippedRows,
	}
}

// Team looks up aggregate statistics by display name
func (s *Snapshot) Team(name string) (models.TeamStats, bool) {
	stats, ok := s.teams[NormalizeTeamName(name)]
	return stats, ok
}

// Teams returns every team's aggregates, in no particular order
func (s *Snapshot) Teams() []models.TeamStats {
	out := make([]models.TeamStats, 0, len(s.teams))
	for _, stats := range s.teams {
		out = append(out, stats)
	}
	return out
}

// Len returns the number of teams in the snapshot
func (s *Snapshot) Len() int {
	return len(s.teams)
}

// SkippedRows returns how many malformed source rows were dropped during load
func (s *Snapshot) SkippedRows() int {
	return s.skipped
}

// NormalizeTeamName canonicalizes a team name for snapshot lookups.
// Provider rosters and historical data frequently disagree on case and spacing.
func NormalizeTeamName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
