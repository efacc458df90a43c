package models

import (
	"time"

	"github.com/google/uuid"
)

// Match lifecycle states. Started and resolved matches are excluded from
// further pre-match evaluation.
const (
	MatchStatusUpcoming = "upcoming"
	MatchStatusStarted  = "started"
	MatchStatusResolved = "resolved"
)

// Match represents a scheduled best-of series between two teams
type Match struct {
	ID             uuid.UUID `db:"id" json:"id" validate:"required"`
	SourceID       string    `db:"source_id" json:"source_id" validate:"required"`
	League         string    `db:"league" json:"league" validate:"required"`
	TeamA          string    `db:"team_a" json:"team_a" validate:"required"`
	TeamB          string    `db:"team_b" json:"team_b" validate:"required,nefield=TeamA"`
	ScheduledStart time.Time `db:"scheduled_start" json:"scheduled_start" validate:"required"`
	Status         string    `db:"status" json:"status" validate:"oneof=upcoming started resolved"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// IsUpcoming checks if the match hasn't started yet
func (m *Match) IsUpcoming() bool {
	return m.Status == MatchStatusUpcoming
}
