package models

import (
	"time"

	"github.com/google/uuid"
)

// FairOddsEstimate is the model's zero-margin price for one selection.
// Estimates are ephemeral, recomputed per cycle; persisted only for audit.
type FairOddsEstimate struct {
	MatchID      uuid.UUID `db:"match_id" json:"match_id" validate:"required"`
	Market       string    `db:"market" json:"market" validate:"required"`
	Selection    string    `db:"selection" json:"selection" validate:"required"`
	Line         *float64  `db:"line" json:"line,omitempty"`
	Probability  float64   `db:"probability" json:"probability" validate:"gt=0,lte=1"`
	FairPrice    float64   `db:"fair_price" json:"fair_price" validate:"gte=1"`
	ModelVersion string    `db:"model_version" json:"model_version" validate:"required"`
	ComputedAt   time.Time `db:"computed_at" json:"computed_at"`
}

// ImpliedProbability returns the probability implied by a decimal price
func ImpliedProbability(price float64) float64 {
	if price <= 0 {
		return 0
	}
	return 1.0 / price
}
