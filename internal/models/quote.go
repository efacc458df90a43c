package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Market types quoted by odds providers
const (
	MarketMoneyline = "moneyline"
	MarketKillTotal = "kill_total"
)

// Selections for totals markets
const (
	SelectionOver  = "over"
	SelectionUnder = "under"
)

// OddsQuote is a point-in-time observation of a quoted decimal price.
// Quotes are append-only; a match accumulates many over repeated polls.
type OddsQuote struct {
	ID         uuid.UUID        `db:"id" json:"id" validate:"required"`
	MatchID    uuid.UUID        `db:"match_id" json:"match_id" validate:"required"`
	Market     string           `db:"market" json:"market" validate:"required,oneof=moneyline kill_total"`
	Selection  string           `db:"selection" json:"selection" validate:"required"`
	Line       *decimal.Decimal `db:"line" json:"line,omitempty"`
	Price      decimal.Decimal  `db:"price" json:"price" validate:"required"`
	Provider   string           `db:"provider" json:"provider" validate:"required"`
	ObservedAt time.Time        `db:"observed_at" json:"observed_at" validate:"required"`
}

// PriceFloat returns the decimal price as a float for model arithmetic
func (q *OddsQuote) PriceFloat() float64 {
	f, _ := q.Price.Float64()
	return f
}

// LineFloat returns the market line as a float, or false when the market has none
func (q *OddsQuote) LineFloat() (float64, bool) {
	if q.Line == nil {
		return 0, false
	}
	f, _ := q.Line.Float64()
	return f, true
}
