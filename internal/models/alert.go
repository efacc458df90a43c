package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// AlertBucketFormat is the coarse time partition used for alert dedup:
// one UTC calendar day.
const AlertBucketFormat = "2006-01-02"

// AlertKey uniquely identifies a notifiable condition within a time bucket
type AlertKey struct {
	MatchID   uuid.UUID `db:"match_id" json:"match_id"`
	Market    string    `db:"market" json:"market"`
	Selection string    `db:"selection" json:"selection"`
	Bucket    string    `db:"bucket" json:"bucket"`
}

// AlertRecord marks a key as already notified. Records are insert-only and
// never mutated; existence is the sole gate against duplicate notification.
type AlertRecord struct {
	Key       AlertKey  `json:"key"`
	SentAt    time.Time `db:"sent_at" json:"sent_at"`
	Edge      float64   `db:"edge" json:"edge"`
	FairPrice float64   `db:"fair_price" json:"fair_price"`
}

// NewAlertKey builds the dedup key for an edge result at the given time.
// Quotes that carry a line fold it into the selection label ("over 24.5"),
// so the same side at two different lines dedups independently.
func NewAlertKey(result EdgeResult, at time.Time) AlertKey {
	selection := result.Quote.Selection
	if line, ok := result.Quote.LineFloat(); ok {
		selection += " " + strconv.FormatFloat(line, 'f', -1, 64)
	}
	return AlertKey{
		MatchID:   result.Quote.MatchID,
		Market:    result.Quote.Market,
		Selection: selection,
		Bucket:    at.UTC().Format(AlertBucketFormat),
	}
}
