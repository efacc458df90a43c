package models

import "errors"

// Custom errors
var (
	ErrInsufficientData    = errors.New("insufficient historical data")
	ErrProviderUnavailable = errors.New("odds provider unavailable")
	ErrMalformedQuote      = errors.New("malformed odds quote")
	ErrMalformedStats      = errors.New("malformed team statistics")
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateKey        = errors.New("duplicate key violation")
)

// IsInsufficientData reports whether err is an insufficient-data exclusion.
// Callers treat it as an expected skip, not a failure.
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
