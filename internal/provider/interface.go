// Package provider implements odds-provider clients for the Rift Edge engine.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/rift-edge/internal/models"
)

// OddsProvider defines the interface for fetching pre-match odds quotes
type OddsProvider interface {
	// FetchQuotes retrieves quotes for all monitored matches starting within
	// the lookahead window. A provider-level failure wraps
	// models.ErrProviderUnavailable and is treated as a cycle-level failure
	// by the engine.
	FetchQuotes(ctx context.Context, window time.Duration) ([]MatchQuotes, error)

	// Name returns the name of the provider
	Name() string
}

// MatchQuotes groups a match with the quotes observed for it in one fetch
type MatchQuotes struct {
	Match  models.Match
	Quotes []models.OddsQuote
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Provider string // provider name
	Code     string // error code (e.g. "rate_limit_exceeded")
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + ": " + e.Code + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return models.ErrProviderUnavailable
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeInvalidData          = "invalid_data"
)

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Code: code, Message: message, Err: err}
}

// IsUnavailable reports whether err represents a whole-cycle provider outage
func IsUnavailable(err error) bool {
	return errors.Is(err, models.ErrProviderUnavailable)
}
