// Package edge compares fair estimates against quoted market prices.
package edge

import (
	"github.com/yourusername/rift-edge/internal/models"
)

// Evaluator computes edge values against a configured alert threshold
type Evaluator struct {
	threshold float64
}

// NewEvaluator creates an evaluator. threshold must be non-negative.
func NewEvaluator(threshold float64) *Evaluator {
	if threshold < 0 {
		threshold = 0
	}
	return &Evaluator{threshold: threshold}
}

// Edge is the expected value of a unit stake at the quoted price when the
// fair probability is correct: edge = p*price - 1. Zero means the market
// price exactly matches the fair price.
func Edge(fairProbability, marketPrice float64) float64 {
	return fairProbability*marketPrice - 1
}

// Evaluate produces one EdgeResult for one quote observation. Quotes are
// evaluated independently per observation; alert-level dedup is downstream.
func (e *Evaluator) Evaluate(quote models.OddsQuote, estimate models.FairOddsEstimate) models.EdgeResult {
	price := quote.PriceFloat()
	value := Edge(estimate.Probability, price)

	return models.EdgeResult{
		Quote:       quote,
		Estimate:    estimate,
		MarketPrice: price,
		Edge:        value,
		Qualifies:   value >= e.threshold,
	}
}

// Threshold returns the configured alert gate
func (e *Evaluator) Threshold() float64 {
	return e.threshold
}
