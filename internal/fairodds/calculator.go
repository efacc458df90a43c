package fairodds

import (
	"fmt"
	"math"

	"github.com/yourusername/rift-edge/internal/models"
)

// ModelVersion tags every estimate produced by this calculator
const ModelVersion = "poisson-skellam/v1"

// Selection keys for the binary moneyline market. The engine maps these onto
// the concrete team names of a match.
const (
	SelectionTeamA = "team_a"
	SelectionTeamB = "team_b"
)

const (
	// normalizeEpsilon bounds acceptable drift of a market's probability sum
	normalizeEpsilon = 1e-6
	// minProbability floors a probability before price inversion. Defensive
	// only; the model never legitimately produces an exact zero.
	minProbability = 1e-9
)

// Calculator computes fair probabilities for supported markets from two
// teams' scoring rates, modeled as independent Poisson kill counts over an
// estimated match duration.
type Calculator struct {
	durationMin float64
}

// NewCalculator creates a calculator with the estimated match duration in minutes
func NewCalculator(matchDurationMinutes float64) (*Calculator, error) {
	if matchDurationMinutes <= 0 {
		return nil, fmt.Errorf("match duration must be positive, got %f", matchDurationMinutes)
	}
	return &Calculator{durationMin: matchDurationMinutes}, nil
}

// FairOdds returns the probability for each mutually exclusive selection of
// the given market. Probabilities sum to 1 within normalizeEpsilon.
// line is required for totals markets and ignored for moneyline.
func (c *Calculator) FairOdds(rateA, rateB ScoringRate, market string, line *float64) (map[string]float64, error) {
	if rateA < 0 || rateB < 0 {
		return nil, fmt.Errorf("scoring rates must be non-negative, got %f and %f", rateA, rateB)
	}

	switch market {
	case models.MarketMoneyline:
		pA, pB := c.Moneyline(rateA, rateB)
		return normalize(map[string]float64{
			SelectionTeamA: pA,
			SelectionTeamB: pB,
		}), nil
	case models.MarketKillTotal:
		if line == nil {
			return nil, fmt.Errorf("%w: kill total market requires a line", models.ErrMalformedQuote)
		}
		pOver, pUnder := c.KillTotal(rateA, rateB, *line)
		return normalize(map[string]float64{
			models.SelectionOver:  pOver,
			models.SelectionUnder: pUnder,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported market type: %s", market)
	}
}

// Moneyline derives win probabilities from the distribution of the kill-count
// difference between the two teams (Skellam from two Poisson rates). The tie
// mass is split evenly between the sides, keeping the pair anti-symmetric.
func (c *Calculator) Moneyline(rateA, rateB ScoringRate) (pA, pB float64) {
	lamA := float64(rateA) * c.durationMin
	lamB := float64(rateB) * c.durationMin

	limit := truncationLimit(lamA, lamB)

	pmfA := poissonPMFTable(lamA, limit)
	pmfB := poissonPMFTable(lamB, limit)

	// cdfB[k] = P(B <= k)
	cdfB := make([]float64, limit+1)
	running := 0.0
	for k := 0; k <= limit; k++ {
		running += pmfB[k]
		cdfB[k] = running
	}

	var win, tie float64
	for a := 0; a <= limit; a++ {
		if a > 0 {
			win += pmfA[a] * cdfB[a-1]
		}
		tie += pmfA[a] * pmfB[a]
	}

	pA = win + tie/2
	pB = 1 - pA
	return pA, pB
}

// KillTotal computes over/under probabilities for the combined kill count
// against a fractional line (e.g. 28.5).
func (c *Calculator) KillTotal(rateA, rateB ScoringRate, line float64) (pOver, pUnder float64) {
	lam := (float64(rateA) + float64(rateB)) * c.durationMin

	// P(total <= floor(line)); a fractional line cannot be pushed
	pUnder = poissonCDF(lam, int(math.Floor(line)))
	pOver = 1 - pUnder
	return pOver, pUnder
}

// FairPrice converts a probability into a zero-margin decimal price
func FairPrice(probability float64) float64 {
	if probability < minProbability {
		probability = minProbability
	}
	return 1.0 / probability
}

// normalize clamps probabilities to the open unit interval and rescales the
// market so its selections sum to exactly 1 when rounding drifted past epsilon.
func normalize(probs map[string]float64) map[string]float64 {
	sum := 0.0
	for key, p := range probs {
		if p < minProbability {
			p = minProbability
		}
		if p > 1 {
			p = 1
		}
		probs[key] = p
		sum += p
	}

	if math.Abs(sum-1) > normalizeEpsilon && sum > 0 {
		for key := range probs {
			probs[key] /= sum
		}
	}

	return probs
}

// truncationLimit bounds the Poisson support so the ignored tail mass is
// negligible relative to normalizeEpsilon.
func truncationLimit(lamA, lamB float64) int {
	lam := math.Max(lamA, lamB)
	limit := int(math.Ceil(lam+10*math.Sqrt(lam))) + 10
	if limit < 20 {
		limit = 20
	}
	return limit
}

// poissonPMF computes P(X = k) in log space for numerical stability
func poissonPMF(lam float64, k int) float64 {
	if lam <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	lg, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(float64(k)*math.Log(lam) - lam - lg)
}

// poissonPMFTable computes P(X = k) for k in [0, limit]
func poissonPMFTable(lam float64, limit int) []float64 {
	table := make([]float64, limit+1)
	for k := 0; k <= limit; k++ {
		table[k] = poissonPMF(lam, k)
	}
	return table
}

// poissonCDF computes P(X <= n)
func poissonCDF(lam float64, n int) float64 {
	if n < 0 {
		return 0
	}
	sum := 0.0
	for k := 0; k <= n; k++ {
		sum += poissonPMF(lam, k)
	}
	if sum > 1 {
		sum = 1
	}
	return sum
}
