package fairodds

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/yourusername/rift-edge/internal/models"
)

// Estimator applies the strength model and calculator to concrete matches,
// caching results per (match, market, line, snapshot) so unchanged inputs are
// not recomputed on every poll cycle.
type Estimator struct {
	calc     *Calculator
	minGames int
	cache    *gocache.Cache
}

// NewEstimator creates an estimator. cacheTTL bounds how long an estimate may
// be reused even when its inputs look unchanged.
func NewEstimator(calc *Calculator, minGamesPlayed int, cacheTTL time.Duration) *Estimator {
	return &Estimator{
		calc:     calc,
		minGames: minGamesPlayed,
		cache:    gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// EstimateMarket produces one estimate per selection of the given market.
// Moneyline selections carry the concrete team names; totals carry over/under.
// Returns models.ErrInsufficientData when either team is below the minimum
// sample size; the caller must skip the match.
func (e *Estimator) EstimateMarket(
	match models.Match,
	market string,
	line *float64,
	statsA, statsB models.TeamStats,
	snapshotStamp string,
) ([]*models.FairOddsEstimate, error) {
	key := cacheKey(match, market, line, snapshotStamp)
	if cached, ok := e.cache.Get(key); ok {
		return cached.([]*models.FairOddsEstimate), nil
	}

	rateA, err := Strength(statsA, e.minGames)
	if err != nil {
		return nil, err
	}
	rateB, err := Strength(statsB, e.minGames)
	if err != nil {
		return nil, err
	}

	probs, err := e.calc.FairOdds(rateA, rateB, market, line)
	if err != nil {
		return nil, err
	}

	computedAt := time.Now().UTC()
	estimates := make([]*models.FairOddsEstimate, 0, len(probs))
	for selection, p := range probs {
		estimates = append(estimates, &models.FairOddsEstimate{
			MatchID:      match.ID,
			Market:       market,
			Selection:    concreteSelection(match, market, selection),
			Line:         line,
			Probability:  p,
			FairPrice:    FairPrice(p),
			ModelVersion: ModelVersion,
			ComputedAt:   computedAt,
		})
	}

	e.cache.Set(key, estimates, gocache.DefaultExpiration)
	return estimates, nil
}

// concreteSelection maps the calculator's abstract selection keys onto the
// labels quoted by providers
func concreteSelection(match models.Match, market, selection string) string {
	if market != models.MarketMoneyline {
		return selection
	}
	switch selection {
	case SelectionTeamA:
		return match.TeamA
	case SelectionTeamB:
		return match.TeamB
	default:
		return selection
	}
}

func cacheKey(match models.Match, market string, line *float64, snapshotStamp string) string {
	if line != nil {
		return fmt.Sprintf("%s|%s|%.2f|%s", match.ID, market, *line, snapshotStamp)
	}
	return fmt.Sprintf("%s|%s|-|%s", match.ID, market, snapshotStamp)
}
