// Package engine drives the poll cycle: fetch quotes, model fair odds,
// evaluate edges, dispatch alerts.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/rift-edge/internal/alert"
	"github.com/yourusername/rift-edge/internal/config"
	"github.com/yourusername/rift-edge/internal/edge"
	"github.com/yourusername/rift-edge/internal/fairodds"
	"github.com/yourusername/rift-edge/internal/metrics"
	"github.com/yourusername/rift-edge/internal/models"
	"github.com/yourusername/rift-edge/internal/provider"
	"github.com/yourusername/rift-edge/internal/repository"
	"github.com/yourusername/rift-edge/internal/stats"
)

// Skip reasons reported on the matches_skipped metric
const (
	skipNotUpcoming      = "not_upcoming"
	skipUnknownTeam      = "unknown_team"
	skipInsufficientData = "insufficient_data"
	skipEvaluationError  = "evaluation_error"
)

// Engine is the polling cycle controller. Cycles run strictly one at a time
// on a fixed interval; a slow cycle delays the next tick rather than
// overlapping it. A provider-level failure skips the whole cycle without
// touching persistence or notification state.
type Engine struct {
	cfg        config.EngineConfig
	provider   provider.OddsProvider
	loader     *stats.Loader
	estimator  *fairodds.Estimator
	evaluator  *edge.Evaluator
	dispatcher *alert.Dispatcher
	quotes     repository.QuoteRepository
	estimates  repository.EstimateRepository
	logger     *logrus.Logger

	mu       sync.RWMutex
	snapshot *stats.Snapshot
}

// New creates an engine. The stats snapshot starts empty; call RefreshStats
// before Run, or let Run's startup refresh populate it.
func New(
	cfg config.EngineConfig,
	oddsProvider provider.OddsProvider,
	loader *stats.Loader,
	estimator *fairodds.Estimator,
	evaluator *edge.Evaluator,
	dispatcher *alert.Dispatcher,
	quotes repository.QuoteRepository,
	estimates repository.EstimateRepository,
	logger *logrus.Logger,
) *Engine {
	return &Engine{
		cfg:        cfg,
		provider:   oddsProvider,
		loader:     loader,
		estimator:  estimator,
		evaluator:  evaluator,
		dispatcher: dispatcher,
		quotes:     quotes,
		estimates:  estimates,
		logger:     logger,
	}
}

// RefreshStats loads a fresh snapshot and swaps it in. On failure the
// previous snapshot stays active and the error is returned; the engine keeps
// evaluating against stale data rather than stopping.
func (e *Engine) RefreshStats(ctx context.Context) error {
	start := time.Now()

	snapshot, err := e.loader.Load(ctx)
	if err != nil {
		metrics.RecordStatsRefresh("failure", time.Since(start).Seconds())
		return fmt.Errorf("stats refresh failed: %w", err)
	}

	e.mu.Lock()
	e.snapshot = snapshot
	e.mu.Unlock()

	metrics.RecordStatsRefresh("success", time.Since(start).Seconds())
	metrics.SnapshotTeams.Set(float64(snapshot.Len()))
	return nil
}

// SnapshotAge reports the age of the active snapshot, and false when none is
// loaded yet. Implements the health server's snapshot check.
func (e *Engine) SnapshotAge() (time.Duration, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.snapshot == nil {
		return 0, false
	}
	return time.Since(e.snapshot.LoadedAt), true
}

func (e *Engine) currentSnapshot() *stats.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// Run executes poll cycles until ctx is cancelled. The first cycle runs
// immediately. Startup fails if no snapshot can be loaded at all; after that,
// refresh failures only degrade to the previous snapshot.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentSnapshot() == nil {
		if err := e.RefreshStats(ctx); err != nil {
			return fmt.Errorf("initial stats load failed: %w", err)
		}
	}

	e.logger.WithFields(logrus.Fields{
		"poll_interval":  e.cfg.PollInterval().String(),
		"lookahead":      e.cfg.LookaheadWindow().String(),
		"edge_threshold": e.evaluator.Threshold(),
		"provider":       e.provider.Name(),
	}).Info("Engine starting")

	ticker := time.NewTicker(e.cfg.PollInterval())
	defer ticker.Stop()

	e.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Engine stopping")
			return ctx.Err()
		case <-ticker.C:
			// Cycles run inline, so a slow cycle makes the ticker drop
			// ticks instead of running cycles concurrently.
			e.RunCycle(ctx)
		}
	}
}

// RunCycle executes one full poll cycle
func (e *Engine) RunCycle(ctx context.Context) {
	start := time.Now()

	fetchStart := time.Now()
	matchQuotes, err := e.provider.FetchQuotes(ctx, e.cfg.LookaheadWindow())
	metrics.ProviderFetchDuration.Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		// The whole cycle is abandoned: nothing is persisted, no alert
		// state changes. The next tick retries from scratch.
		metrics.RecordCycleSkipped()
		if provider.IsUnavailable(err) {
			metrics.ProviderErrorsTotal.Inc()
			e.logger.WithError(err).Warn("Provider unavailable, skipping cycle")
		} else {
			e.logger.WithError(err).Error("Provider fetch failed, skipping cycle")
		}
		return
	}

	snapshot := e.currentSnapshot()
	snapshotStamp := fmt.Sprintf("%s@%d", snapshot.Source, snapshot.LoadedAt.Unix())
	metrics.SnapshotAgeSeconds.Set(time.Since(snapshot.LoadedAt).Seconds())
	metrics.UpcomingMatches.Set(float64(len(matchQuotes)))

	var quotesSeen, alertsSent int
	maxEdge := 0.0

	for _, mq := range matchQuotes {
		quotesSeen += len(mq.Quotes)

		sent, cycleMax, err := e.evaluateMatch(ctx, mq, snapshot, snapshotStamp)
		if err != nil {
			// One bad match never takes down the rest of the cycle
			metrics.RecordMatchSkipped(skipEvaluationError)
			e.logger.WithError(err).WithFields(logrus.Fields{
				"match_id": mq.Match.ID,
				"teams":    fmt.Sprintf("%s vs %s", mq.Match.TeamA, mq.Match.TeamB),
			}).Error("Match evaluation failed, continuing cycle")
			continue
		}
		alertsSent += sent
		if cycleMax > maxEdge {
			maxEdge = cycleMax
		}
	}

	metrics.QuotesFetchedTotal.Add(float64(quotesSeen))
	metrics.LastCycleEdgeMax.Set(maxEdge)
	metrics.RecordCycle(time.Since(start).Seconds())

	e.logger.WithFields(logrus.Fields{
		"matches":     len(matchQuotes),
		"quotes":      quotesSeen,
		"alerts_sent": alertsSent,
		"max_edge":    maxEdge,
		"duration":    time.Since(start).String(),
	}).Info("Cycle completed")
}

// evaluateMatch models, evaluates, and dispatches everything for one match.
// Returns the number of alerts sent and the largest edge seen.
func (e *Engine) evaluateMatch(ctx context.Context, mq provider.MatchQuotes, snapshot *stats.Snapshot, snapshotStamp string) (int, float64, error) {
	match := mq.Match

	if !match.IsUpcoming() {
		metrics.RecordMatchSkipped(skipNotUpcoming)
		return 0, 0, nil
	}

	statsA, okA := snapshot.Team(match.TeamA)
	statsB, okB := snapshot.Team(match.TeamB)
	if !okA || !okB {
		metrics.RecordMatchSkipped(skipUnknownTeam)
		e.logger.WithFields(logrus.Fields{
			"match_id":     match.ID,
			"team_a":       match.TeamA,
			"team_a_known": okA,
			"team_b":       match.TeamB,
			"team_b_known": okB,
		}).Debug("Skipping match, team missing from stats snapshot")
		return 0, 0, nil
	}

	if err := e.persistQuotes(ctx, mq.Quotes); err != nil {
		return 0, 0, err
	}

	estimates, skipped, err := e.estimateMarkets(match, mq.Quotes, statsA, statsB, snapshotStamp)
	if err != nil {
		return 0, 0, err
	}
	if skipped {
		return 0, 0, nil
	}

	if err := e.persistEstimates(ctx, estimates); err != nil {
		return 0, 0, err
	}

	return e.dispatchEdges(ctx, match, mq.Quotes, estimates)
}

// estimateMarkets produces estimates for every distinct (market, line) quoted
// on the match. skipped reports an insufficient-data exclusion, which is an
// expected outcome rather than an error.
func (e *Engine) estimateMarkets(
	match models.Match,
	quotes []models.OddsQuote,
	statsA, statsB models.TeamStats,
	snapshotStamp string,
) (estimates []*models.FairOddsEstimate, skipped bool, err error) {
	type marketKey struct {
		market  string
		line    float64
		hasLine bool
	}
	seen := make(map[marketKey]bool)

	for _, quote := range quotes {
		key := marketKey{market: quote.Market}
		if line, ok := quote.LineFloat(); ok {
			key.line = line
			key.hasLine = true
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		var linePtr *float64
		if key.hasLine {
			line := key.line
			linePtr = &line
		}

		marketEstimates, err := e.estimator.EstimateMarket(match, quote.Market, linePtr, statsA, statsB, snapshotStamp)
		if err != nil {
			if models.IsInsufficientData(err) {
				metrics.RecordMatchSkipped(skipInsufficientData)
				e.logger.WithFields(logrus.Fields{
					"match_id": match.ID,
					"teams":    fmt.Sprintf("%s vs %s", match.TeamA, match.TeamB),
				}).Info("Skipping match, insufficient historical data")
				return nil, true, nil
			}
			return nil, false, err
		}
		estimates = append(estimates, marketEstimates...)
	}

	return estimates, false, nil
}

// estimateKey pairs a quote with its estimate. The line is part of the key:
// totals quoted at two different lines on the same match are distinct
// selections and must never share an estimate.
func estimateKey(market, selection string, line *float64) string {
	if line == nil {
		return market + "|" + selection
	}
	return market + "|" + selection + "|" + strconv.FormatFloat(*line, 'f', -1, 64)
}

// dispatchEdges evaluates every quote against its estimate and sends
// qualifying alerts through the dedup gate.
func (e *Engine) dispatchEdges(ctx context.Context, match models.Match, quotes []models.OddsQuote, estimates []*models.FairOddsEstimate) (int, float64, error) {
	byKey := make(map[string]*models.FairOddsEstimate, len(estimates))
	for _, est := range estimates {
		byKey[estimateKey(est.Market, est.Selection, est.Line)] = est
	}

	sent := 0
	maxEdge := 0.0
	var firstErr error

	for _, quote := range quotes {
		var quoteLine *float64
		if line, ok := quote.LineFloat(); ok {
			quoteLine = &line
		}
		est, ok := byKey[estimateKey(quote.Market, quote.Selection, quoteLine)]
		if !ok {
			e.logger.WithFields(logrus.Fields{
				"match_id":  match.ID,
				"market":    quote.Market,
				"selection": quote.Selection,
			}).Debug("No estimate for quoted selection")
			continue
		}

		result := e.evaluator.Evaluate(quote, *est)
		if result.Edge > maxEdge {
			maxEdge = result.Edge
		}
		if !result.Qualifies {
			continue
		}
		metrics.EdgesQualifiedTotal.Inc()

		dispatched, err := e.dispatcher.Dispatch(ctx, match, result)
		if err != nil {
			// Delivery failures leave the dedup key open; the next cycle retries
			if firstErr == nil {
				firstErr = err
			}
			e.logger.WithError(err).WithFields(logrus.Fields{
				"match_id":  match.ID,
				"market":    quote.Market,
				"selection": quote.Selection,
			}).Error("Alert dispatch failed")
			continue
		}
		if dispatched {
			sent++
			metrics.AlertsSentTotal.Inc()
		} else {
			metrics.AlertsSuppressedTotal.Inc()
		}
	}

	return sent, maxEdge, firstErr
}

func (e *Engine) persistQuotes(ctx context.Context, quotes []models.OddsQuote) error {
	if e.quotes == nil || len(quotes) == 0 {
		return nil
	}
	batch := make([]*models.OddsQuote, len(quotes))
	for i := range quotes {
		batch[i] = &quotes[i]
	}
	if err := e.quotes.InsertBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to persist quotes: %w", err)
	}
	return nil
}

func (e *Engine) persistEstimates(ctx context.Context, estimates []*models.FairOddsEstimate) error {
	if e.estimates == nil || len(estimates) == 0 {
		return nil
	}
	if err := e.estimates.InsertBatch(ctx, estimates); err != nil {
		return fmt.Errorf("failed to persist estimates: %w", err)
	}
	return nil
}
