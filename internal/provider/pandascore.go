package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/rift-edge/internal/models"
)

const pandaScoreName = "pandascore"

// matchNamespace makes match UUIDs deterministic per provider source ID, so
// quotes and alert records for the same fixture line up across poll cycles.
var matchNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("rift-edge/match"))

// PandaScoreProvider fetches LoL pre-match odds from the PandaScore REST API
type PandaScoreProvider struct {
	baseURL  string
	token    string
	leagues  map[string]bool
	client   *RateLimitedHTTPClient
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewPandaScoreProvider creates a new PandaScore provider
func NewPandaScoreProvider(baseURL, token string, leagues []string, client *RateLimitedHTTPClient, logger *logrus.Logger) *PandaScoreProvider {
	monitored := make(map[string]bool, len(leagues))
	for _, l := range leagues {
		monitored[strings.ToLower(strings.TrimSpace(l))] = true
	}

	return &PandaScoreProvider{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		leagues:  monitored,
		client:   client,
		validate: validator.New(),
		logger:   logger,
	}
}

// Name returns the provider name
func (p *PandaScoreProvider) Name() string {
	return pandaScoreName
}

// Wire types for the PandaScore upcoming-matches payload
type psMatch struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	BeginAt   *time.Time   `json:"begin_at"`
	Status    string       `json:"status"`
	League    psLeague     `json:"league"`
	Opponents []psOpponent `json:"opponents"`
	Markets   []psMarket   `json:"markets"`
}

type psLeague struct {
	Slug string `json:"slug"`
}

type psOpponent struct {
	Opponent psTeam `json:"opponent"`
}

type psTeam struct {
	Name string `json:"name"`
}

type psMarket struct {
	Name       string        `json:"name"`
	Line       *float64      `json:"line"`
	Selections []psSelection `json:"selections"`
}

type psSelection struct {
	Name string  `json:"name"`
	Odd  float64 `json:"odd"`
}

// FetchQuotes retrieves pre-match quotes for monitored leagues within the window
func (p *PandaScoreProvider) FetchQuotes(ctx context.Context, window time.Duration) ([]MatchQuotes, error) {
	now := time.Now().UTC()
	endpoint := fmt.Sprintf("%s/lol/matches/upcoming?%s", p.baseURL, url.Values{
		"range[begin_at]": {fmt.Sprintf("%s,%s", now.Format(time.RFC3339), now.Add(window).Format(time.RFC3339))},
		"per_page":        {"100"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, NewProviderError(pandaScoreName, ErrCodeNetworkError, "upcoming matches request failed", err)
	}
	defer DrainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewProviderError(pandaScoreName, ErrCodeAuthenticationFailed,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	case resp.StatusCode >= 500:
		return nil, NewProviderError(pandaScoreName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, NewProviderError(pandaScoreName, ErrCodeInvalidData,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload []psMatch
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewProviderError(pandaScoreName, ErrCodeInvalidData, "failed to decode response", err)
	}

	observed := time.Now().UTC()
	results := make([]MatchQuotes, 0, len(payload))
	for _, raw := range payload {
		mq, err := p.normalizeMatch(raw, observed)
		if err != nil {
			// Malformed records are skipped, not fatal
			p.logger.WithFields(logrus.Fields{
				"source_id": raw.ID,
				"match":     raw.Name,
				"error":     err.Error(),
			}).Debug("Skipping malformed match record")
			continue
		}
		if mq == nil {
			continue
		}
		results = append(results, *mq)
	}

	return results, nil
}

// normalizeMatch converts one wire record into a match with validated quotes.
// Returns (nil, nil) for matches filtered out by league or lifecycle state.
func (p *PandaScoreProvider) normalizeMatch(raw psMatch, observedAt time.Time) (*MatchQuotes, error) {
	if len(p.leagues) > 0 && !p.leagues[strings.ToLower(raw.League.Slug)] {
		return nil, nil
	}
	if raw.Status != "" && raw.Status != "not_started" {
		return nil, nil
	}
	if raw.BeginAt == nil {
		return nil, fmt.Errorf("%w: missing begin_at", models.ErrMalformedQuote)
	}
	if len(raw.Opponents) != 2 {
		return nil, fmt.Errorf("%w: expected 2 opponents, got %d", models.ErrMalformedQuote, len(raw.Opponents))
	}

	sourceID := fmt.Sprintf("%s:%d", pandaScoreName, raw.ID)
	match := models.Match{
		ID:             uuid.NewSHA1(matchNamespace, []byte(sourceID)),
		SourceID:       sourceID,
		League:         strings.ToLower(raw.League.Slug),
		TeamA:          raw.Opponents[0].Opponent.Name,
		TeamB:          raw.Opponents[1].Opponent.Name,
		ScheduledStart: raw.BeginAt.UTC(),
		Status:         models.MatchStatusUpcoming,
		CreatedAt:      observedAt,
	}
	if err := p.validate.Struct(&match); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedQuote, err)
	}

	quotes := make([]models.OddsQuote, 0, len(raw.Markets)*2)
	for _, market := range raw.Markets {
		marketType, line, ok := classifyMarket(market)
		if !ok {
			continue
		}
		for _, sel := range market.Selections {
			quote, err := p.buildQuote(match, marketType, line, sel, observedAt)
			if err != nil {
				p.logger.WithFields(logrus.Fields{
					"match":     match.SourceID,
					"market":    market.Name,
					"selection": sel.Name,
					"error":     err.Error(),
				}).Debug("Skipping malformed quote")
				continue
			}
			quotes = append(quotes, quote)
		}
	}

	return &MatchQuotes{Match: match, Quotes: quotes}, nil
}

func (p *PandaScoreProvider) buildQuote(match models.Match, marketType string, line *float64, sel psSelection, observedAt time.Time) (models.OddsQuote, error) {
	if sel.Odd <= 1.0 {
		return models.OddsQuote{}, fmt.Errorf("%w: decimal price %.3f not above 1.0", models.ErrMalformedQuote, sel.Odd)
	}

	var lineDec *decimal.Decimal
	if line != nil {
		d := decimal.NewFromFloat(*line)
		lineDec = &d
	}

	quote := models.OddsQuote{
		ID:         uuid.New(),
		MatchID:    match.ID,
		Market:     marketType,
		Selection:  normalizeSelection(marketType, sel.Name),
		Line:       lineDec,
		Price:      decimal.NewFromFloat(sel.Odd),
		Provider:   pandaScoreName,
		ObservedAt: observedAt,
	}
	if err := p.validate.Struct(&quote); err != nil {
		return models.OddsQuote{}, fmt.Errorf("%w: %v", models.ErrMalformedQuote, err)
	}
	return quote, nil
}

// classifyMarket maps a provider market name onto the internal market taxonomy
func classifyMarket(market psMarket) (string, *float64, bool) {
	name := strings.ToLower(market.Name)
	switch {
	case strings.Contains(name, "winner") || name == "ml" || strings.Contains(name, "moneyline"):
		return models.MarketMoneyline, nil, true
	case strings.Contains(name, "kill"):
		if market.Line == nil {
			return "", nil, false
		}
		return models.MarketKillTotal, market.Line, true
	default:
		return "", nil, false
	}
}

// normalizeSelection maps provider selection labels onto internal ones.
// Moneyline selections stay as the raw team names.
func normalizeSelection(marketType, raw string) string {
	if marketType == models.MarketKillTotal {
		switch strings.ToLower(raw) {
		case "over", "o":
			return models.SelectionOver
		case "under", "u":
			return models.SelectionUnder
		}
	}
	return raw
}
