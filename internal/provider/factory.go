package provider

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/rift-edge/internal/config"
)

// NewFromConfig builds the odds provider selected in configuration
func NewFromConfig(cfg *config.Config, logger *logrus.Logger) (OddsProvider, error) {
	switch cfg.Provider.Name {
	case pandaScoreName:
		httpCfg := DefaultHTTPClientConfig()
		httpCfg.Timeout = time.Duration(cfg.Provider.TimeoutSeconds) * time.Second
		httpCfg.RateLimit = cfg.Provider.RateLimitPerSec
		if cfg.Provider.MaxRetries > 0 {
			httpCfg.MaxRetries = cfg.Provider.MaxRetries
		}
		client := NewRateLimitedHTTPClient(httpCfg, logger)
		return NewPandaScoreProvider(cfg.Provider.BaseURL, cfg.Provider.Token, cfg.Engine.MonitoredLeagues, client, logger), nil
	case mockName:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown odds provider: %s", cfg.Provider.Name)
	}
}
