package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/rift-edge/internal/models"
	"github.com/yourusername/rift-edge/internal/repository"
)

// Dispatcher gates qualifying edges through the dedup store and hands them to
// the notifier. The dedup record is written only after the notifier confirms
// delivery; a failed send leaves the key open for the next cycle. The reverse
// ordering would trade duplicates for silently swallowed alerts.
type Dispatcher struct {
	alerts   repository.AlertRepository
	notifier Notifier
	logger   *logrus.Logger
	now      func() time.Time
}

// NewDispatcher creates an alert dispatcher
func NewDispatcher(alerts repository.AlertRepository, notifier Notifier, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		alerts:   alerts,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch sends the result unless an alert for the same (match, market,
// selection) was already sent within the current UTC day. Returns true when a
// notification went out.
func (d *Dispatcher) Dispatch(ctx context.Context, match models.Match, result models.EdgeResult) (bool, error) {
	key := models.NewAlertKey(result, d.now())

	exists, err := d.alerts.Has(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to check alert dedup: %w", err)
	}
	if exists {
		d.logger.WithFields(logrus.Fields{
			"match_id":  key.MatchID,
			"market":    key.Market,
			"selection": key.Selection,
			"bucket":    key.Bucket,
		}).Debug("Alert suppressed, already sent in bucket")
		return false, nil
	}

	if err := d.notifier.Notify(ctx, match, result); err != nil {
		return false, fmt.Errorf("failed to deliver alert: %w", err)
	}

	record := &models.AlertRecord{
		Key:       key,
		SentAt:    d.now().UTC(),
		Edge:      result.Edge,
		FairPrice: result.Estimate.FairPrice,
	}
	if err := d.alerts.Create(ctx, record); err != nil {
		// A concurrent writer won the race after our Has check. The alert went
		// out twice at most; the key is closed either way.
		if errors.Is(err, models.ErrDuplicateKey) {
			d.logger.WithFields(logrus.Fields{
				"match_id":  key.MatchID,
				"market":    key.Market,
				"selection": key.Selection,
			}).Warn("Alert record already existed after send")
			return true, nil
		}
		return true, fmt.Errorf("alert sent but dedup record failed: %w", err)
	}

	return true, nil
}
