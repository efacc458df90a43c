// Package alert dispatches qualifying edges, at most once per key and day.
package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/rift-edge/internal/models"
)

// telegramSendInterval spaces messages to the same chat; Telegram rejects
// bursts well below its documented per-minute limit.
const telegramSendInterval = 2 * time.Second

// Notifier delivers one alert to the outside world. Implementations must
// return a non-nil error whenever delivery is not confirmed, so the caller
// can hold back the dedup record and retry on a later cycle.
type Notifier interface {
	Notify(ctx context.Context, match models.Match, result models.EdgeResult) error
}

// TelegramNotifier sends alerts to a single Telegram chat
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *logrus.Logger

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier creates a notifier and verifies the token against the
// Bot API before returning.
func NewTelegramNotifier(token string, chatID int64, logger *logrus.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	me, err := bot.GetMe()
	if err != nil {
		return nil, fmt.Errorf("failed to verify telegram bot token: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"bot":     me.UserName,
		"chat_id": chatID,
	}).Info("Telegram notifier initialized")

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}, nil
}

// Notify sends one alert message, pacing consecutive sends by
// telegramSendInterval.
func (n *TelegramNotifier) Notify(ctx context.Context, match models.Match, result models.EdgeResult) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if wait := telegramSendInterval - time.Since(n.lastSend); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatMessage(match, result))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram alert: %w", err)
	}
	n.lastSend = time.Now()

	n.logger.WithFields(logrus.Fields{
		"match":     fmt.Sprintf("%s vs %s", match.TeamA, match.TeamB),
		"market":    result.Quote.Market,
		"selection": result.Quote.Selection,
		"edge":      result.Edge,
	}).Info("Alert sent")

	return nil
}

// LogNotifier writes alerts to the log only. Used when no Telegram token is
// configured and in tests.
type LogNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the alert at warn level so it stands out of cycle chatter
func (n *LogNotifier) Notify(_ context.Context, match models.Match, result models.EdgeResult) error {
	n.logger.WithFields(logrus.Fields{
		"match":     fmt.Sprintf("%s vs %s", match.TeamA, match.TeamB),
		"market":    result.Quote.Market,
		"selection": result.Quote.Selection,
		"price":     result.MarketPrice,
		"edge":      result.Edge,
	}).Warn("Edge alert (log-only notifier)")
	return nil
}
