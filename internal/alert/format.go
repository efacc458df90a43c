package alert

import (
	"fmt"
	"strings"

	"github.com/yourusername/rift-edge/internal/models"
)

// FormatMessage renders one qualifying edge as a human-readable notification.
// Plain text, no markup: team names routinely contain characters that trip
// Telegram's Markdown parser.
func FormatMessage(match models.Match, result models.EdgeResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "EDGE %s\n", strings.ToUpper(match.League))
	fmt.Fprintf(&b, "%s vs %s\n", match.TeamA, match.TeamB)
	fmt.Fprintf(&b, "Starts: %s\n", match.ScheduledStart.UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "Market: %s\n", formatMarket(result.Quote))
	fmt.Fprintf(&b, "Selection: %s\n", result.Quote.Selection)
	fmt.Fprintf(&b, "Price: %.2f (fair %.2f)\n", result.MarketPrice, result.Estimate.FairPrice)
	fmt.Fprintf(&b, "Model p: %.1f%%\n", result.Estimate.Probability*100)
	fmt.Fprintf(&b, "Edge: %+.1f%%", result.Edge*100)

	return b.String()
}

func formatMarket(quote models.OddsQuote) string {
	if line, ok := quote.LineFloat(); ok {
		return fmt.Sprintf("%s %.1f", quote.Market, line)
	}
	return quote.Market
}
