package models

// EdgeResult compares one fair estimate against one quoted price.
// One result per quote observation; alert-level dedup happens downstream.
type EdgeResult struct {
	Quote       OddsQuote        `json:"quote"`
	Estimate    FairOddsEstimate `json:"estimate"`
	MarketPrice float64          `json:"market_price"`
	Edge        float64          `json:"edge"`
	Qualifies   bool             `json:"qualifies"`
}
