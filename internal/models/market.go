package models

// Sentiment is the overall market mood derived from the research universe.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentNeutral Sentiment = "neutral"
	SentimentBearish Sentiment = "bearish"
)

// RiskLevel is the volatility-derived risk assessment.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Stance is the headline positioning recommendation.
type Stance string

const (
	StanceAggressiveBuy Stance = "aggressive_buy"
	StanceBalanced      Stance = "balanced"
	StanceDefensive     Stance = "defensive"
	// StanceCaution is the degraded default when no quote data is available.
	StanceCaution Stance = "proceed_with_caution"
)

// SectorSentiment classifies a sector's average momentum.
type SectorSentiment string

const (
	SectorStrong  SectorSentiment = "strong"
	SectorNeutral SectorSentiment = "neutral"
	SectorWeak    SectorSentiment = "weak"
)

// SectorStats summarizes one sector's members present in the quote set.
type SectorStats struct {
	Performance   float64         `json:"performance"`
	DividendYield float64         `json:"dividend_yield"`
	Sentiment     SectorSentiment `json:"sentiment"`
}

// MarketSummary is the per-cycle market condition analysis. Immutable once
// produced; cached with a 5-minute validity window.
type MarketSummary struct {
	Sentiment      Sentiment              `json:"sentiment"`
	Risk           RiskLevel              `json:"risk"`
	Recommendation Stance                 `json:"recommendation"`
	SectorAnalysis map[string]SectorStats `json:"sector_analysis"`
	Insights       []string               `json:"insights"`
}

// SectorFor returns the stats backing a category, if any sector member was
// present in the analyzed quote set.
func (m *MarketSummary) SectorFor(category Category) (SectorStats, bool) {
	name, ok := CategorySector[category]
	if !ok {
		return SectorStats{}, false
	}
	stats, ok := m.SectorAnalysis[name]
	return stats, ok
}
