// Package market converts quote baskets into market condition summaries
package market

import "github.com/foliolab/folio/internal/models"

// Summarize computes a MarketSummary from a basket of quotes and a
// sector-to-symbols grouping. Pure: identical inputs always produce an
// identical summary.
func Summarize(quotes models.QuoteSet, sectors map[string][]string) *models.MarketSummary {
	summary := &models.MarketSummary{
		Sentiment:      models.SentimentNeutral,
		Risk:           models.RiskMedium,
		Recommendation: models.StanceCaution,
		SectorAnalysis: make(map[string]models.SectorStats),
		Insights:       []string{},
	}

	// Empty basket: degraded default, no insights, no division by zero.
	if len(quotes) == 0 {
		return summary
	}

	positive := 0
	for _, q := range quotes {
		if q.ChangePct > 0 {
			positive++
		}
	}

	p := float64(positive) / float64(len(quotes))
	switch {
	case p > 0.7:
		summary.Sentiment = models.SentimentBullish
		summary.Insights = append(summary.Insights, "Strong positive momentum across major indices")
	case p < 0.3:
		summary.Sentiment = models.SentimentBearish
		summary.Insights = append(summary.Insights, "Widespread selling pressure in markets")
	default:
		summary.Sentiment = models.SentimentNeutral
		summary.Insights = append(summary.Insights, "Mixed signals with sector rotation")
	}

	for name, members := range sectors {
		var sumChange, sumYield float64
		present := 0
		for _, symbol := range members {
			q, ok := quotes[symbol]
			if !ok {
				continue
			}
			sumChange += q.ChangePct
			sumYield += q.DividendYieldPct
			present++
		}
		if present == 0 {
			continue
		}

		avgChange := sumChange / float64(present)
		stats := models.SectorStats{
			Performance:   avgChange,
			DividendYield: sumYield / float64(present),
			Sentiment:     models.SectorNeutral,
		}
		if avgChange > 1 {
			stats.Sentiment = models.SectorStrong
		} else if avgChange < -1 {
			stats.Sentiment = models.SectorWeak
		}
		summary.SectorAnalysis[name] = stats
	}

	var absSum float64
	for _, q := range quotes {
		if q.ChangePct < 0 {
			absSum -= q.ChangePct
		} else {
			absSum += q.ChangePct
		}
	}
	volatility := absSum / float64(len(quotes))
	switch {
	case volatility > 2:
		summary.Risk = models.RiskHigh
		summary.Insights = append(summary.Insights, "High volatility detected - markets are unstable")
	case volatility < 0.5:
		summary.Risk = models.RiskLow
		summary.Insights = append(summary.Insights, "Low volatility - stable market conditions")
	default:
		summary.Risk = models.RiskMedium
	}

	// First match wins: aggressive, then defensive, then balanced.
	switch {
	case summary.Sentiment == models.SentimentBullish && summary.Risk == models.RiskLow:
		summary.Recommendation = models.StanceAggressiveBuy
		summary.Insights = append(summary.Insights, "Favorable conditions for aggressive investment")
	case summary.Sentiment == models.SentimentBearish || summary.Risk == models.RiskHigh:
		summary.Recommendation = models.StanceDefensive
		summary.Insights = append(summary.Insights, "Consider defensive positioning with bonds")
	default:
		summary.Recommendation = models.StanceBalanced
		summary.Insights = append(summary.Insights, "Balanced approach recommended")
	}

	return summary
}
