// Package reasoning produces deterministic justification text for trades.
//
// Each call walks a fixed sequence of threshold ladders; every ladder emits
// exactly one fragment, so identical inputs always yield identical text.
// That property is what makes fallback-vs-advisor output comparable and the
// engine testable.
package reasoning

import (
	"fmt"

	"github.com/foliolab/folio/internal/models"
)

// Explain returns the ordered reason fragments for a proposed action on a
// symbol. Five fragments when the category has sector stats, four otherwise:
// sector, momentum, yield (buy) or valuation (sell), market stance, risk.
func Explain(symbol string, category models.Category, market *models.MarketSummary, quote *models.Quote, action models.Action) []string {
	reasons := make([]string, 0, 5)

	if stats, ok := market.SectorFor(category); ok {
		reasons = append(reasons, sectorReason(stats, action))
	}

	reasons = append(reasons, momentumReason(quote, action))

	if action == models.ActionSell {
		reasons = append(reasons, valuationReason(quote))
	} else {
		reasons = append(reasons, dividendReason(quote))
	}

	reasons = append(reasons, stanceReason(market.Recommendation))
	reasons = append(reasons, riskReason(market.Risk, action))

	return reasons
}

func sectorReason(stats models.SectorStats, action models.Action) string {
	perf := stats.Performance

	if action == models.ActionSell {
		switch {
		case stats.Sentiment == models.SectorWeak && perf < -1:
			return fmt.Sprintf("Poor sector performance (%.1f%%) - reducing exposure", perf)
		case stats.Sentiment == models.SectorStrong && perf > 2:
			return fmt.Sprintf("Strong sector performance (%.1f%%) - profit taking opportunity", perf)
		default:
			return fmt.Sprintf("Mixed sector signals (%.1f%%) - strategic rebalancing", perf)
		}
	}

	switch {
	case stats.Sentiment == models.SectorStrong && perf > 1:
		return fmt.Sprintf("Strong sector momentum (+%.1f%%) - favorable entry point", perf)
	case stats.Sentiment == models.SectorWeak && perf < -1:
		return fmt.Sprintf("Weak sector performance (%.1f%%) - potential value opportunity", perf)
	default:
		return fmt.Sprintf("Stable sector performance (%.1f%%) - balanced risk/reward", perf)
	}
}

// momentumReason uses asymmetric thresholds: sells react to -3/+5, buys to
// ±2.
func momentumReason(quote *models.Quote, action models.Action) string {
	change := quote.ChangePct

	if action == models.ActionSell {
		switch {
		case change < -3:
			return fmt.Sprintf("Significant price decline (%.1f%%) - cutting losses", change)
		case change > 5:
			return fmt.Sprintf("Strong gains (%.1f%%) - taking profits", change)
		default:
			return fmt.Sprintf("Moderate price action (%+.1f%%) - portfolio rebalancing", change)
		}
	}

	switch {
	case change > 2:
		return fmt.Sprintf("Strong price momentum (+%.1f%%) - bullish trend", change)
	case change < -2:
		return fmt.Sprintf("Price weakness (%.1f%%) - potential oversold opportunity", change)
	default:
		return fmt.Sprintf("Stable price action (%+.1f%%) - steady performance", change)
	}
}

func dividendReason(quote *models.Quote) string {
	yield := quote.DividendYieldPct
	switch {
	case yield > 3:
		return fmt.Sprintf("Attractive dividend yield (%.1f%%) - income generation", yield)
	case yield > 1:
		return fmt.Sprintf("Modest dividend yield (%.1f%%) - some income", yield)
	default:
		return fmt.Sprintf("Growth-focused (low dividend %.1f%%) - capital appreciation", yield)
	}
}

func valuationReason(quote *models.Quote) string {
	if !quote.PEKnown {
		return "Valuation unavailable - rebalancing decision"
	}
	switch {
	case quote.PERatio > 30:
		return fmt.Sprintf("Overvalued (PE %.1f) - profit taking", quote.PERatio)
	case quote.PERatio < 10:
		return fmt.Sprintf("Undervalued but poor fundamentals (PE %.1f) - strategic exit", quote.PERatio)
	default:
		return fmt.Sprintf("Fair valuation (PE %.1f) - rebalancing decision", quote.PERatio)
	}
}

func stanceReason(stance models.Stance) string {
	switch stance {
	case models.StanceAggressiveBuy:
		return "Market conditions favor growth - aggressive positioning"
	case models.StanceDefensive:
		return "Defensive market conditions - capital preservation focus"
	default:
		return "Balanced market approach - diversified allocation"
	}
}

func riskReason(risk models.RiskLevel, action models.Action) string {
	if action == models.ActionSell {
		switch risk {
		case models.RiskHigh:
			return "High volatility environment - reducing risk exposure"
		case models.RiskLow:
			return "Stable conditions - strategic portfolio optimization"
		default:
			return "Moderate risk - tactical position adjustment"
		}
	}

	switch risk {
	case models.RiskLow:
		return "Low volatility environment - stable investment climate"
	case models.RiskHigh:
		return "High volatility detected - cautious positioning"
	default:
		return "Moderate risk environment - standard allocation"
	}
}
