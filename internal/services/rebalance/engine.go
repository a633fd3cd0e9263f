// Package rebalance implements the deterministic recommendation engine
package rebalance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/foliolab/folio/internal/common"
	"github.com/foliolab/folio/internal/interfaces"
	"github.com/foliolab/folio/internal/models"
	"github.com/foliolab/folio/internal/services/reasoning"
	"github.com/foliolab/folio/internal/services/scoring"
)

// Compile-time interface check
var _ interfaces.RebalanceService = (*Engine)(nil)

// Engine produces buy/sell recommendations that move a portfolio toward its
// target allocation while reacting to market conditions.
type Engine struct {
	logger        *common.Logger
	primaries     map[models.Category]string
	candidates    map[models.Category][]string
	bestPerformer bool
}

// EngineOption configures the engine
type EngineOption func(*Engine)

// WithBestPerformer toggles performance-based symbol selection on buys.
// When disabled, buys always use the category's primary ETF.
func WithBestPerformer(enabled bool) EngineOption {
	return func(e *Engine) {
		e.bestPerformer = enabled
	}
}

// NewEngine creates a rebalancing engine over the fixed policy maps.
func NewEngine(logger *common.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		logger:        logger,
		primaries:     models.PrimaryETFs,
		candidates:    models.DiversificationMap,
		bestPerformer: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rebalance runs one full cycle: policy overlay, sell evaluation, cash
// pooling, buy allocation, final ordering. Sells come first, then buys, all
// sorted by cost descending with stable ties.
func (e *Engine) Rebalance(input interfaces.RebalanceInput) []*models.Recommendation {
	adjusted := adjustAllocation(input.Target, input.Market.Recommendation)

	totalValue := input.State.TotalValue(input.Quotes)
	totalAvailable := totalValue + input.CashAvailable
	if totalAvailable <= 0 {
		return nil
	}

	breakdown := input.State.CategoryBreakdown(input.Quotes)
	categories := orderedCategories(adjusted)

	sells := e.evaluateSells(input, adjusted, breakdown, categories, totalAvailable)

	cashPool := input.CashAvailable
	for _, rec := range sells {
		cashPool += rec.Cost
	}

	buys := e.allocateBuys(input, adjusted, categories, cashPool)

	out := make([]*models.Recommendation, 0, len(sells)+len(buys))
	out = append(out, sells...)
	out = append(out, buys...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cost > out[j].Cost
	})

	e.logger.Info().
		Int("sells", len(sells)).
		Int("buys", len(buys)).
		Float64("cash_pool", cashPool).
		Msg("Rebalance cycle complete")

	return out
}

// adjustAllocation applies the market-stance policy overlay before any
// allocation math. Only US stocks and bonds shift; other categories are
// untouched.
func adjustAllocation(target models.TargetAllocation, stance models.Stance) models.TargetAllocation {
	adjusted := target.Clone()

	switch stance {
	case models.StanceAggressiveBuy:
		if pct, ok := target[models.CategoryStocksUS]; ok {
			adjusted[models.CategoryStocksUS] = min(70, pct+10)
		}
		if pct, ok := target[models.CategoryBonds]; ok {
			adjusted[models.CategoryBonds] = max(5, pct-10)
		}
	case models.StanceDefensive:
		if pct, ok := target[models.CategoryBonds]; ok {
			adjusted[models.CategoryBonds] = min(30, pct+15)
		}
		if pct, ok := target[models.CategoryStocksUS]; ok {
			adjusted[models.CategoryStocksUS] = max(40, pct-15)
		}
	}

	return adjusted
}

// orderedCategories returns the configured target categories in the fixed
// deterministic order.
func orderedCategories(target models.TargetAllocation) []models.Category {
	out := make([]models.Category, 0, len(target))
	for _, c := range models.CategoryOrder {
		if _, ok := target[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// evaluateSells checks the representative primary ETF of each category
// against the five sell triggers. Triggers fire independently; all fired
// reasons join into one sell action per category.
func (e *Engine) evaluateSells(
	input interfaces.RebalanceInput,
	adjusted models.TargetAllocation,
	breakdown map[models.Category]float64,
	categories []models.Category,
	totalAvailable float64,
) []*models.Recommendation {
	var sells []*models.Recommendation

	for _, category := range categories {
		targetPct := adjusted[category]
		symbol, ok := e.primaries[category]
		if !ok {
			continue
		}

		currentShares := input.State.Shares(symbol)
		if currentShares <= 0 {
			continue
		}

		quote, ok := input.Quotes[symbol]
		if !ok || quote.Price <= 0 {
			// No actionable price: intentional silent skip.
			continue
		}

		currentPct := breakdown[category] / totalAvailable * 100

		var reasons []string
		overweight := false

		if currentPct > targetPct+3 {
			overweight = true
			reasons = append(reasons, fmt.Sprintf("Portfolio overweight by %.1f%% - rebalancing needed", currentPct-targetPct))
		}
		if quote.ChangePct < -3 {
			reasons = append(reasons, fmt.Sprintf("Poor performance (%.1f%%) - cutting losses", quote.ChangePct))
		}
		if quote.PEKnown && quote.PERatio > 30 {
			reasons = append(reasons, fmt.Sprintf("Overvalued (PE %.1f) - profit taking", quote.PERatio))
		}

		sectorSentiment := models.SectorNeutral
		if stats, ok := input.Market.SectorFor(category); ok {
			sectorSentiment = stats.Sentiment
		}
		if sectorSentiment == models.SectorWeak && currentPct > 5 {
			reasons = append(reasons, "Weak sector sentiment - reducing exposure")
		}
		if input.Market.Risk == models.RiskHigh && currentPct > 15 {
			reasons = append(reasons, "High volatility environment - reducing risk exposure")
		}

		if len(reasons) == 0 {
			continue
		}

		var shares int
		if overweight {
			// Overweight quantity takes precedence over the fractional rule.
			shares = int((currentPct - targetPct) / 100 * totalAvailable / quote.Price)
		} else {
			fraction := 0.15
			if input.Market.Risk == models.RiskHigh {
				fraction = 0.20
			}
			shares = int(float64(currentShares) * fraction)
		}
		if shares > currentShares {
			shares = currentShares
		}
		if shares < 1 {
			shares = 1
		}

		cost := float64(shares) * quote.Price

		sells = append(sells, &models.Recommendation{
			Symbol:          symbol,
			Shares:          shares,
			Cost:            cost,
			Category:        category,
			Action:          models.ActionSell,
			Score:           scoring.Score(symbol, input.Quotes),
			Reasoning:       fmt.Sprintf("Sell %d shares of %s - %s", shares, symbol, strings.Join(reasons, ", ")),
			DetailedReasons: reasoning.Explain(symbol, category, input.Market, quote, models.ActionSell),
			Priority:        models.PriorityHigh,
			Source:          models.SourceAlgorithmic,
		})
	}

	return sells
}

// allocateBuys deploys the cash pool across target categories in a single
// pass. Every category but the last gets its proportional slice; the last
// absorbs whatever remains. Integer share rounding in earlier categories can
// leave a few dollars undeployed when the final category is skipped.
func (e *Engine) allocateBuys(
	input interfaces.RebalanceInput,
	adjusted models.TargetAllocation,
	categories []models.Category,
	cashPool float64,
) []*models.Recommendation {
	var buys []*models.Recommendation
	remaining := cashPool

	for i, category := range categories {
		targetPct := adjusted[category]

		symbol, quote := e.selectBuySymbol(category, input.Quotes)
		if quote == nil || quote.Price <= 0 {
			continue
		}

		var shares int
		var cost float64
		if i == len(categories)-1 {
			shares = int(remaining / quote.Price)
			cost = float64(shares) * quote.Price
		} else {
			cashForCategory := cashPool * targetPct / 100
			shares = int(cashForCategory / quote.Price)
			cost = float64(shares) * quote.Price
			remaining -= cost
		}

		if shares <= 0 {
			continue
		}

		sectorSentiment := models.SectorNeutral
		if stats, ok := input.Market.SectorFor(category); ok {
			sectorSentiment = stats.Sentiment
		}

		reason := fmt.Sprintf("Adjusted allocation: %.0f%% in %s (Market: %s)", targetPct, category, sectorSentiment)
		if primary := e.primaries[category]; symbol != primary {
			reason = fmt.Sprintf("Diversified allocation: %.0f%% in %s (Best performer: %s)", targetPct, category, symbol)
		}

		buys = append(buys, &models.Recommendation{
			Symbol:          symbol,
			Shares:          shares,
			Cost:            cost,
			Category:        category,
			Action:          models.ActionBuy,
			Score:           scoring.Score(symbol, input.Quotes),
			Reasoning:       reason,
			DetailedReasons: reasoning.Explain(symbol, category, input.Market, quote, models.ActionBuy),
			Priority:        models.PriorityMedium,
			Source:          models.SourceAlgorithmic,
		})
	}

	return buys
}

// selectBuySymbol picks the buy-side symbol for a category: the best
// performing candidate with a known quote, or the primary ETF when
// performance selection is disabled or no candidate has a quote.
func (e *Engine) selectBuySymbol(category models.Category, quotes models.QuoteSet) (string, *models.Quote) {
	primary := e.primaries[category]

	if !e.bestPerformer {
		return primary, quotes[primary]
	}

	bestSymbol := ""
	var bestQuote *models.Quote
	for _, candidate := range e.candidates[category] {
		q, ok := quotes[candidate]
		if !ok || q.Price <= 0 {
			continue
		}
		if bestQuote == nil || q.ChangePct > bestQuote.ChangePct {
			bestSymbol = candidate
			bestQuote = q
		}
	}
	if bestQuote != nil {
		return bestSymbol, bestQuote
	}

	return primary, quotes[primary]
}
