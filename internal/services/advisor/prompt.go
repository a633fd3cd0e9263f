package advisor

import (
	"encoding/json"
	"fmt"

	"github.com/foliolab/folio/internal/interfaces"
	"github.com/foliolab/folio/internal/models"
)

// symbolSummary is the per-symbol context serialized into the prompt. It
// covers current holdings and the eligible alternatives alike.
type symbolSummary struct {
	Shares           int             `json:"shares"`
	Value            float64         `json:"value"`
	Price            float64         `json:"price"`
	Change           float64         `json:"change"`
	DividendYield    float64         `json:"dividend_yield"`
	PERatio          *float64        `json:"pe_ratio"`
	Category         models.Category `json:"category"`
	CurrentPct       float64         `json:"current_pct"`
	TargetPct        float64         `json:"target_pct"`
	Overweight       bool            `json:"overweight"`
	Underweight      bool            `json:"underweight"`
	IsCurrentHolding bool            `json:"is_current_holding"`
}

// BuildPrompt serializes the portfolio snapshot, target allocation, market
// summary, available cash, and the closed diversification universe into a
// single prompt with a strict output-format instruction.
func BuildPrompt(input interfaces.RebalanceInput) (string, error) {
	totalValue := input.State.TotalValue(input.Quotes)
	totalAvailable := totalValue + input.CashAvailable

	portfolio := make(map[string]symbolSummary, len(input.Quotes))
	for symbol, quote := range input.Quotes {
		category := models.AssetCategory(symbol)

		summary := symbolSummary{
			Price:            quote.Price,
			Change:           quote.ChangePct,
			DividendYield:    quote.DividendYieldPct,
			Category:         category,
			TargetPct:        input.Target[category],
			IsCurrentHolding: false,
		}
		if quote.PEKnown {
			pe := quote.PERatio
			summary.PERatio = &pe
		}

		if shares := input.State.Shares(symbol); shares > 0 {
			summary.Shares = shares
			summary.Value = float64(shares) * quote.Price
			if totalAvailable > 0 {
				summary.CurrentPct = summary.Value / totalAvailable * 100
			}
			summary.IsCurrentHolding = true
		}

		summary.Overweight = summary.CurrentPct > summary.TargetPct+3
		summary.Underweight = summary.CurrentPct < summary.TargetPct-3

		portfolio[symbol] = summary
	}

	portfolioJSON, err := json.MarshalIndent(portfolio, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize portfolio context: %w", err)
	}
	targetJSON, err := json.MarshalIndent(input.Target, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize target allocation: %w", err)
	}
	marketJSON, err := json.MarshalIndent(input.Market, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize market summary: %w", err)
	}

	prompt := fmt.Sprintf(`You are an expert financial advisor. Analyze the current portfolio and market conditions to provide specific buy/sell recommendations.

CURRENT PORTFOLIO:
%s

TARGET ALLOCATION:
%s

MARKET ANALYSIS:
%s

AVAILABLE CASH: $%.0f

AVAILABLE SYMBOLS FOR DIVERSIFICATION:
- US Stocks: VTI, SPY, QQQ, VUG, VTV, VYM, SCHD, DGRO
- International: VTIAX, EFA, VEA, VWO, VXUS
- Bonds: BND, TLT, AGG, BNDX
- Real Estate: VNQ, IYR

Please provide specific recommendations in this EXACT JSON format (no other text):
{
    "analysis": "Your overall market assessment and strategy rationale",
    "recommendations": [
        {
            "action": "BUY",
            "symbol": "VTI",
            "shares": 5,
            "reasoning": "Specific reason for this trade",
            "priority": "High"
        }
    ],
    "risk_assessment": "Your risk evaluation",
    "market_timing": "Your timing insights"
}

CRITICAL REQUIREMENTS:
1. DIVERSIFY BEYOND CURRENT HOLDINGS - Use different symbols from the available list above
2. Consider performance-based selection (choose best performing ETFs in each category)
3. Portfolio rebalancing to target allocation
4. Market timing based on current conditions
5. Risk management
6. Specific share quantities and reasoning
7. Avoid contradictory trades (don't sell and buy the same asset)
8. Ensure total investment equals available cash ($%.0f)
9. PRIORITIZE DIVERSIFICATION - Don't just rebalance existing holdings, add new ones

IMPORTANT: Return ONLY valid JSON, no explanations or additional text.
`, portfolioJSON, targetJSON, marketJSON, input.CashAvailable, input.CashAvailable)

	return prompt, nil
}
