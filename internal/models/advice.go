package models

// Advice is the structured result of one advisor oracle call. An empty
// Recommendations list signals the caller to fall back to the deterministic
// rebalancing engine.
type Advice struct {
	Analysis        string                 `json:"analysis"`
	Recommendations []AdviceRecommendation `json:"recommendations" validate:"dive"`
	RiskAssessment  string                 `json:"risk_assessment"`
	MarketTiming    string                 `json:"market_timing"`
}

// AdviceRecommendation is one trade suggested by the oracle. Validation is
// strict: any deviation routes the whole response to the failure branch.
type AdviceRecommendation struct {
	Action    string `json:"action" validate:"required,oneof=BUY SELL"`
	Symbol    string `json:"symbol" validate:"required,alphanum,uppercase"`
	Shares    int    `json:"shares" validate:"required,gt=0"`
	Reasoning string `json:"reasoning"`
	Priority  string `json:"priority" validate:"omitempty,oneof=High Medium Low"`
}

// TextOnlyAdvice wraps free text (or a failure explanation) as an advice
// object with no recommendations, which triggers the algorithmic fallback.
func TextOnlyAdvice(analysis, risk, timing string) *Advice {
	return &Advice{
		Analysis:        analysis,
		Recommendations: []AdviceRecommendation{},
		RiskAssessment:  risk,
		MarketTiming:    timing,
	}
}
