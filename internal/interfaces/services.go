package interfaces

import (
	"context"

	"github.com/foliolab/folio/internal/models"
)

// MarketService converts the research universe into a market condition
// summary, cached for the freshness window.
type MarketService interface {
	// AnalyzeMarket fetches the research universe and returns the current
	// summary along with the quotes it was computed from. Results are cached
	// for 5 minutes keyed by the fixed symbol set.
	AnalyzeMarket(ctx context.Context) (*models.MarketSummary, models.QuoteSet, error)

	// Invalidate drops the cached summary and quotes. Called after every
	// execution batch since holdings and cash have changed.
	Invalidate()
}

// RebalanceInput carries everything the deterministic engine needs for one
// cycle.
type RebalanceInput struct {
	State         *models.PortfolioState
	Target        models.TargetAllocation
	Market        *models.MarketSummary
	Quotes        models.QuoteSet
	CashAvailable float64
}

// RebalanceService is the deterministic recommendation engine.
type RebalanceService interface {
	// Rebalance emits sell recommendations, then allocates freed plus
	// available cash into buys: sells first, then buys, both sorted by cost
	// descending (stable).
	Rebalance(input RebalanceInput) []*models.Recommendation
}

// AdvisorService is the boundary to the external LLM oracle.
type AdvisorService interface {
	// GetAdvice builds the structured context, performs one synchronous
	// oracle call, and defensively parses the response. It never returns an
	// error: every failure mode degrades to a text-only advice object with
	// an empty recommendation list, which signals the caller to fall back to
	// the deterministic engine.
	GetAdvice(ctx context.Context, input RebalanceInput) *models.Advice

	// ToRecommendations converts validated advisor items into priced
	// recommendations. Symbols without a known quote are dropped.
	ToRecommendations(advice *models.Advice, quotes models.QuoteSet) []*models.Recommendation

	// Invalidate drops any cached advice after an execution batch.
	Invalidate()
}

// ExecutionService applies a finalized recommendation list to portfolio
// state, one atomic step per item.
type ExecutionService interface {
	// Apply processes recommendations in order. Violating recommendations
	// are rejected (typed), leaving state untouched. State mutated by an
	// earlier item is visible to later items in the same batch.
	Apply(ctx context.Context, recs []*models.Recommendation, state *models.PortfolioState) (*models.ApplyResult, error)
}
