package models

import "time"

// Holding is a portfolio position. Created on first buy of a symbol and
// removed when shares reach zero; mutated only by the execution applier.
type Holding struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
	Shares int    `json:"shares"`
}

// ExecutionEntry is one line of the execution log, newest first.
type ExecutionEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
}

// PortfolioState is the process-wide session state: holdings, cash, and the
// execution log. Mutated only inside the execution applier; persists across
// analysis cycles.
type PortfolioState struct {
	ID               string              `json:"id"`
	Holdings         map[string]*Holding `json:"holdings"`
	CashBalance      float64             `json:"cash_balance"`
	ExecutionLog     []ExecutionEntry    `json:"execution_log"`
	TargetAllocation TargetAllocation    `json:"target_allocation"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// Clone returns a deep copy. Analysis paths read the copy while the live
// session keeps mutating under the state lock.
func (p *PortfolioState) Clone() *PortfolioState {
	out := *p
	out.Holdings = make(map[string]*Holding, len(p.Holdings))
	for symbol, h := range p.Holdings {
		copied := *h
		out.Holdings[symbol] = &copied
	}
	out.ExecutionLog = append([]ExecutionEntry(nil), p.ExecutionLog...)
	out.TargetAllocation = p.TargetAllocation.Clone()
	return &out
}

// Shares returns the current share count for a symbol, zero when not held.
func (p *PortfolioState) Shares(symbol string) int {
	if h, ok := p.Holdings[symbol]; ok {
		return h.Shares
	}
	return 0
}

// TotalValue prices the holdings against the quote set. Symbols without a
// quote contribute nothing.
func (p *PortfolioState) TotalValue(quotes QuoteSet) float64 {
	total := 0.0
	for symbol, h := range p.Holdings {
		if q, ok := quotes[symbol]; ok {
			total += float64(h.Shares) * q.Price
		}
	}
	return total
}

// CategoryBreakdown returns holding value per category priced against the
// quote set.
func (p *PortfolioState) CategoryBreakdown(quotes QuoteSet) map[Category]float64 {
	breakdown := make(map[Category]float64)
	for symbol, h := range p.Holdings {
		q, ok := quotes[symbol]
		if !ok {
			continue
		}
		breakdown[AssetCategory(symbol)] += float64(h.Shares) * q.Price
	}
	return breakdown
}

// Snapshot is the account overview returned by the portfolio endpoint.
type Snapshot struct {
	Holdings          []Holding            `json:"holdings"`
	CashBalance       float64              `json:"cash_balance"`
	PortfolioValue    float64              `json:"portfolio_value"`
	TotalAccountValue float64              `json:"total_account_value"`
	UninvestedPct     float64              `json:"uninvested_pct"`
	Breakdown         map[Category]float64 `json:"breakdown"`
	TargetAllocation  TargetAllocation     `json:"target_allocation"`
	ExecutionLog      []ExecutionEntry     `json:"execution_log"`
}
