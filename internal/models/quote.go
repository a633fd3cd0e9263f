// Package models defines data structures for Folio
package models

// Quote is an immutable per-symbol market snapshot for one analysis cycle.
type Quote struct {
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	ChangePct        float64 `json:"change_pct"`
	DividendYieldPct float64 `json:"dividend_yield_pct"`
	PERatio          float64 `json:"pe_ratio,omitempty"`
	PEKnown          bool    `json:"pe_known"`

	// Fallback marks a quote synthesized after a fetch failure.
	Fallback bool `json:"fallback,omitempty"`
}

// FallbackQuote returns the degraded quote substituted when a per-symbol
// fetch fails: $100 price, flat change, no yield, unknown P/E.
func FallbackQuote(symbol string) *Quote {
	return &Quote{
		Symbol:   symbol,
		Price:    100.0,
		Fallback: true,
	}
}

// QuoteSet maps symbol to its current quote.
type QuoteSet map[string]*Quote

// Symbols returns the symbols present in the set.
func (q QuoteSet) Symbols() []string {
	symbols := make([]string, 0, len(q))
	for s := range q {
		symbols = append(symbols, s)
	}
	return symbols
}
