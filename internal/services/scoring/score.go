// Package scoring computes a bounded composite quality score per symbol.
// The score is an advisory signal only; allocation math never consumes it.
package scoring

import "github.com/foliolab/folio/internal/models"

const (
	baseScore    = 50
	defaultScore = 50
	minScore     = 20
	maxScore     = 95

	momentumCap = 15
	yieldBonus  = 10
	peBonus     = 10
)

// Score computes the composite quality score for a symbol from momentum,
// yield, and valuation. Always within [20, 95]; a symbol absent from the
// quote set scores the fixed default of 50.
func Score(symbol string, quotes models.QuoteSet) int {
	q, ok := quotes[symbol]
	if !ok {
		return defaultScore
	}

	score := float64(baseScore)

	// Momentum contribution, clamped to ±15
	momentum := q.ChangePct * 2
	if momentum > momentumCap {
		momentum = momentumCap
	} else if momentum < -momentumCap {
		momentum = -momentumCap
	}
	score += momentum

	if q.DividendYieldPct > 2 {
		score += yieldBonus
	}

	if q.PEKnown && q.PERatio >= 10 && q.PERatio <= 25 {
		score += peBonus
	}

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}

	return int(score)
}
