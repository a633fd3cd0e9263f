// Package execution applies finalized recommendations to portfolio state
package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/foliolab/folio/internal/common"
	"github.com/foliolab/folio/internal/interfaces"
	"github.com/foliolab/folio/internal/models"
)

// Compile-time interface check
var _ interfaces.ExecutionService = (*Service)(nil)

// Service applies recommendations to portfolio state one atomic step at a
// time. Violating recommendations produce typed rejections instead of the
// original silent skip; a rejected item changes neither cash nor holdings
// and appends nothing to the execution log.
type Service struct {
	store        interfaces.StateStore
	logger       *common.Logger
	invalidators []func()
	now          func() time.Time // injectable clock for testing
}

// NewService creates an execution service. store may be nil for in-memory
// sessions. invalidators run after every batch so cached market analysis and
// advice are recomputed next cycle.
func NewService(store interfaces.StateStore, logger *common.Logger, invalidators ...func()) *Service {
	return &Service{
		store:        store,
		logger:       logger,
		invalidators: invalidators,
		now:          time.Now,
	}
}

// Apply processes recommendations strictly in the order given. State mutated
// by an earlier item is visible to later items in the same batch.
func (s *Service) Apply(ctx context.Context, recs []*models.Recommendation, state *models.PortfolioState) (*models.ApplyResult, error) {
	result := &models.ApplyResult{}

	for _, rec := range recs {
		if !s.validate(rec, result) {
			continue
		}
		switch rec.Action {
		case models.ActionBuy:
			s.applyBuy(rec, state, result)
		case models.ActionSell:
			s.applySell(rec, state, result)
		default:
			s.logger.Warn().Str("action", string(rec.Action)).Str("symbol", rec.Symbol).Msg("Unknown action - skipping")
		}
	}

	state.UpdatedAt = s.now()

	if s.store != nil {
		if err := s.store.SaveState(ctx, state); err != nil {
			return result, fmt.Errorf("failed to persist portfolio state: %w", err)
		}
	}

	// Holdings and cash changed: cached analysis must be recomputed.
	for _, invalidate := range s.invalidators {
		invalidate()
	}

	s.logger.Info().
		Int("applied", result.Applied).
		Int("rejected", len(result.Rejections)).
		Float64("invested", result.TotalInvested).
		Float64("sold", result.TotalSold).
		Msg("Execution batch complete")

	return result, nil
}

// validate rejects recommendations that could push cash below zero or a
// share count negative before any state is touched. Batches arrive over the
// wire, so share and cost bounds are not trusted.
func (s *Service) validate(rec *models.Recommendation, result *models.ApplyResult) bool {
	var detail string
	switch {
	case rec.Shares <= 0:
		detail = fmt.Sprintf("shares must be positive, got %d", rec.Shares)
	case rec.Cost < 0:
		detail = fmt.Sprintf("cost must be non-negative, got $%.2f", rec.Cost)
	default:
		return true
	}

	result.Rejections = append(result.Rejections, models.Rejection{
		Recommendation: *rec,
		Reason:         models.RejectInvalid,
		Detail:         detail,
	})
	s.logger.Warn().Str("symbol", rec.Symbol).Int("shares", rec.Shares).Float64("cost", rec.Cost).Msg("Recommendation rejected - invalid")
	return false
}

func (s *Service) applyBuy(rec *models.Recommendation, state *models.PortfolioState, result *models.ApplyResult) {
	if rec.Cost > state.CashBalance {
		result.Rejections = append(result.Rejections, models.Rejection{
			Recommendation: *rec,
			Reason:         models.RejectInsufficientFunds,
			Detail:         fmt.Sprintf("cost $%.2f exceeds cash balance $%.2f", rec.Cost, state.CashBalance),
		})
		s.logger.Warn().Str("symbol", rec.Symbol).Float64("cost", rec.Cost).Float64("cash", state.CashBalance).Msg("Buy rejected - insufficient funds")
		return
	}

	if h, ok := state.Holdings[rec.Symbol]; ok {
		h.Shares += rec.Shares
	} else {
		if state.Holdings == nil {
			state.Holdings = make(map[string]*models.Holding)
		}
		state.Holdings[rec.Symbol] = &models.Holding{
			Symbol: rec.Symbol,
			Name:   fmt.Sprintf("%s ETF", rec.Symbol),
			Shares: rec.Shares,
		}
	}

	state.CashBalance -= rec.Cost
	result.TotalInvested += rec.Cost
	result.Applied++

	s.appendLog(state, fmt.Sprintf("Bought %d shares of %s", rec.Shares, rec.Symbol), rec.Cost)
	s.logger.Info().Str("symbol", rec.Symbol).Int("shares", rec.Shares).Float64("cost", rec.Cost).Msg("Buy executed")
}

func (s *Service) applySell(rec *models.Recommendation, state *models.PortfolioState, result *models.ApplyResult) {
	holding, ok := state.Holdings[rec.Symbol]
	if !ok {
		result.Rejections = append(result.Rejections, models.Rejection{
			Recommendation: *rec,
			Reason:         models.RejectNotHeld,
			Detail:         fmt.Sprintf("%s is not held", rec.Symbol),
		})
		s.logger.Warn().Str("symbol", rec.Symbol).Msg("Sell rejected - not held")
		return
	}

	if rec.Shares > holding.Shares {
		result.Rejections = append(result.Rejections, models.Rejection{
			Recommendation: *rec,
			Reason:         models.RejectInsufficientShares,
			Detail:         fmt.Sprintf("selling %d shares but only %d held", rec.Shares, holding.Shares),
		})
		s.logger.Warn().Str("symbol", rec.Symbol).Int("requested", rec.Shares).Int("held", holding.Shares).Msg("Sell rejected - insufficient shares")
		return
	}

	holding.Shares -= rec.Shares
	if holding.Shares == 0 {
		delete(state.Holdings, rec.Symbol)
	}

	state.CashBalance += rec.Cost
	result.TotalSold += rec.Cost
	result.Applied++

	s.appendLog(state, fmt.Sprintf("Sold %d shares of %s", rec.Shares, rec.Symbol), rec.Cost)
	s.logger.Info().Str("symbol", rec.Symbol).Int("shares", rec.Shares).Float64("proceeds", rec.Cost).Msg("Sell executed")
}

// appendLog prepends an entry so the log reads newest first.
func (s *Service) appendLog(state *models.PortfolioState, description string, amount float64) {
	entry := models.ExecutionEntry{
		ID:          uuid.NewString(),
		Timestamp:   s.now(),
		Description: description,
		Amount:      amount,
	}
	state.ExecutionLog = append([]models.ExecutionEntry{entry}, state.ExecutionLog...)
}
