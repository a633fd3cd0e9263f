// Package storage wires the portfolio state store
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/foliolab/folio/internal/common"
	"github.com/foliolab/folio/internal/interfaces"
	"github.com/foliolab/folio/internal/models"
	"github.com/foliolab/folio/internal/storage/badger"
)

// NewStateStore opens the BadgerHold-backed state store at the configured
// path.
func NewStateStore(logger *common.Logger, config *common.Config) (interfaces.StateStore, error) {
	store, err := badger.Open(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return store, nil
}

// LoadOrSeedState returns the persisted session state, seeding it from the
// configured initial balances and holdings on first run.
func LoadOrSeedState(ctx context.Context, store interfaces.StateStore, session common.SessionConfig, logger *common.Logger) (*models.PortfolioState, error) {
	state, err := store.GetState(ctx)
	if err == nil {
		logger.Info().Float64("cash", state.CashBalance).Int("holdings", len(state.Holdings)).Msg("Portfolio session restored")
		return state, nil
	}

	state = &models.PortfolioState{
		Holdings:         make(map[string]*models.Holding, len(session.InitialHoldings)),
		CashBalance:      session.InitialCash,
		ExecutionLog:     []models.ExecutionEntry{},
		TargetAllocation: make(models.TargetAllocation, len(session.TargetAllocation)),
		CreatedAt:        time.Now(),
	}
	for symbol, shares := range session.InitialHoldings {
		state.Holdings[symbol] = &models.Holding{
			Symbol: symbol,
			Name:   fmt.Sprintf("%s ETF", symbol),
			Shares: shares,
		}
	}
	for category, pct := range session.TargetAllocation {
		state.TargetAllocation[models.Category(category)] = pct
	}

	if err := store.SaveState(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to seed portfolio state: %w", err)
	}

	logger.Info().Float64("cash", state.CashBalance).Int("holdings", len(state.Holdings)).Msg("Portfolio session seeded from config")
	return state, nil
}
