package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/foliolab/folio/internal/common"
	"github.com/foliolab/folio/internal/models"
)

// memStore is an in-memory StateStore for seeding tests.
type memStore struct {
	state *models.PortfolioState
}

func (m *memStore) GetState(_ context.Context) (*models.PortfolioState, error) {
	if m.state == nil {
		return nil, errors.New("portfolio state not found")
	}
	return m.state, nil
}

func (m *memStore) SaveState(_ context.Context, state *models.PortfolioState) error {
	m.state = state
	return nil
}

func (m *memStore) Close() error { return nil }

func TestLoadOrSeedState_SeedsFromConfig(t *testing.T) {
	store := &memStore{}
	session := common.SessionConfig{
		InitialCash: 2500,
		InitialHoldings: map[string]int{
			"VTI": 12,
			"BND": 15,
		},
		TargetAllocation: map[string]float64{
			"Stocks (US)": 60,
			"Bonds":       40,
		},
	}

	state, err := LoadOrSeedState(context.Background(), store, session, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.CashBalance != 2500 {
		t.Errorf("cash = %.2f, want 2500", state.CashBalance)
	}
	if state.Shares("VTI") != 12 || state.Shares("BND") != 15 {
		t.Errorf("holdings = %+v", state.Holdings)
	}
	if state.TargetAllocation[models.CategoryStocksUS] != 60 {
		t.Errorf("target = %+v", state.TargetAllocation)
	}
	if store.state == nil {
		t.Error("seeded state was not persisted")
	}
}

func TestLoadOrSeedState_RestoresExisting(t *testing.T) {
	existing := &models.PortfolioState{
		ID:          "session",
		CashBalance: 777,
		Holdings: map[string]*models.Holding{
			"VNQ": {Symbol: "VNQ", Shares: 3},
		},
	}
	store := &memStore{state: existing}

	// Config values must not override a restored session.
	session := common.SessionConfig{InitialCash: 2500}

	state, err := LoadOrSeedState(context.Background(), store, session, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.CashBalance != 777 {
		t.Errorf("cash = %.2f, want the restored 777", state.CashBalance)
	}
	if state.Shares("VNQ") != 3 {
		t.Errorf("holdings = %+v", state.Holdings)
	}
}
