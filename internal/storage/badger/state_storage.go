// Package badger persists the portfolio session in an embedded BadgerHold
// database holding a single record under a fixed key.
package badger

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/foliolab/folio/internal/common"
	"github.com/foliolab/folio/internal/interfaces"
	"github.com/foliolab/folio/internal/models"
)

// sessionKey is the fixed key for the single-session portfolio state.
const sessionKey = "session"

// Compile-time interface check
var _ interfaces.StateStore = (*stateStorage)(nil)

type stateStorage struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// Open creates the data directory if needed and opens the session store
// inside it.
func Open(logger *common.Logger, path string) (interfaces.StateStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // quiet badger's own logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("Session store opened")

	return &stateStorage{db: db, logger: logger}, nil
}

func (s *stateStorage) GetState(_ context.Context) (*models.PortfolioState, error) {
	var state models.PortfolioState
	err := s.db.Get(sessionKey, &state)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("portfolio state not found")
		}
		return nil, fmt.Errorf("failed to get portfolio state: %w", err)
	}
	return &state, nil
}

func (s *stateStorage) SaveState(_ context.Context, state *models.PortfolioState) error {
	state.UpdatedAt = time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now()
	}
	if state.ID == "" {
		state.ID = sessionKey
	}

	if err := s.db.Upsert(sessionKey, state); err != nil {
		return fmt.Errorf("failed to save portfolio state: %w", err)
	}
	s.logger.Debug().Float64("cash", state.CashBalance).Int("holdings", len(state.Holdings)).Msg("Portfolio state saved")
	return nil
}

func (s *stateStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
