package interfaces

import (
	"context"

	"github.com/foliolab/folio/internal/models"
)

// StateStore persists the portfolio session state across restarts.
type StateStore interface {
	// GetState retrieves the session state, or ErrNotFound-style error when
	// no state has been saved yet.
	GetState(ctx context.Context) (*models.PortfolioState, error)

	// SaveState upserts the session state.
	SaveState(ctx context.Context, state *models.PortfolioState) error

	Close() error
}
