// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/foliolab/folio/internal/models"
)

// QuoteClient supplies current market snapshots per symbol. It never fails
// past its boundary: a per-symbol fetch error yields the fixed fallback
// quote with its Fallback flag set, and a total failure yields fallback
// quotes for every requested symbol.
type QuoteClient interface {
	// FetchQuotes retrieves quotes for the given symbols. Every requested
	// symbol is present in the result.
	FetchQuotes(ctx context.Context, symbols []string) models.QuoteSet
}

// AdvisorOracle is the external LLM collaborator. It accepts a single text
// prompt and returns free text expected (but not guaranteed) to contain one
// JSON advice object. It may fail, hang, or return malformed data; callers
// bound it with a context deadline.
type AdvisorOracle interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
