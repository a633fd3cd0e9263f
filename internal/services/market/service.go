package market

import (
	"context"
	"sync"
	"time"

	"github.com/foliolab/folio/internal/common"
	"github.com/foliolab/folio/internal/interfaces"
	"github.com/foliolab/folio/internal/models"
)

// Compile-time interface check
var _ interfaces.MarketService = (*Service)(nil)

// Service implements MarketService with a time-boxed summary cache keyed by
// the fixed research universe.
type Service struct {
	quotes  interfaces.QuoteClient
	symbols []string
	sectors map[string][]string
	logger  *common.Logger
	ttl     time.Duration
	now     func() time.Time // injectable clock for testing

	mu            sync.Mutex
	cachedSummary *models.MarketSummary
	cachedQuotes  models.QuoteSet
	cachedAt      time.Time
}

// NewService creates a new market analysis service over the fixed research
// universe.
func NewService(quotes interfaces.QuoteClient, logger *common.Logger) *Service {
	return &Service{
		quotes:  quotes,
		symbols: models.ResearchSymbols,
		sectors: models.Sectors,
		logger:  logger,
		ttl:     common.FreshnessMarketSummary,
		now:     time.Now,
	}
}

// AnalyzeMarket returns the current market summary and the research quotes
// it was computed from, recomputing only when the cache has expired.
func (s *Service) AnalyzeMarket(ctx context.Context) (*models.MarketSummary, models.QuoteSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cachedSummary != nil && s.now().Sub(s.cachedAt) < s.ttl {
		s.logger.Debug().Msg("Market summary served from cache")
		return s.cachedSummary, s.cachedQuotes, nil
	}

	quotes := s.quotes.FetchQuotes(ctx, s.symbols)

	degraded := 0
	for _, q := range quotes {
		if q.Fallback {
			degraded++
		}
	}
	if degraded > 0 {
		s.logger.Warn().Int("degraded", degraded).Int("total", len(quotes)).Msg("Market analysis running on partially degraded quotes")
	}

	summary := Summarize(quotes, s.sectors)

	s.cachedSummary = summary
	s.cachedQuotes = quotes
	s.cachedAt = s.now()

	s.logger.Info().
		Str("sentiment", string(summary.Sentiment)).
		Str("risk", string(summary.Risk)).
		Str("recommendation", string(summary.Recommendation)).
		Msg("Market analysis complete")

	return summary, quotes, nil
}

// Invalidate drops the cached summary. Called after every execution batch.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cachedSummary = nil
	s.cachedQuotes = nil
	s.cachedAt = time.Time{}
}
