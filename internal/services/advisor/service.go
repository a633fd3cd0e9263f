// Package advisor adapts the external LLM oracle into validated advice
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/foliolab/folio/internal/common"
	"github.com/foliolab/folio/internal/interfaces"
	"github.com/foliolab/folio/internal/models"
	"github.com/foliolab/folio/internal/services/scoring"
)

// Compile-time interface check
var _ interfaces.AdvisorService = (*Service)(nil)

// Service implements AdvisorService. The oracle is untrusted: its output is
// defensively parsed and strictly validated, and every failure mode degrades
// to a text-only advice object whose empty recommendation list tells the
// caller to use the deterministic engine instead.
type Service struct {
	oracle   interfaces.AdvisorOracle
	validate *validator.Validate
	logger   *common.Logger

	mu     sync.Mutex
	cached *models.Advice
}

// NewService creates a new advisor adapter. oracle may be nil, in which case
// every call degrades straight to the fallback signal.
func NewService(oracle interfaces.AdvisorOracle, logger *common.Logger) *Service {
	return &Service{
		oracle:   oracle,
		validate: validator.New(),
		logger:   logger,
	}
}

// GetAdvice builds the advice context, performs one synchronous oracle call,
// and parses the response. Never retries, never blocks beyond the one call.
func (s *Service) GetAdvice(ctx context.Context, input interfaces.RebalanceInput) *models.Advice {
	s.mu.Lock()
	if s.cached != nil {
		cached := s.cached
		s.mu.Unlock()
		s.logger.Debug().Msg("Advice served from cache")
		return cached
	}
	s.mu.Unlock()

	if s.oracle == nil {
		return models.TextOnlyAdvice(
			"Advisor not configured. Using algorithmic recommendations.",
			"Unable to assess", "Unable to assess")
	}

	prompt, err := BuildPrompt(input)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to build advisor prompt")
		return models.TextOnlyAdvice(
			fmt.Sprintf("Advisor context unavailable: %v. Using algorithmic recommendations.", err),
			"Unable to assess", "Unable to assess")
	}

	raw, err := s.oracle.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Advisor call failed")
		return models.TextOnlyAdvice(
			fmt.Sprintf("AI analysis temporarily unavailable: %v. Using algorithmic recommendations.", err),
			"Unable to assess", "Unable to assess")
	}

	advice := s.parseResponse(raw)

	s.mu.Lock()
	s.cached = advice
	s.mu.Unlock()

	s.logger.Info().Int("recommendations", len(advice.Recommendations)).Msg("Advisor response processed")
	return advice
}

// parseResponse applies the parsing policy in order: well-formed JSON object,
// first balanced JSON substring, then text-only wrapping. A response that
// parses but fails schema validation routes to the failure branch rather
// than being partially trusted.
func (s *Service) parseResponse(raw string) *models.Advice {
	trimmed := strings.TrimSpace(raw)

	var payload []byte
	if len(trimmed) > 0 && trimmed[0] == '{' && trimmed[len(trimmed)-1] == '}' {
		payload = []byte(trimmed)
	} else if extracted, ok := extractJSONObject(trimmed); ok {
		payload = []byte(extracted)
	} else {
		return models.TextOnlyAdvice(trimmed, "AI provided text analysis", "AI provided text analysis")
	}

	var advice models.Advice
	if err := json.Unmarshal(payload, &advice); err != nil {
		s.logger.Warn().Err(err).Msg("Advisor response is not valid JSON")
		return models.TextOnlyAdvice(
			truncate(raw, 500),
			"AI provided analysis", "AI provided analysis")
	}

	if err := s.validate.Struct(&advice); err != nil {
		s.logger.Warn().Err(err).Msg("Advisor response failed schema validation")
		return models.TextOnlyAdvice(
			fmt.Sprintf("Advisor response rejected by validation: %v. Using algorithmic recommendations.", err),
			"Unable to assess", "Unable to assess")
	}

	if advice.Recommendations == nil {
		advice.Recommendations = []models.AdviceRecommendation{}
	}

	return &advice
}

// ToRecommendations converts advisor items into priced recommendations.
// Symbols without a known quote are dropped; cost is repriced from the
// current quote, never trusted from the oracle.
func (s *Service) ToRecommendations(advice *models.Advice, quotes models.QuoteSet) []*models.Recommendation {
	var recs []*models.Recommendation

	for _, item := range advice.Recommendations {
		quote, ok := quotes[item.Symbol]
		if !ok || quote.Price <= 0 {
			s.logger.Warn().Str("symbol", item.Symbol).Msg("Dropping advisor recommendation with unknown price")
			continue
		}

		priority := models.Priority(item.Priority)
		if priority == "" {
			priority = models.PriorityMedium
		}

		recs = append(recs, &models.Recommendation{
			Symbol:    item.Symbol,
			Shares:    item.Shares,
			Cost:      float64(item.Shares) * quote.Price,
			Category:  models.AssetCategory(item.Symbol),
			Action:    models.Action(item.Action),
			Score:     scoring.Score(item.Symbol, quotes),
			Reasoning: item.Reasoning,
			Priority:  priority,
			Source:    models.SourceAdvisor,
		})
	}

	return recs
}

// Invalidate drops the cached advice after an execution batch.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}

// extractJSONObject returns the first balanced {...} substring, honoring
// string literals and escapes.
func extractJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}

	return "", false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
