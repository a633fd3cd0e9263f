package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolab/folio/internal/app"
	"github.com/foliolab/folio/internal/common"
	"github.com/foliolab/folio/internal/interfaces"
	"github.com/foliolab/folio/internal/models"
	"github.com/foliolab/folio/internal/services/execution"
	"github.com/foliolab/folio/internal/services/market"
	"github.com/foliolab/folio/internal/services/rebalance"
)

// stubQuoteClient serves flat quotes for every requested symbol.
type stubQuoteClient struct {
	prices map[string]float64
}

func (s *stubQuoteClient) FetchQuotes(ctx context.Context, symbols []string) models.QuoteSet {
	quotes := make(models.QuoteSet, len(symbols))
	for _, symbol := range symbols {
		price, ok := s.prices[symbol]
		if !ok {
			price = 100
		}
		quotes[symbol] = &models.Quote{Symbol: symbol, Price: price, ChangePct: 0.5}
	}
	return quotes
}

// stubAdvisor always signals the algorithmic fallback.
type stubAdvisor struct{}

func (s *stubAdvisor) GetAdvice(ctx context.Context, input interfaces.RebalanceInput) *models.Advice {
	return models.TextOnlyAdvice("no advice", "n/a", "n/a")
}

func (s *stubAdvisor) ToRecommendations(advice *models.Advice, quotes models.QuoteSet) []*models.Recommendation {
	return nil
}

func (s *stubAdvisor) Invalidate() {}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := common.NewSilentLogger()

	quotes := &stubQuoteClient{prices: map[string]float64{
		"VTI": 250, "VTIAX": 35, "BND": 75, "VNQ": 90,
	}}

	cfg := common.NewDefaultConfig()
	a := &app.App{
		Config:           cfg,
		Logger:           logger,
		QuoteClient:      quotes,
		MarketService:    market.NewService(quotes, logger),
		RebalanceService: rebalance.NewEngine(logger),
		AdvisorService:   &stubAdvisor{},
		ExecutionService: execution.NewService(nil, logger),
		State: &models.PortfolioState{
			ID: "session",
			Holdings: map[string]*models.Holding{
				"VTI": {Symbol: "VTI", Name: "VTI ETF", Shares: 12},
			},
			CashBalance: 2500,
			TargetAllocation: models.TargetAllocation{
				models.CategoryStocksUS: 60,
				models.CategoryBonds:    40,
			},
			ExecutionLog: []models.ExecutionEntry{},
		},
	}

	return &Server{app: a, logger: logger}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

func TestHandlePortfolio_ReturnsSnapshot(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	rec := httptest.NewRecorder()

	srv.handlePortfolio(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var snapshot models.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))

	assert.Equal(t, 2500.0, snapshot.CashBalance)
	assert.Equal(t, 3000.0, snapshot.PortfolioValue) // 12 VTI at $250
	assert.Equal(t, 5500.0, snapshot.TotalAccountValue)
	require.Len(t, snapshot.Holdings, 1)
	assert.Equal(t, "VTI", snapshot.Holdings[0].Symbol)
}

func TestHandlePortfolio_RejectsPost(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/portfolio", nil)
	rec := httptest.NewRecorder()

	srv.handlePortfolio(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleDeposit_AddsCash(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/deposit", jsonBody(t, map[string]float64{"amount": 500}))
	rec := httptest.NewRecorder()

	srv.handleDeposit(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]float64
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 500.0, resp["deposited"])
	assert.Equal(t, 3000.0, resp["cash_balance"])
}

func TestHandleDeposit_RejectsNonPositive(t *testing.T) {
	srv := newTestServer(t)

	for _, amount := range []float64{0, -100} {
		req := httptest.NewRequest(http.MethodPost, "/api/deposit", jsonBody(t, map[string]float64{"amount": amount}))
		rec := httptest.NewRecorder()

		srv.handleDeposit(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "amount %.2f", amount)
	}
}

func TestHandleMarketAnalyze_ReturnsSummary(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/market/analyze", nil)
	rec := httptest.NewRecorder()

	srv.handleMarketAnalyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Market *models.MarketSummary `json:"market"`
		Quotes models.QuoteSet       `json:"quotes"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Market)
	assert.NotEmpty(t, resp.Market.Sentiment)
	assert.Len(t, resp.Quotes, len(models.ResearchSymbols))
}

func TestHandleRecommend_EmptyBodyUsesEngine(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/recommend", nil)
	rec := httptest.NewRecorder()

	srv.handleRecommend(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result app.RecommendResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, models.SourceAlgorithmic, result.Source)
	assert.NotEmpty(t, result.Recommendations)
	require.NotNil(t, result.Market)
}

func TestHandleRecommend_AdvisorFallsBackToEngine(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/recommend", jsonBody(t, map[string]bool{"use_advisor": true}))
	rec := httptest.NewRecorder()

	srv.handleRecommend(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result app.RecommendResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))

	// The stub advisor returns no recommendations, so the engine serves.
	assert.Equal(t, models.SourceAlgorithmic, result.Source)
	assert.NotEmpty(t, result.Recommendations)
	require.NotNil(t, result.Advice)
	assert.Empty(t, result.Advice.Recommendations)
}

func TestHandleExecute_AppliesBatch(t *testing.T) {
	srv := newTestServer(t)

	recs := []*models.Recommendation{
		{Symbol: "BND", Shares: 10, Cost: 750, Action: models.ActionBuy},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/execute", jsonBody(t, map[string]any{"recommendations": recs}))
	rec := httptest.NewRecorder()

	srv.handleExecute(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.ApplyResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 750.0, result.TotalInvested)
	assert.Equal(t, 1750.0, srv.app.State.CashBalance)
	assert.Equal(t, 10, srv.app.State.Shares("BND"))
}

func TestHandleExecute_ReportsRejections(t *testing.T) {
	srv := newTestServer(t)

	recs := []*models.Recommendation{
		{Symbol: "VTI", Shares: 100, Cost: 25000, Action: models.ActionBuy},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/execute", jsonBody(t, map[string]any{"recommendations": recs}))
	rec := httptest.NewRecorder()

	srv.handleExecute(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.ApplyResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, 0, result.Applied)
	require.Len(t, result.Rejections, 1)
	assert.Equal(t, models.RejectInsufficientFunds, result.Rejections[0].Reason)
}

func TestHandleExecute_EmptyBatchRejected(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/execute", jsonBody(t, map[string]any{"recommendations": []int{}}))
	rec := httptest.NewRecorder()

	srv.handleExecute(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQuotes_ParsesSymbolList(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes?symbols=vti,%20bnd", nil)
	rec := httptest.NewRecorder()

	srv.handleQuotes(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Quotes models.QuoteSet `json:"quotes"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Quotes, 2)
	assert.Contains(t, resp.Quotes, "VTI")
	assert.Contains(t, resp.Quotes, "BND")
}

func TestHandleQuotes_DefaultsToResearchUniverse(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
	rec := httptest.NewRecorder()

	srv.handleQuotes(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Quotes models.QuoteSet `json:"quotes"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Quotes, len(models.ResearchSymbols))
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.handleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	srv.handleVersion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp["version"])
}
