// Package app wires clients, services, and storage into a running core
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/foliolab/folio/internal/clients/gemini"
	"github.com/foliolab/folio/internal/clients/marketdata"
	"github.com/foliolab/folio/internal/common"
	"github.com/foliolab/folio/internal/interfaces"
	"github.com/foliolab/folio/internal/models"
	"github.com/foliolab/folio/internal/services/advisor"
	"github.com/foliolab/folio/internal/services/execution"
	"github.com/foliolab/folio/internal/services/market"
	"github.com/foliolab/folio/internal/services/rebalance"
	"github.com/foliolab/folio/internal/storage"
)

// App holds all initialized services, clients, and the portfolio session.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Store            interfaces.StateStore
	QuoteClient      interfaces.QuoteClient
	MarketService    interfaces.MarketService
	RebalanceService interfaces.RebalanceService
	AdvisorService   interfaces.AdvisorService
	ExecutionService interfaces.ExecutionService

	// State is the process-wide session. All mutations go through stateMu:
	// exactly one in flight at a time.
	State   *models.PortfolioState
	stateMu sync.Mutex

	advisorTimeout time.Duration
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients, and services.
// configPath may be empty, in which case the default resolution is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := storage.NewStateStore(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()
	state, err := storage.LoadOrSeedState(ctx, store, config.Session, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	quoteClient := marketdata.NewClient(
		marketdata.WithBaseURL(config.Clients.MarketData.BaseURL),
		marketdata.WithRateLimit(config.Clients.MarketData.RateLimit),
		marketdata.WithTimeout(config.Clients.MarketData.GetTimeout()),
		marketdata.WithLogger(logger),
	)

	var oracle interfaces.AdvisorOracle
	if config.Clients.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(ctx, config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client unavailable - advisor disabled")
		} else {
			oracle = geminiClient
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - advisor disabled")
	}

	marketService := market.NewService(quoteClient, logger)
	advisorService := advisor.NewService(oracle, logger)
	rebalanceService := rebalance.NewEngine(logger)
	executionService := execution.NewService(store, logger,
		marketService.Invalidate,
		advisorService.Invalidate,
	)

	return &App{
		Config:           config,
		Logger:           logger,
		Store:            store,
		QuoteClient:      quoteClient,
		MarketService:    marketService,
		RebalanceService: rebalanceService,
		AdvisorService:   advisorService,
		ExecutionService: executionService,
		State:            state,
		advisorTimeout:   config.Clients.Gemini.GetTimeout(),
	}, nil
}

// Close releases held resources.
func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close state store")
		}
	}
}

// RecommendResult is one recommendation cycle's outcome.
type RecommendResult struct {
	Recommendations []*models.Recommendation `json:"recommendations"`
	Source          models.Source            `json:"source"`
	Advice          *models.Advice           `json:"advice,omitempty"`
	Market          *models.MarketSummary    `json:"market"`
}

// Recommend runs one analysis cycle: market analysis, then either the
// advisor (when requested and configured) or the deterministic engine.
// Advisor output with an empty recommendation list always falls back to the
// engine.
func (a *App) Recommend(ctx context.Context, useAdvisor bool) (*RecommendResult, error) {
	summary, quotes, err := a.MarketService.AnalyzeMarket(ctx)
	if err != nil {
		return nil, fmt.Errorf("market analysis failed: %w", err)
	}

	// The engine and advisor read holdings after the lock is released, so
	// they work on a private copy while Execute mutates the live session.
	a.stateMu.Lock()
	state := a.State.Clone()
	a.stateMu.Unlock()

	input := interfaces.RebalanceInput{
		State:         state,
		Target:        state.TargetAllocation,
		Market:        summary,
		Quotes:        quotes,
		CashAvailable: state.CashBalance,
	}

	result := &RecommendResult{Market: summary}

	if useAdvisor {
		advisorCtx, cancel := context.WithTimeout(ctx, a.advisorTimeout)
		advice := a.AdvisorService.GetAdvice(advisorCtx, input)
		cancel()

		result.Advice = advice
		if recs := a.AdvisorService.ToRecommendations(advice, quotes); len(recs) > 0 {
			result.Recommendations = recs
			result.Source = models.SourceAdvisor
			return result, nil
		}
		a.Logger.Info().Msg("Advisor returned no usable recommendations - falling back to engine")
	}

	result.Recommendations = a.RebalanceService.Rebalance(input)
	result.Source = models.SourceAlgorithmic
	return result, nil
}

// Execute applies a recommendation batch under the exclusive state lock.
func (a *App) Execute(ctx context.Context, recs []*models.Recommendation) (*models.ApplyResult, error) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.ExecutionService.Apply(ctx, recs, a.State)
}

// Deposit adds cash to the session (a paycheck arriving).
func (a *App) Deposit(ctx context.Context, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("deposit amount must be positive")
	}

	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	a.State.CashBalance += amount
	if a.Store != nil {
		if err := a.Store.SaveState(ctx, a.State); err != nil {
			a.State.CashBalance -= amount
			return 0, fmt.Errorf("failed to persist deposit: %w", err)
		}
	}

	a.Logger.Info().Float64("amount", amount).Float64("cash", a.State.CashBalance).Msg("Deposit recorded")
	return a.State.CashBalance, nil
}

// Snapshot prices the current session against fresh research quotes and
// returns the account overview.
func (a *App) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	_, quotes, err := a.MarketService.AnalyzeMarket(ctx)
	if err != nil {
		return nil, fmt.Errorf("market analysis failed: %w", err)
	}

	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	portfolioValue := a.State.TotalValue(quotes)
	totalAccount := portfolioValue + a.State.CashBalance

	snapshot := &models.Snapshot{
		Holdings:          make([]models.Holding, 0, len(a.State.Holdings)),
		CashBalance:       a.State.CashBalance,
		PortfolioValue:    portfolioValue,
		TotalAccountValue: totalAccount,
		Breakdown:         a.State.CategoryBreakdown(quotes),
		TargetAllocation:  a.State.TargetAllocation,
		ExecutionLog:      a.State.ExecutionLog,
	}
	if totalAccount > 0 {
		snapshot.UninvestedPct = a.State.CashBalance / totalAccount * 100
	}

	for _, symbol := range sortedSymbols(a.State.Holdings) {
		snapshot.Holdings = append(snapshot.Holdings, *a.State.Holdings[symbol])
	}

	return snapshot, nil
}

func sortedSymbols(holdings map[string]*models.Holding) []string {
	symbols := make([]string, 0, len(holdings))
	for s := range holdings {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
