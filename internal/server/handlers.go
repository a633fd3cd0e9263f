package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/foliolab/folio/internal/common"
	"github.com/foliolab/folio/internal/models"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"version": common.GetVersion(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// --- Portfolio handlers ---

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snapshot, err := s.app.Snapshot(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error building portfolio snapshot: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	balance, err := s.app.Deposit(r.Context(), req.Amount)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Deposit failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"deposited":    req.Amount,
		"cash_balance": balance,
	})
}

// --- Analysis handlers ---

func (s *Server) handleMarketAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	summary, quotes, err := s.app.MarketService.AnalyzeMarket(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Market analysis failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"market": summary,
		"quotes": quotes,
	})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		UseAdvisor bool `json:"use_advisor"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if !DecodeJSON(w, r, &req) {
			return
		}
	}

	result, err := s.app.Recommend(r.Context(), req.UseAdvisor)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Recommendation failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Recommendations []*models.Recommendation `json:"recommendations"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Recommendations) == 0 {
		WriteError(w, http.StatusBadRequest, "No recommendations provided")
		return
	}

	result, err := s.app.Execute(r.Context(), req.Recommendations)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Execution failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	param := r.URL.Query().Get("symbols")
	var symbols []string
	if param == "" {
		symbols = models.ResearchSymbols
	} else {
		for _, sym := range strings.Split(param, ",") {
			sym = strings.ToUpper(strings.TrimSpace(sym))
			if sym != "" {
				symbols = append(symbols, sym)
			}
		}
	}
	if len(symbols) == 0 {
		WriteError(w, http.StatusBadRequest, "No symbols provided")
		return
	}

	quotes := s.app.QuoteClient.FetchQuotes(r.Context(), symbols)
	WriteJSON(w, http.StatusOK, map[string]any{
		"quotes": quotes,
	})
}
