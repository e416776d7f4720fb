package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/presentation"
	"fintrack/internal/storage"
)

const (
	totalsCacheKey   = "totals"
	insightsCacheKey = "latest"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tx, err := req.toTransaction()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.transactions.CreateTransaction(r.Context(), tx)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create transaction", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.invalidateReadCaches()
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

// handleListTransactions returns all live transactions, optionally
// filtered by year and month query parameters.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriodFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.transactions.ListTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	items := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		if year != 0 && t.OccurredAt.Year() != year {
			continue
		}
		if month != 0 && t.OccurredAt.Month() != time.Month(month) {
			continue
		}
		items = append(items, toTransactionResponse(t))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": items,
		"count":        len(items),
	})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	tx, err := s.transactions.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to get transaction", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get transaction")
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.transactions.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete transaction", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateReadCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	if totals, found := s.totalsCache.Get(totalsCacheKey); found {
		writeJSON(w, http.StatusOK, toTotalsResponse(totals))
		return
	}

	totals, err := s.transactions.Totals(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to compute totals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute totals")
		return
	}

	s.totalsCache.Set(totalsCacheKey, totals)
	writeJSON(w, http.StatusOK, toTotalsResponse(totals))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.transactions.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list categories", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if decorated, found := s.insightsCache.Get(insightsCacheKey); found {
		writeJSON(w, http.StatusOK, decorated)
		return
	}

	analysis, err := s.analysis.LatestAnalysis(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load analysis", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load analysis")
		return
	}

	decorated := presentation.Decorate(analysis)
	s.insightsCache.Set(insightsCacheKey, decorated)
	writeJSON(w, http.StatusOK, decorated)
}

// handleRefreshInsights recomputes the analysis on demand instead of
// waiting for the worker.
func (s *Server) handleRefreshInsights(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.analysis.Analyze(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to recompute analysis", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to recompute analysis")
		return
	}

	decorated := presentation.Decorate(analysis)
	s.insightsCache.Purge()
	s.insightsCache.Set(insightsCacheKey, decorated)
	writeJSON(w, http.StatusOK, decorated)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleReady verifies the storage dependency with a lightweight query.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if _, err := s.transactions.ListCategories(ctx); err != nil {
		checks["storage"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}

	checks["cache"] = map[string]any{
		"insights_entries": s.insightsCache.Size(),
		"totals_entries":   s.totalsCache.Size(),
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.activeClients(),
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// parsePeriodFilter reads the optional year and month query parameters.
// Zero means no filter on that part.
func parsePeriodFilter(r *http.Request) (year, month int, err error) {
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil || year < 1 {
			return 0, 0, errors.New("invalid year parameter")
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			return 0, 0, errors.New("invalid month parameter")
		}
	}
	return year, month, nil
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidType,
		core.ErrEmptyDescription,
		core.ErrEmptyCategory,
		core.ErrZeroDate,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return strings.Contains(err.Error(), "validate transaction")
}
