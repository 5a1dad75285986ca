// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/carshow/cache"
	"github.com/danielhkuo/carshow/middleware"
	"github.com/danielhkuo/carshow/votestatus"
)

type ResultsHandler struct {
	db      *sql.DB
	mgr     *votestatus.Manager
	results *cache.Results
}

func NewResultsHandler(db *sql.DB, mgr *votestatus.Manager, results *cache.Results) *ResultsHandler {
	return &ResultsHandler{db: db, mgr: mgr, results: results}
}

// GetResults handles GET /results
// Returns 403 until voting has ended (results are sealed)
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	// CRITICAL: Results are sealed until voting has ended
	if !h.mgr.HasVotingEnded() {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until voting has ended")
		return
	}

	if cached, found := h.results.Load(r.Context()); found {
		w.Header().Set("X-Cache", "HIT")
		writeRawJSON(w, cached)
		return
	}

	results, err := ComputeResults(r.Context(), h.db)
	if err != nil {
		slog.Error("failed to compute results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	payload, err := json.Marshal(results)
	if err != nil {
		slog.Error("failed to encode results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	h.results.Save(r.Context(), payload)

	slog.Info("results computed", "total_votes", results.TotalVotes, "vehicles", len(results.Rankings))

	w.Header().Set("X-Cache", "MISS")
	writeRawJSON(w, payload)
}

// GetVoteCount handles GET /votes/count
// The total is visible while voting is open, per-vehicle counts are not
func (h *ResultsHandler) GetVoteCount(w http.ResponseWriter, r *http.Request) {
	var count int
	err := h.db.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM vote`).Scan(&count)
	if err != nil {
		slog.Error("failed to count votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]int{
		"vote_count": count,
	})
}

func writeRawJSON(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
