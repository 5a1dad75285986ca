// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/carshow/cache"
	"github.com/danielhkuo/carshow/db"
	"github.com/danielhkuo/carshow/middleware"
	"github.com/danielhkuo/carshow/models"
	"github.com/danielhkuo/carshow/votestatus"
)

const refreshTimeout = 5 * time.Second

type StatusHandler struct {
	store   *db.ScheduleStore
	mgr     *votestatus.Manager
	results *cache.Results
}

func NewStatusHandler(conn *sql.DB, mgr *votestatus.Manager, results *cache.Results) *StatusHandler {
	return &StatusHandler{store: db.NewScheduleStore(conn), mgr: mgr, results: results}
}

// GetSchedule handles GET /voting/schedule
// This is the payload votestatus.HTTPSource reads
func (h *StatusHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := h.store.GetSchedule(r.Context())
	if errors.Is(err, db.ErrNoSchedule) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voting schedule not set")
		return
	}
	if err != nil {
		slog.Error("failed to query schedule", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, sched)
}

// GetStatus handles GET /voting/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, BuildStatusResponse(h.mgr, time.Now()))
}

// StreamStatus handles GET /voting/status/stream
// Sends a "status" server-sent event after every manager cycle
func (h *StatusHandler) StreamStatus(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Slow clients drop intermediate updates rather than block the manager
	updates := make(chan models.VotingStatusResponse, 4)
	unsubscribe := h.mgr.Subscribe(func(votestatus.Status, *votestatus.Schedule) {
		select {
		case updates <- BuildStatusResponse(h.mgr, time.Now()):
		default:
		}
	})
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case update := <-updates:
			payload, err := json.Marshal(update)
			if err != nil {
				slog.Error("failed to encode status event", "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: status\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// SetSchedule handles PUT /admin/voting/schedule
func (h *StatusHandler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.SetScheduleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sched := votestatus.Schedule{OpensAt: req.OpensAt, ClosesAt: req.ClosesAt}
	err := h.store.SetSchedule(r.Context(), sched)
	if errors.Is(err, votestatus.ErrParse) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to store schedule", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store schedule")
		return
	}

	h.results.Invalidate(r.Context())

	// A remote source may not see the new window yet; the next poll catches up
	ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
	defer cancel()
	if err := h.mgr.Refresh(ctx); err != nil {
		slog.Warn("voting status refresh after schedule change failed", "error", err)
	}

	slog.Info("voting schedule updated",
		"opens_at", sched.OpensAt.UTC().Format(time.RFC3339),
		"closes_at", sched.ClosesAt.UTC().Format(time.RFC3339),
	)

	middleware.JSONResponse(w, http.StatusOK, BuildStatusResponse(h.mgr, time.Now()))
}

// BuildStatusResponse derives the public status view from the manager
func BuildStatusResponse(mgr *votestatus.Manager, now time.Time) models.VotingStatusResponse {
	snap := mgr.Snapshot()

	resp := models.VotingStatusResponse{
		Status:         snap.Status,
		Schedule:       snap.Schedule,
		IsVotingOpen:   mgr.IsVotingOpen(),
		HasVotingEnded: mgr.HasVotingEnded(),
		UpdatedAt:      snap.UpdatedAt,
	}
	if d, ok := mgr.TimeUntilOpen(); ok {
		secs := int64(d / time.Second)
		resp.SecondsUntilOpen = &secs
	}
	if d, ok := mgr.TimeUntilClose(); ok {
		secs := int64(d / time.Second)
		resp.SecondsUntilClose = &secs
	}
	resp.Message = statusMessage(snap, now)

	return resp
}

func statusMessage(snap votestatus.Snapshot, now time.Time) string {
	if snap.Schedule == nil {
		if snap.Status == votestatus.StatusError {
			return "Voting schedule unavailable"
		}
		return "Checking voting schedule"
	}

	sched := snap.Schedule
	switch sched.StatusAt(now) {
	case votestatus.StatusUpcoming:
		return "Voting opens " + humanize.RelTime(sched.OpensAt, now, "ago", "from now")
	case votestatus.StatusOpen:
		return "Voting closes " + humanize.RelTime(sched.ClosesAt, now, "ago", "from now")
	default:
		return "Voting closed " + humanize.RelTime(sched.ClosesAt, now, "ago", "from now")
	}
}
