// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/carshow/auth"
	"github.com/danielhkuo/carshow/cliparse"
	"github.com/danielhkuo/carshow/db"
	"github.com/danielhkuo/carshow/middleware"
	"github.com/danielhkuo/carshow/models"
	"github.com/danielhkuo/carshow/votestatus"
)

var errUnknownVoter = errors.New("unknown voter token")

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	mgr *votestatus.Manager
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, mgr *votestatus.Manager) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, mgr: mgr}
}

// RegisterVoter handles POST /voters/register
func (h *VotingHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.DisplayName)
	if len(name) < 2 || len(name) > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name must be 2-50 characters")
		return
	}

	voterToken, err := auth.GenerateVoterToken()
	if err != nil {
		slog.Error("failed to generate voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	voterID := auth.GenerateID()
	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO voter (id, display_name, voter_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, voterID, name, voterToken, time.Now().UTC())

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Display name already taken")
			return
		}
		slog.Error("failed to insert voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	slog.Info("voter registered", "voter_id", voterID, "display_name", name)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		VoterToken: voterToken,
	})
}

// CastVote handles POST /vehicles/{id}/votes
// Each voter holds one vote; voting again moves it to the new vehicle
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")
	if vehicleID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	voterToken := r.Header.Get("X-Voter-Token")
	if voterToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return
	}

	if !h.mgr.IsVotingOpen() {
		middleware.ErrorResponse(w, http.StatusConflict, "Voting is not open ("+string(h.mgr.Status())+")")
		return
	}

	voterID, err := h.lookupVoter(r.Context(), voterToken)
	if errors.Is(err, errUnknownVoter) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token")
		return
	}
	if err != nil {
		slog.Error("failed to verify voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var exists bool
	err = h.db.QueryRowContext(r.Context(), `
		SELECT EXISTS(SELECT 1 FROM vehicle WHERE id = $1)
	`, vehicleID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query vehicle", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Vehicle not found")
		return
	}

	// Get IP hash for tracking
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.VoterSalt)
	userAgent := r.UserAgent()
	now := time.Now().UTC()

	// Begin transaction for UPSERT
	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Check if voter already has a vote
	var existingVoteID string
	err = tx.QueryRowContext(r.Context(), `
		SELECT id FROM vote WHERE voter_id = $1
	`, voterID).Scan(&existingVoteID)
	if err != nil && err != sql.ErrNoRows {
		slog.Error("failed to query existing vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	isUpdate := err == nil
	voteID := existingVoteID

	if isUpdate {
		_, err = tx.ExecContext(r.Context(), `
			UPDATE vote
			SET vehicle_id = $1, cast_at = $2, ip_hash = $3, user_agent = $4
			WHERE id = $5
		`, vehicleID, now, ipHash, userAgent, voteID)
	} else {
		voteID = auth.GenerateID()
		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO vote (id, voter_id, vehicle_id, cast_at, ip_hash, user_agent)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, voteID, voterID, vehicleID, now, ipHash, userAgent)
	}

	if err != nil {
		if db.IsUniqueViolation(err) {
			// Lost a race with the same voter's concurrent first vote
			middleware.ErrorResponse(w, http.StatusConflict, "Vote already being recorded, retry")
			return
		}
		slog.Error("failed to save vote", "error", err, "is_update", isUpdate)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	message := "Vote cast successfully"
	if isUpdate {
		message = "Vote updated successfully"
	}

	slog.Info("vote cast", "vote_id", voteID, "vehicle_id", vehicleID, "is_update", isUpdate)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID:    voteID,
		VehicleID: vehicleID,
		Message:   message,
	})
}

// GetMyVote handles GET /voters/me/vote
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	voterToken := r.Header.Get("X-Voter-Token")
	if voterToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return
	}

	voterID, err := h.lookupVoter(r.Context(), voterToken)
	if errors.Is(err, errUnknownVoter) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token")
		return
	}
	if err != nil {
		slog.Error("failed to verify voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var vote models.Vote
	err = h.db.QueryRowContext(r.Context(), `
		SELECT id, voter_id, vehicle_id, cast_at
		FROM vote
		WHERE voter_id = $1
	`, voterID).Scan(&vote.ID, &vote.VoterID, &vote.VehicleID, &vote.CastAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No vote cast yet")
		return
	}
	if err != nil {
		slog.Error("failed to query vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, vote)
}

func (h *VotingHandler) lookupVoter(ctx context.Context, voterToken string) (string, error) {
	var voterID string
	err := h.db.QueryRowContext(ctx, `
		SELECT id FROM voter WHERE voter_token = $1
	`, voterToken).Scan(&voterID)
	if err == sql.ErrNoRows {
		return "", errUnknownVoter
	}
	return voterID, err
}
