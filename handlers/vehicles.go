// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/carshow/auth"
	"github.com/danielhkuo/carshow/cache"
	"github.com/danielhkuo/carshow/middleware"
	"github.com/danielhkuo/carshow/models"
	"github.com/danielhkuo/carshow/votestatus"
)

// Earliest model year accepted for an entry
const minModelYear = 1886

type VehicleHandler struct {
	db      *sql.DB
	mgr     *votestatus.Manager
	results *cache.Results
}

func NewVehicleHandler(db *sql.DB, mgr *votestatus.Manager, results *cache.Results) *VehicleHandler {
	return &VehicleHandler{db: db, mgr: mgr, results: results}
}

// ListVehicles handles GET /vehicles
// Vote counts are included only once voting has ended
func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	showVotes := h.mgr.HasVotingEnded()

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT v.id, v.owner_name, v.year, v.make, v.model, v.description,
		       v.image_url, v.created_at,
		       (SELECT COUNT(*) FROM vote vo WHERE vo.vehicle_id = v.id)
		FROM vehicle v
		ORDER BY v.created_at, v.id
	`)
	if err != nil {
		slog.Error("failed to query vehicles", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		var votes int
		if err := rows.Scan(
			&v.ID, &v.OwnerName, &v.Year, &v.Make, &v.Model, &v.Description,
			&v.ImageURL, &v.CreatedAt, &votes,
		); err != nil {
			slog.Error("failed to scan vehicle", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if showVotes {
			v.Votes = &votes
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate vehicles", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, vehicles)
}

// GetVehicle handles GET /vehicles/{id}
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")
	if vehicleID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var v models.Vehicle
	var votes int
	err := h.db.QueryRowContext(r.Context(), `
		SELECT v.id, v.owner_name, v.year, v.make, v.model, v.description,
		       v.image_url, v.created_at,
		       (SELECT COUNT(*) FROM vote vo WHERE vo.vehicle_id = v.id)
		FROM vehicle v
		WHERE v.id = $1
	`, vehicleID).Scan(
		&v.ID, &v.OwnerName, &v.Year, &v.Make, &v.Model, &v.Description,
		&v.ImageURL, &v.CreatedAt, &votes,
	)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	if err != nil {
		slog.Error("failed to query vehicle", "error", err, "vehicle_id", vehicleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if h.mgr.HasVotingEnded() {
		v.Votes = &votes
	}

	middleware.JSONResponse(w, http.StatusOK, v)
}

// CreateVehicle handles POST /admin/vehicles
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVehicleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.OwnerName = strings.TrimSpace(req.OwnerName)
	req.Make = strings.TrimSpace(req.Make)
	req.Model = strings.TrimSpace(req.Model)

	if req.OwnerName == "" || req.Make == "" || req.Model == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "owner_name, make and model are required")
		return
	}

	now := time.Now().UTC()
	if req.Year < minModelYear || req.Year > now.Year()+1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "year is out of range")
		return
	}

	vehicle := models.Vehicle{
		ID:          auth.GenerateID(),
		OwnerName:   req.OwnerName,
		Year:        req.Year,
		Make:        req.Make,
		Model:       req.Model,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
	}

	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO vehicle (id, owner_name, year, make, model, description, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, vehicle.ID, vehicle.OwnerName, vehicle.Year, vehicle.Make, vehicle.Model,
		vehicle.Description, vehicle.ImageURL, vehicle.CreatedAt)
	if err != nil {
		slog.Error("failed to insert vehicle", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}

	slog.Info("vehicle created", "vehicle_id", vehicle.ID, "owner", vehicle.OwnerName)

	middleware.JSONResponse(w, http.StatusCreated, vehicle)
}

// DeleteVehicle handles DELETE /admin/vehicles/{id}
// Votes for the vehicle are removed with it
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")
	if vehicleID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	res, err := h.db.ExecContext(r.Context(), `DELETE FROM vehicle WHERE id = $1`, vehicleID)
	if err != nil {
		slog.Error("failed to delete vehicle", "error", err, "vehicle_id", vehicleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Vehicle not found")
		return
	}

	h.results.Invalidate(r.Context())

	slog.Info("vehicle deleted", "vehicle_id", vehicleID)

	w.WriteHeader(http.StatusNoContent)
}
