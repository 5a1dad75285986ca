// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/danielhkuo/carshow/auth"
	"github.com/danielhkuo/carshow/cache"
	"github.com/danielhkuo/carshow/cliparse"
	"github.com/danielhkuo/carshow/handlers"
	"github.com/danielhkuo/carshow/middleware"
	"github.com/danielhkuo/carshow/votestatus"
)

// AdminSessionTTL is how long an admin login stays valid
const AdminSessionTTL = 12 * time.Hour

func NewRouter(db *sql.DB, cfg cliparse.Config, mgr *votestatus.Manager, results *cache.Results) *http.ServeMux {
	mux := http.NewServeMux()
	jwt := auth.NewJWT(cfg.JWTSecret, AdminSessionTTL)

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(cfg, jwt)
	statusHandler := handlers.NewStatusHandler(db, mgr, results)
	vehicleHandler := handlers.NewVehicleHandler(db, mgr, results)
	votingHandler := handlers.NewVotingHandler(db, cfg, mgr)
	resultsHandler := handlers.NewResultsHandler(db, mgr, results)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(jwt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET /env-check", middleware.WithLogging(handlers.EnvCheck(cfg)))

	// Voting status (public)
	mux.HandleFunc("GET /voting/schedule", middleware.WithLogging(statusHandler.GetSchedule))
	mux.HandleFunc("GET /voting/status", middleware.WithLogging(statusHandler.GetStatus))
	mux.HandleFunc("GET /voting/status/stream", middleware.WithLogging(statusHandler.StreamStatus))

	// Admin operations
	mux.HandleFunc("POST /admin/login", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("PUT /admin/voting/schedule", admin(statusHandler.SetSchedule))
	mux.HandleFunc("POST /admin/vehicles", admin(vehicleHandler.CreateVehicle))
	mux.HandleFunc("DELETE /admin/vehicles/{id}", admin(vehicleHandler.DeleteVehicle))

	// Gallery (public, vote counts sealed until voting ends)
	mux.HandleFunc("GET /vehicles", middleware.WithLogging(vehicleHandler.ListVehicles))
	mux.HandleFunc("GET /vehicles/{id}", middleware.WithLogging(vehicleHandler.GetVehicle))

	// Voting operations (public, X-Voter-Token)
	mux.HandleFunc("POST /voters/register", middleware.WithLogging(votingHandler.RegisterVoter))
	mux.HandleFunc("GET /voters/me/vote", middleware.WithLogging(votingHandler.GetMyVote))
	mux.HandleFunc("POST /vehicles/{id}/votes", middleware.WithLogging(votingHandler.CastVote))

	// Results retrieval (public, with sealed results)
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /votes/count", middleware.WithLogging(resultsHandler.GetVoteCount))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("carshow API v1"))
	})

	return mux
}
