// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/carshow/auth"
	"github.com/danielhkuo/carshow/cliparse"
	"github.com/danielhkuo/carshow/middleware"
	"github.com/danielhkuo/carshow/models"
)

type AdminHandler struct {
	cfg cliparse.Config
	jwt auth.JWT
}

func NewAdminHandler(cfg cliparse.Config, jwt auth.JWT) *AdminHandler {
	return &AdminHandler{cfg: cfg, jwt: jwt}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := auth.CheckAdminPassword(req.Password, h.cfg.AdminPassword); err != nil {
		slog.Warn("admin login rejected", "ip", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, expiresAt, err := h.jwt.Sign(auth.RoleAdmin)
	if err != nil {
		slog.Error("failed to sign admin token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("admin logged in", "expires_at", expiresAt)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// EnvCheck handles GET /env-check
// Reports which settings are present without exposing them
func EnvCheck(cfg cliparse.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.EnvCheckResponse{
			DatabaseConfigured:  cfg.DatabaseURL != "",
			DatabaseType:        cfg.DatabaseType,
			AdminPasswordSet:    cfg.AdminPassword != "",
			JWTSecretSet:        cfg.JWTSecret != "",
			VoterSaltSet:        cfg.VoterSalt != "",
			RemoteStatusSource:  cfg.StatusSourceURL != "",
			RedisConfigured:     cfg.RedisURL != "",
			PollIntervalSeconds: int64(cfg.PollInterval.Seconds()),
		})
	}
}
