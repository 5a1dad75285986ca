// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/carshow/auth"
	"github.com/danielhkuo/carshow/models"
	"github.com/danielhkuo/carshow/testutil"
)

func TestLogin(t *testing.T) {
	cfg := testutil.GetTestConfig()
	jwt := auth.NewJWT(cfg.JWTSecret, time.Hour)
	handler := NewAdminHandler(cfg, jwt)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"correct password", models.LoginRequest{Password: cfg.AdminPassword}, http.StatusOK},
		{"wrong password", models.LoginRequest{Password: "nope"}, http.StatusUnauthorized},
		{"empty password", models.LoginRequest{}, http.StatusUnauthorized},
		{"invalid json", "password", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Login(w, testutil.MakeRequest("POST", "/admin/login", tt.body, nil))
			testutil.AssertStatus(t, w, tt.wantStatus)

			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp models.LoginResponse
			testutil.AssertJSON(t, w, &resp)
			claims, err := jwt.Verify(resp.Token)
			if err != nil {
				t.Fatalf("issued token does not verify: %v", err)
			}
			if claims.Role != auth.RoleAdmin {
				t.Errorf("role = %q, want %q", claims.Role, auth.RoleAdmin)
			}
			if !resp.ExpiresAt.After(time.Now()) {
				t.Errorf("expires_at %v is not in the future", resp.ExpiresAt)
			}
		})
	}
}

func TestLogin_UnconfiguredPassword(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.AdminPassword = ""
	handler := NewAdminHandler(cfg, auth.NewJWT(cfg.JWTSecret, time.Hour))

	w := httptest.NewRecorder()
	handler.Login(w, testutil.MakeRequest("POST", "/admin/login", models.LoginRequest{}, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestEnvCheck(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.RedisURL = "redis://localhost:6379/0"

	w := httptest.NewRecorder()
	EnvCheck(cfg)(w, testutil.MakeRequest("GET", "/env-check", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.EnvCheckResponse
	testutil.AssertJSON(t, w, &resp)

	want := models.EnvCheckResponse{
		DatabaseConfigured:  true,
		DatabaseType:        "sqlite",
		AdminPasswordSet:    true,
		JWTSecretSet:        true,
		VoterSaltSet:        true,
		RemoteStatusSource:  false,
		RedisConfigured:     true,
		PollIntervalSeconds: 30,
	}
	if resp != want {
		t.Errorf("EnvCheck() = %+v, want %+v", resp, want)
	}
}
