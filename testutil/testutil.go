// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/carshow/auth"
	"github.com/danielhkuo/carshow/cache"
	"github.com/danielhkuo/carshow/cliparse"
	"github.com/danielhkuo/carshow/db"
	"github.com/danielhkuo/carshow/votestatus"
)

// TestDBURL is an in-memory sqlite database, private to each connection pool
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     TestDBURL,
		DatabaseType:    "sqlite",
		AdminPassword:   "test-admin-password",
		JWTSecret:       "test-jwt-secret",
		VoterSalt:       "test-voter-salt",
		PollInterval:    30 * time.Second,
		ResultsCacheTTL: time.Minute,
	}
}

// NewTestResults returns an empty in-process results cache
func NewTestResults() *cache.Results {
	return cache.NewResults(cache.NewMemoryStore(), GetTestConfig().ResultsCacheTTL)
}

// WindowFor returns a voting window around now that evaluates to status
func WindowFor(status votestatus.Status) votestatus.Schedule {
	now := time.Now().UTC()
	switch status {
	case votestatus.StatusUpcoming:
		return votestatus.Schedule{OpensAt: now.Add(time.Hour), ClosesAt: now.Add(2 * time.Hour)}
	case votestatus.StatusClosed:
		return votestatus.Schedule{OpensAt: now.Add(-2 * time.Hour), ClosesAt: now.Add(-time.Hour)}
	default:
		return votestatus.Schedule{OpensAt: now.Add(-time.Hour), ClosesAt: now.Add(time.Hour)}
	}
}

// NewTestManager returns a manager backed by the schedule table.
// A non-empty status stores a matching window and loads it; an empty
// status leaves the manager loading with no schedule.
func NewTestManager(t *testing.T, conn *sql.DB, status votestatus.Status) *votestatus.Manager {
	t.Helper()

	store := db.NewScheduleStore(conn)
	mgr := votestatus.NewManager(store, votestatus.Options{})
	if status == "" {
		return mgr
	}

	if err := store.SetSchedule(context.Background(), WindowFor(status)); err != nil {
		t.Fatalf("Failed to store test schedule: %v", err)
	}
	if err := mgr.Refresh(context.Background()); err != nil {
		t.Fatalf("Failed to load test schedule: %v", err)
	}
	if got := mgr.Status(); got != status {
		t.Fatalf("Test manager status = %q, want %q", got, status)
	}

	return mgr
}

// CreateTestVehicle inserts a vehicle and returns its ID
func CreateTestVehicle(t *testing.T, conn *sql.DB, year int, carMake, carModel string) string {
	t.Helper()

	vehicleID := auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO vehicle (id, owner_name, year, make, model, description, image_url, created_at)
		VALUES ($1, 'Test Owner', $2, $3, $4, '', '', $5)
	`, vehicleID, year, carMake, carModel, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vehicle: %v", err)
	}

	return vehicleID
}

// CreateTestVoter registers a voter and returns the voter token
func CreateTestVoter(t *testing.T, conn *sql.DB, displayName string) string {
	t.Helper()

	voterToken, err := auth.GenerateVoterToken()
	if err != nil {
		t.Fatalf("Failed to generate voter token: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO voter (id, display_name, voter_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, auth.GenerateID(), displayName, voterToken, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voterToken
}

// CastTestVote records a vote directly, bypassing the voting window
func CastTestVote(t *testing.T, conn *sql.DB, voterToken, vehicleID string) string {
	t.Helper()

	voteID := auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO vote (id, voter_id, vehicle_id, cast_at)
		SELECT $1, id, $2, $3 FROM voter WHERE voter_token = $4
	`, voteID, vehicleID, time.Now().UTC(), voterToken)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// AdminToken signs an admin session for cfg
func AdminToken(t *testing.T, cfg cliparse.Config) string {
	t.Helper()

	token, _, err := auth.NewJWT(cfg.JWTSecret, time.Hour).Sign(auth.RoleAdmin)
	if err != nil {
		t.Fatalf("Failed to sign admin token: %v", err)
	}
	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
