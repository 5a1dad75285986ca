// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/carshow/models"
	"github.com/danielhkuo/carshow/testutil"
	"github.com/danielhkuo/carshow/votestatus"
)

func TestRegisterVoter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	mgr := testutil.NewTestManager(t, conn, votestatus.StatusUpcoming)
	handler := NewVotingHandler(conn, testutil.GetTestConfig(), mgr)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"valid", models.RegisterVoterRequest{DisplayName: "Alice"}, http.StatusCreated},
		{"duplicate", models.RegisterVoterRequest{DisplayName: "Alice"}, http.StatusConflict},
		{"duplicate after trimming", models.RegisterVoterRequest{DisplayName: "  Alice "}, http.StatusConflict},
		{"too short", models.RegisterVoterRequest{DisplayName: "A"}, http.StatusBadRequest},
		{"too long", models.RegisterVoterRequest{DisplayName: strings.Repeat("x", 51)}, http.StatusBadRequest},
		{"empty", models.RegisterVoterRequest{}, http.StatusBadRequest},
		{"invalid json", "Alice", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.RegisterVoter(w, testutil.MakeRequest("POST", "/voters/register", tt.body, nil))
			testutil.AssertStatus(t, w, tt.wantStatus)

			if tt.wantStatus == http.StatusCreated {
				var resp models.RegisterVoterResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.VoterToken == "" {
					t.Error("expected voter token")
				}
			}
		})
	}
}

func castVote(handler *VotingHandler, vehicleID, voterToken string) *httptest.ResponseRecorder {
	headers := map[string]string{}
	if voterToken != "" {
		headers["X-Voter-Token"] = voterToken
	}
	req := testutil.MakeRequest("POST", "/vehicles/"+vehicleID+"/votes", nil, headers)
	req.SetPathValue("id", vehicleID)
	w := httptest.NewRecorder()
	handler.CastVote(w, req)
	return w
}

func TestCastVote_RequiresOpenVoting(t *testing.T) {
	for _, status := range []votestatus.Status{"", votestatus.StatusUpcoming, votestatus.StatusClosed} {
		name := string(status)
		if name == "" {
			name = "loading"
		}
		t.Run(name, func(t *testing.T) {
			conn := testutil.SetupTestDB(t)
			defer conn.Close()

			handler := NewVotingHandler(conn, testutil.GetTestConfig(), testutil.NewTestManager(t, conn, status))
			vehicleID := testutil.CreateTestVehicle(t, conn, 1969, "Dodge", "Charger")
			token := testutil.CreateTestVoter(t, conn, "eve")

			w := castVote(handler, vehicleID, token)
			testutil.AssertStatus(t, w, http.StatusConflict)

			var count int
			if err := conn.QueryRow(`SELECT COUNT(*) FROM vote`).Scan(&count); err != nil {
				t.Fatal(err)
			}
			if count != 0 {
				t.Errorf("vote recorded while voting was %s", name)
			}
		})
	}
}

func TestCastVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := NewVotingHandler(conn, testutil.GetTestConfig(), testutil.NewTestManager(t, conn, votestatus.StatusOpen))
	charger := testutil.CreateTestVehicle(t, conn, 1969, "Dodge", "Charger")
	beetle := testutil.CreateTestVehicle(t, conn, 1963, "Volkswagen", "Beetle")
	token := testutil.CreateTestVoter(t, conn, "frank")

	t.Run("missing token", func(t *testing.T) {
		testutil.AssertStatus(t, castVote(handler, charger, ""), http.StatusUnauthorized)
	})

	t.Run("unknown token", func(t *testing.T) {
		testutil.AssertStatus(t, castVote(handler, charger, "not-a-voter"), http.StatusUnauthorized)
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		testutil.AssertStatus(t, castVote(handler, "missing", token), http.StatusNotFound)
	})

	var firstVoteID string
	t.Run("first vote", func(t *testing.T) {
		w := castVote(handler, charger, token)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.CastVoteResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.VehicleID != charger || resp.Message != "Vote cast successfully" {
			t.Errorf("unexpected response %+v", resp)
		}
		firstVoteID = resp.VoteID
	})

	t.Run("vote again moves it", func(t *testing.T) {
		w := castVote(handler, beetle, token)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.CastVoteResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Message != "Vote updated successfully" {
			t.Errorf("message = %q", resp.Message)
		}
		if resp.VoteID != firstVoteID {
			t.Errorf("vote ID changed from %q to %q", firstVoteID, resp.VoteID)
		}

		var count int
		var vehicleID string
		if err := conn.QueryRow(`SELECT COUNT(*), MAX(vehicle_id) FROM vote`).Scan(&count, &vehicleID); err != nil {
			t.Fatal(err)
		}
		if count != 1 || vehicleID != beetle {
			t.Errorf("votes = %d for %q, want 1 for %q", count, vehicleID, beetle)
		}
	})

	t.Run("ip is hashed", func(t *testing.T) {
		var ipHash string
		if err := conn.QueryRow(`SELECT ip_hash FROM vote`).Scan(&ipHash); err != nil {
			t.Fatal(err)
		}
		if len(ipHash) != 16 || strings.Contains(ipHash, ".") {
			t.Errorf("ip_hash = %q, want 16 hex chars", ipHash)
		}
	})
}

func TestGetMyVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := NewVotingHandler(conn, testutil.GetTestConfig(), testutil.NewTestManager(t, conn, votestatus.StatusOpen))
	vehicleID := testutil.CreateTestVehicle(t, conn, 1957, "Chevrolet", "Bel Air")
	token := testutil.CreateTestVoter(t, conn, "grace")

	get := func(token string) *httptest.ResponseRecorder {
		headers := map[string]string{}
		if token != "" {
			headers["X-Voter-Token"] = token
		}
		w := httptest.NewRecorder()
		handler.GetMyVote(w, testutil.MakeRequest("GET", "/voters/me/vote", nil, headers))
		return w
	}

	testutil.AssertStatus(t, get(""), http.StatusUnauthorized)
	testutil.AssertStatus(t, get("bogus"), http.StatusUnauthorized)
	testutil.AssertStatus(t, get(token), http.StatusNotFound)

	voteID := testutil.CastTestVote(t, conn, token, vehicleID)

	w := get(token)
	testutil.AssertStatus(t, w, http.StatusOK)

	var vote models.Vote
	testutil.AssertJSON(t, w, &vote)
	if vote.ID != voteID || vote.VehicleID != vehicleID {
		t.Errorf("vote = %+v, want id %q for vehicle %q", vote, voteID, vehicleID)
	}
}
