// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/danielhkuo/carshow/models"
	"github.com/danielhkuo/carshow/testutil"
	"github.com/danielhkuo/carshow/votestatus"
)

func TestGetResults_SealedUntilVotingEnds(t *testing.T) {
	for _, status := range []votestatus.Status{"", votestatus.StatusUpcoming, votestatus.StatusOpen} {
		name := string(status)
		if name == "" {
			name = "loading"
		}
		t.Run(name, func(t *testing.T) {
			conn := testutil.SetupTestDB(t)
			defer conn.Close()

			results := testutil.NewTestResults()
			handler := NewResultsHandler(conn, testutil.NewTestManager(t, conn, status), results)

			w := httptest.NewRecorder()
			handler.GetResults(w, testutil.MakeRequest("GET", "/results", nil, nil))
			testutil.AssertStatus(t, w, http.StatusForbidden)

			if _, found := results.Load(context.Background()); found {
				t.Error("sealed results must not be cached")
			}
		})
	}
}

func TestGetResults(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	results := testutil.NewTestResults()
	mgr := testutil.NewTestManager(t, conn, votestatus.StatusClosed)
	handler := NewResultsHandler(conn, mgr, results)

	gto := testutil.CreateTestVehicle(t, conn, 1962, "Ferrari", "250 GTO")
	cobra := testutil.CreateTestVehicle(t, conn, 1965, "Shelby", "Cobra")
	miura := testutil.CreateTestVehicle(t, conn, 1966, "Lamborghini", "Miura")

	for i, vehicleID := range []string{gto, gto, gto, cobra} {
		voter := testutil.CreateTestVoter(t, conn, "voter"+string(rune('a'+i)))
		testutil.CastTestVote(t, conn, voter, vehicleID)
	}

	w := httptest.NewRecorder()
	handler.GetResults(w, testutil.MakeRequest("GET", "/results", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if got := w.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}

	var res models.Results
	testutil.AssertJSON(t, w, &res)

	if res.TotalVotes != 4 {
		t.Errorf("total_votes = %d, want 4", res.TotalVotes)
	}

	want := []struct {
		id    string
		label string
		votes int
		rank  int
	}{
		{gto, "1962 Ferrari 250 GTO", 3, 1},
		{cobra, "1965 Shelby Cobra", 1, 2},
		{miura, "1966 Lamborghini Miura", 0, 3},
	}
	if len(res.Rankings) != len(want) {
		t.Fatalf("got %d rankings, want %d", len(res.Rankings), len(want))
	}
	for i, exp := range want {
		got := res.Rankings[i]
		if got.VehicleID != exp.id || got.Label != exp.label || got.Votes != exp.votes || got.Rank != exp.rank {
			t.Errorf("rankings[%d] = %+v, want %+v", i, got, exp)
		}
	}

	t.Run("served from cache", func(t *testing.T) {
		// A vote inserted behind the cache is not seen until it expires
		testutil.CastTestVote(t, conn, testutil.CreateTestVoter(t, conn, "late"), miura)

		w := httptest.NewRecorder()
		handler.GetResults(w, testutil.MakeRequest("GET", "/results", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		if got := w.Header().Get("X-Cache"); got != "HIT" {
			t.Errorf("X-Cache = %q, want HIT", got)
		}

		var cached models.Results
		testutil.AssertJSON(t, w, &cached)
		if cached.TotalVotes != 4 {
			t.Errorf("cached total_votes = %d, want 4", cached.TotalVotes)
		}
	})
}

func TestGetVoteCount(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := NewResultsHandler(conn, testutil.NewTestManager(t, conn, votestatus.StatusOpen), testutil.NewTestResults())

	vehicleID := testutil.CreateTestVehicle(t, conn, 1971, "Datsun", "240Z")
	testutil.CastTestVote(t, conn, testutil.CreateTestVoter(t, conn, "hank"), vehicleID)
	testutil.CastTestVote(t, conn, testutil.CreateTestVoter(t, conn, "ivy"), vehicleID)

	w := httptest.NewRecorder()
	handler.GetVoteCount(w, testutil.MakeRequest("GET", "/votes/count", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp map[string]int
	testutil.AssertJSON(t, w, &resp)
	if resp["vote_count"] != 2 {
		t.Errorf("vote_count = %d, want 2", resp["vote_count"])
	}
}

func TestRankTallies(t *testing.T) {
	tests := []struct {
		name  string
		in    []models.VehicleTally
		ranks []int
		order []string
	}{
		{
			name:  "empty",
			in:    []models.VehicleTally{},
			ranks: []int{},
			order: []string{},
		},
		{
			name: "distinct",
			in: []models.VehicleTally{
				{VehicleID: "a", Label: "A", Votes: 1},
				{VehicleID: "b", Label: "B", Votes: 5},
				{VehicleID: "c", Label: "C", Votes: 3},
			},
			ranks: []int{1, 2, 3},
			order: []string{"b", "c", "a"},
		},
		{
			name: "ties share a rank",
			in: []models.VehicleTally{
				{VehicleID: "a", Label: "Zephyr", Votes: 4},
				{VehicleID: "b", Label: "Apollo", Votes: 4},
				{VehicleID: "c", Label: "Comet", Votes: 2},
				{VehicleID: "d", Label: "Dart", Votes: 2},
				{VehicleID: "e", Label: "Edsel", Votes: 0},
			},
			ranks: []int{1, 1, 3, 3, 5},
			order: []string{"b", "a", "c", "d", "e"},
		},
		{
			name: "no votes at all",
			in: []models.VehicleTally{
				{VehicleID: "y", Label: "Same", Votes: 0},
				{VehicleID: "x", Label: "Same", Votes: 0},
			},
			ranks: []int{1, 1},
			order: []string{"x", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rankTallies(tt.in)

			ranks := make([]int, len(got))
			order := make([]string, len(got))
			for i, g := range got {
				ranks[i] = g.Rank
				order[i] = g.VehicleID
			}
			if !reflect.DeepEqual(ranks, tt.ranks) {
				t.Errorf("ranks = %v, want %v", ranks, tt.ranks)
			}
			if !reflect.DeepEqual(order, tt.order) {
				t.Errorf("order = %v, want %v", order, tt.order)
			}
		})
	}
}

func TestRankTallies_DoesNotMutateInput(t *testing.T) {
	in := []models.VehicleTally{
		{VehicleID: "a", Votes: 1},
		{VehicleID: "b", Votes: 2},
	}
	rankTallies(in)
	if in[0].VehicleID != "a" || in[0].Rank != 0 {
		t.Errorf("input was modified: %+v", in)
	}
}
