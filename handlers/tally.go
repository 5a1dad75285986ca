// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/danielhkuo/carshow/models"
)

// ComputeResults tallies one vote per voter across every vehicle
func ComputeResults(ctx context.Context, db *sql.DB) (models.Results, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT v.id, v.year, v.make, v.model, v.owner_name,
		       (SELECT COUNT(*) FROM vote vo WHERE vo.vehicle_id = v.id)
		FROM vehicle v
	`)
	if err != nil {
		return models.Results{}, fmt.Errorf("failed to query tallies: %w", err)
	}
	defer rows.Close()

	var tallies []models.VehicleTally
	for rows.Next() {
		var t models.VehicleTally
		var year int
		var carMake, carModel string
		if err := rows.Scan(&t.VehicleID, &year, &carMake, &carModel, &t.OwnerName, &t.Votes); err != nil {
			return models.Results{}, fmt.Errorf("failed to scan tally: %w", err)
		}
		t.Label = fmt.Sprintf("%d %s %s", year, carMake, carModel)
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return models.Results{}, fmt.Errorf("failed to iterate tallies: %w", err)
	}

	return models.Results{
		ComputedAt: time.Now().UTC(),
		TotalVotes: totalVotes(tallies),
		Rankings:   rankTallies(tallies),
	}, nil
}

// rankTallies sorts by votes descending and assigns competition ranks:
// tied vehicles share a rank and the next rank skips (1, 1, 3).
// Ties are listed by label, then ID.
func rankTallies(tallies []models.VehicleTally) []models.VehicleTally {
	ranked := make([]models.VehicleTally, len(tallies))
	copy(ranked, tallies)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Votes != ranked[j].Votes {
			return ranked[i].Votes > ranked[j].Votes
		}
		if ranked[i].Label != ranked[j].Label {
			return ranked[i].Label < ranked[j].Label
		}
		return ranked[i].VehicleID < ranked[j].VehicleID
	})

	for i := range ranked {
		if i > 0 && ranked[i].Votes == ranked[i-1].Votes {
			ranked[i].Rank = ranked[i-1].Rank
		} else {
			ranked[i].Rank = i + 1
		}
	}

	return ranked
}

func totalVotes(tallies []models.VehicleTally) int {
	total := 0
	for _, t := range tallies {
		total += t.Votes
	}
	return total
}
