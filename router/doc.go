// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the car show API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, mgr, results)

mgr is the running voting status manager and results is the cache used
for sealed results.

# Endpoints

Health:

	GET /health
	GET /env-check

Voting status (public):

	GET /voting/schedule      - Current window (404 until set)
	GET /voting/status        - Derived status and countdowns
	GET /voting/status/stream - Server-sent status events

Admin (requires Authorization: Bearer <token>):

	POST   /admin/login           - Exchange password for a session
	PUT    /admin/voting/schedule - Set the voting window
	POST   /admin/vehicles        - Enter a vehicle
	DELETE /admin/vehicles/{id}   - Withdraw a vehicle

Gallery and voting (public, voting uses X-Voter-Token):

	GET  /vehicles            - List vehicles
	GET  /vehicles/{id}       - Vehicle details
	POST /vehicles/{id}/votes - Cast or move a vote (open only)
	POST /voters/register     - Claim a display name
	GET  /voters/me/vote      - The caller's current vote

Results (public):

	GET /results     - Final rankings (after voting ends)
	GET /votes/count - Total votes cast

Every route except /health and / is wrapped in middleware.WithLogging.
*/
package router
