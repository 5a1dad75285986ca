// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the car show API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AdminHandler: Admin login
  - StatusHandler: Voting schedule, status and status stream
  - VehicleHandler: Gallery listing and vehicle entry
  - VotingHandler: Voter registration and vote casting
  - ResultsHandler: Sealed results and vote counts

Handlers that depend on the voting window take the shared
*votestatus.Manager rather than reading the schedule themselves:

	votingHandler := handlers.NewVotingHandler(db, cfg, mgr)

# Voting Window

The manager decides whether voting is upcoming, open or closed.
Votes are accepted only while it reports open. Per-vehicle counts and
results are hidden until it reports closed.

Changing the schedule stores it, then calls mgr.Refresh so every
subscriber sees the new status without waiting for the next poll.

# Voting Flow

	POST /voters/register     → RegisterVoter (returns voter_token)
	POST /vehicles/{id}/votes → CastVote (create or move)

Voter operations require the X-Voter-Token header.

# Results

ComputeResults tallies one vote per voter and ranks vehicles by votes.
Tied vehicles share a rank. Encoded results are kept in a cache.Results
and dropped when a vehicle is withdrawn or the schedule changes.
*/
package handlers
