// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - LoginRequest: password
  - SetScheduleRequest: opens_at, closes_at (RFC 3339)
  - CreateVehicleRequest: owner_name, year, make, model, description, image_url
  - RegisterVoterRequest: display_name

# Response Types

Types for JSON responses:

  - LoginResponse: token, expires_at
  - RegisterVoterResponse: voter_token
  - CastVoteResponse: vote_id, vehicle_id, message
  - VotingStatusResponse: status, schedule and derived countdowns
  - EnvCheckResponse: which settings are configured
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Vehicle: a car entered in the show
  - Vote: one voter's current pick
  - VehicleTally: votes and rank for a vehicle
  - Results: ranked tally, computed once voting has ended

Voting status values and the schedule type live in package votestatus.
*/
package models
