// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the car show API server.

Visitors browse the entered vehicles and each registered voter picks one
favourite while the voting window is open. Results stay sealed until the
window closes.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=carshow.db ADMIN_PASSWORD=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

A .env file in the working directory is loaded first; variables already
set in the environment take precedence.

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string
  - ADMIN_PASSWORD (-admin-password): Password for admin login
  - JWT_SECRET (-jwt-secret): Signing key for admin sessions
  - VOTER_SALT (-voter-salt): Salt for hashing voter IPs

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - STATUS_SOURCE_URL (-status-url): Remote schedule to poll instead of the database
  - STATUS_POLL_INTERVAL (-poll-interval): Voting status poll interval (default: 30s)
  - REDIS_URL (-redis-url): Results cache, in-memory when unset
  - RESULTS_CACHE_TTL (-results-ttl): How long results stay cached (default: 15s)

# Architecture

  - votestatus: Voting status manager, polling and subscriptions
  - handlers: HTTP request handlers (status, vehicles, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, admin sessions, JSON helpers
  - models: Request/response types
  - auth: Admin sessions, voter tokens, IDs
  - db: Connection, schema and schedule storage
  - cache: Results cache backed by memory or Redis
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
