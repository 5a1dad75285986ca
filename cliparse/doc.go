// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadEnvFile reads a dotenv file into the environment first. Variables that
are already exported are left alone, and a missing file is ignored.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminPassword: Password exchanged for an admin session (required)
  - JWTSecret: HMAC secret for admin session tokens (required)
  - VoterSalt: Secret for voter IP hashing (required)
  - StatusSourceURL: Remote schedule endpoint; empty uses the local database
  - PollInterval: Voting status poll interval (default: 30s)
  - RedisURL: Results cache; empty uses an in-process cache
  - ResultsCacheTTL: Results cache lifetime (default: 15s)

# Environment Variables

Flags fall back to environment variables:

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	ADMIN_PASSWORD       → -admin-password
	JWT_SECRET           → -jwt-secret
	VOTER_SALT           → -voter-salt
	STATUS_SOURCE_URL    → -status-url
	STATUS_POLL_INTERVAL → -poll-interval
	REDIS_URL            → -redis-url
	RESULTS_CACHE_TTL    → -results-ttl

CLI flags take precedence over environment variables. Durations use Go
syntax (30s, 2m).
*/
package cliparse
