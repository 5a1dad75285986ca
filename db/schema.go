// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database and verifies the connection.
// dbType is "postgres" or "sqlite".
func Open(dbType, url string) (*sql.DB, error) {
	driver := "sqlite"
	if dbType == "postgres" {
		driver = "postgres"
	}

	if driver == "sqlite" {
		url = sqliteDSN(url)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// Each sqlite connection to :memory: is its own database
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// sqliteDSN turns on foreign keys for every connection the pool opens,
// so vote cascades survive a reconnect
func sqliteDSN(url string) string {
	const fk = "_pragma=foreign_keys(1)"
	if strings.Contains(url, fk) {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&" + fk
	}
	return url + "?" + fk
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Portable between postgres and sqlite
const schema = `
-- Voting window (single row)
CREATE TABLE IF NOT EXISTS voting_schedule (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    opens_at TIMESTAMP NOT NULL,
    closes_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Vehicles in the gallery
CREATE TABLE IF NOT EXISTS vehicle (
    id TEXT PRIMARY KEY,
    owner_name TEXT NOT NULL,
    year INTEGER NOT NULL,
    make TEXT NOT NULL,
    model TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

-- Registered voters
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL UNIQUE,
    voter_token TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);

-- One vote per voter
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL UNIQUE REFERENCES voter(id) ON DELETE CASCADE,
    vehicle_id TEXT NOT NULL REFERENCES vehicle(id) ON DELETE CASCADE,
    cast_at TIMESTAMP NOT NULL,
    ip_hash TEXT,
    user_agent TEXT
);

CREATE INDEX IF NOT EXISTS idx_vote_vehicle_id ON vote(vehicle_id);
`
