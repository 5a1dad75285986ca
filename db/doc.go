// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, schema creation and schedule storage.

# Connecting

Open supports sqlite (modernc.org/sqlite, no cgo) and PostgreSQL:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

sqlite connections are limited to one so ":memory:" databases are shared,
and foreign keys are switched on. Queries use $N placeholders, which both
drivers accept.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voting_schedule: The voting window (at most one row)
  - vehicle: Vehicles entered in the show
  - voter: Display names and voter tokens
  - vote: One vote per voter

# Relationships

	voter 1──0..1 vote
	vehicle 1──* vote

All foreign keys use ON DELETE CASCADE.

# Schedule Store

ScheduleStore reads and writes the voting window and doubles as the
votestatus.Source polled by the server:

	store := db.NewScheduleStore(conn)
	mgr := votestatus.NewManager(store, votestatus.Options{})

A missing row is reported as ErrNoSchedule, wrapped in
votestatus.ErrFetch when read through FetchSchedule.
*/
package db
