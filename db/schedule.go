// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/carshow/votestatus"
)

var ErrNoSchedule = errors.New("voting schedule not set")

// ScheduleStore persists the voting window. It is also a votestatus.Source
// so the server can poll its own table.
type ScheduleStore struct {
	db *sql.DB
}

func NewScheduleStore(db *sql.DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

// GetSchedule returns ErrNoSchedule when no window has been configured
func (s *ScheduleStore) GetSchedule(ctx context.Context) (votestatus.Schedule, error) {
	var sched votestatus.Schedule
	err := s.db.QueryRowContext(ctx, `
		SELECT opens_at, closes_at FROM voting_schedule WHERE id = 1
	`).Scan(&sched.OpensAt, &sched.ClosesAt)
	if err == sql.ErrNoRows {
		return votestatus.Schedule{}, ErrNoSchedule
	}
	if err != nil {
		return votestatus.Schedule{}, fmt.Errorf("failed to query schedule: %w", err)
	}
	return sched, nil
}

// SetSchedule validates and stores the window, replacing any previous one
func (s *ScheduleStore) SetSchedule(ctx context.Context, sched votestatus.Schedule) error {
	if err := sched.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO voting_schedule (id, opens_at, closes_at, updated_at)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET opens_at = excluded.opens_at, closes_at = excluded.closes_at, updated_at = excluded.updated_at
	`, sched.OpensAt.UTC(), sched.ClosesAt.UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store schedule: %w", err)
	}
	return nil
}

// FetchSchedule implements votestatus.Source
func (s *ScheduleStore) FetchSchedule(ctx context.Context) (votestatus.Schedule, error) {
	sched, err := s.GetSchedule(ctx)
	if err != nil {
		return votestatus.Schedule{}, fmt.Errorf("%w: %w", votestatus.ErrFetch, err)
	}
	return sched, nil
}
