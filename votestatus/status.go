// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votestatus

import (
	"errors"
	"fmt"
	"time"
)

// Status is the derived voting state shown to the gallery
type Status string

const (
	StatusLoading  Status = "loading"
	StatusUpcoming Status = "upcoming"
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
	StatusError    Status = "error"
)

var (
	ErrFetch = errors.New("schedule fetch failed")
	ErrParse = errors.New("invalid schedule")
)

// Schedule is the window during which votes are accepted.
// Both ends are inclusive.
type Schedule struct {
	OpensAt  time.Time `json:"opens_at"`
	ClosesAt time.Time `json:"closes_at"`
}

// Validate checks that the window is usable
func (s Schedule) Validate() error {
	if s.OpensAt.IsZero() || s.ClosesAt.IsZero() {
		return fmt.Errorf("%w: opens_at and closes_at are required", ErrParse)
	}
	if s.ClosesAt.Before(s.OpensAt) {
		return fmt.Errorf("%w: closes_at is before opens_at", ErrParse)
	}
	return nil
}

// StatusAt derives the status of the window at the given instant
func (s Schedule) StatusAt(now time.Time) Status {
	switch {
	case now.Before(s.OpensAt):
		return StatusUpcoming
	case now.After(s.ClosesAt):
		return StatusClosed
	default:
		return StatusOpen
	}
}
