// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"testing"
	"time"
)

func TestIsUniqueViolation(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	insert := func(id, name, token string) error {
		_, err := conn.Exec(`
			INSERT INTO voter (id, display_name, voter_token, created_at)
			VALUES ($1, $2, $3, $4)
		`, id, name, token, time.Now().UTC())
		return err
	}

	if err := insert("v1", "alice", "tok-1"); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"duplicate display name", insert("v2", "alice", "tok-2"), true},
		{"duplicate primary key", insert("v1", "bob", "tok-3"), true},
		{"nil", nil, false},
		{"unrelated", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
