// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votestatus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPSource_FetchSchedule(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:   "valid schedule",
			status: http.StatusOK,
			body:   `{"opens_at":"2025-06-14T10:00:00Z","closes_at":"2025-06-14T11:00:00Z"}`,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error":"Internal Server Error"}`,
			wantErr: ErrFetch,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    `{"error":"Not Found"}`,
			wantErr: ErrFetch,
		},
		{
			name:    "malformed json",
			status:  http.StatusOK,
			body:    `{"opens_at":`,
			wantErr: ErrParse,
		},
		{
			name:    "bad timestamp",
			status:  http.StatusOK,
			body:    `{"opens_at":"tomorrow","closes_at":"2025-06-14T11:00:00Z"}`,
			wantErr: ErrParse,
		},
		{
			name:    "inverted window",
			status:  http.StatusOK,
			body:    `{"opens_at":"2025-06-14T11:00:00Z","closes_at":"2025-06-14T10:00:00Z"}`,
			wantErr: ErrParse,
		},
		{
			name:    "oversized body",
			status:  http.StatusOK,
			body:    `{"opens_at":"2025-06-14T10:00:00Z","note":"` + strings.Repeat("x", maxScheduleBytes) + `","closes_at":"2025-06-14T11:00:00Z"}`,
			wantErr: ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET, got %s", r.Method)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			src := NewHTTPSource(srv.URL, time.Second)
			sched, err := src.FetchSchedule(context.Background())

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchSchedule() error = %v", err)
			}

			want := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
			if !sched.OpensAt.Equal(want) {
				t.Errorf("OpensAt = %v, want %v", sched.OpensAt, want)
			}
			if !sched.ClosesAt.Equal(want.Add(time.Hour)) {
				t.Errorf("ClosesAt = %v, want %v", sched.ClosesAt, want.Add(time.Hour))
			}
		})
	}
}

func TestHTTPSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPSource(url, time.Second).FetchSchedule(context.Background())
	if !errors.Is(err, ErrFetch) {
		t.Errorf("expected ErrFetch, got %v", err)
	}
}

func TestHTTPSource_DrivesManager(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"opens_at":"2025-06-14T10:00:00Z","closes_at":"2025-06-14T11:00:00Z"}`))
	}))
	defer srv.Close()

	clock := newFakeClock(time.Date(2025, 6, 14, 9, 59, 50, 0, time.UTC))
	m := NewManager(NewHTTPSource(srv.URL, time.Second), Options{Clock: clock})

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Status() != StatusUpcoming {
		t.Errorf("expected upcoming, got %s", m.Status())
	}
	if d, ok := m.TimeUntilOpen(); !ok || d != 10*time.Second {
		t.Errorf("TimeUntilOpen() = %v, %v; want 10s, true", d, ok)
	}
}
