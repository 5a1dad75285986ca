// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votestatus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Source supplies the current voting schedule
type Source interface {
	FetchSchedule(ctx context.Context) (Schedule, error)
}

// SourceFunc adapts a plain function to Source
type SourceFunc func(ctx context.Context) (Schedule, error)

func (f SourceFunc) FetchSchedule(ctx context.Context) (Schedule, error) {
	return f(ctx)
}

// maxScheduleBytes caps how much of a schedule response is read
const maxScheduleBytes = 4 << 10

// HTTPSource reads the schedule from a remote JSON endpoint, for example
// another instance's GET /voting/schedule
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) FetchSchedule(ctx context.Context) (Schedule, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxScheduleBytes))
		return Schedule{}, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	var sched Schedule
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxScheduleBytes)).Decode(&sched); err != nil {
		return Schedule{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := sched.Validate(); err != nil {
		return Schedule{}, err
	}
	return sched, nil
}
