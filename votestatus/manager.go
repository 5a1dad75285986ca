// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votestatus

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	cycleKey            = "schedule"
	defaultFetchTimeout = 10 * time.Second
)

// Listener receives the status and schedule after every cycle.
// schedule is nil until the first successful fetch.
type Listener func(status Status, schedule *Schedule)

// Snapshot is a consistent copy of the manager state
type Snapshot struct {
	Status    Status    `json:"status"`
	Schedule  *Schedule `json:"schedule"`
	UpdatedAt time.Time `json:"updated_at"`
	LastError error     `json:"-"`
}

type Options struct {
	Clock        Clock
	FetchTimeout time.Duration

	// AutoStart begins polling at PollInterval when the first listener subscribes
	AutoStart    bool
	PollInterval time.Duration
}

type subscription struct {
	id uint64
	fn Listener
}

// Manager holds the authoritative voting status. It polls a Source,
// derives the status from the schedule and the clock, and notifies
// listeners after every cycle.
type Manager struct {
	source       Source
	clock        Clock
	fetchTimeout time.Duration
	autoStart    bool
	pollInterval time.Duration

	mu        sync.RWMutex
	status    Status
	schedule  *Schedule
	updatedAt time.Time
	lastErr   error

	subsMu sync.Mutex
	subs   []subscription
	nextID uint64

	// notifyMu orders the initial delivery in Subscribe against notify
	notifyMu sync.Mutex

	group    singleflight.Group
	inFlight atomic.Bool

	pollMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(source Source, opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	return &Manager{
		source:       source,
		clock:        opts.Clock,
		fetchTimeout: opts.FetchTimeout,
		autoStart:    opts.AutoStart,
		pollInterval: opts.PollInterval,
		status:       StatusLoading,
	}
}

// Subscribe registers fn and immediately calls it with the current state.
// Deliveries to a listener never overlap and arrive in cycle order.
// A listener must not call Subscribe or StopPolling.
// The returned func removes the listener; calling it again does nothing.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.notifyMu.Lock()
	m.subsMu.Lock()
	m.nextID++
	id := m.nextID
	first := len(m.subs) == 0
	m.subs = append(m.subs, subscription{id: id, fn: fn})
	m.subsMu.Unlock()

	snap := m.Snapshot()
	fn(snap.Status, snap.Schedule)
	m.notifyMu.Unlock()

	if first && m.autoStart && m.pollInterval > 0 {
		m.StartPolling(m.pollInterval)
	}

	var once sync.Once
	return func() {
		once.Do(func() { m.removeSubscription(id) })
	}
}

func (m *Manager) removeSubscription(id uint64) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for i, s := range m.subs {
		if s.id == id {
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			return
		}
	}
}

// StartPolling runs one cycle right away and then one per interval.
// Calling it while already polling has no effect.
func (m *Manager) StartPolling(interval time.Duration) {
	if interval <= 0 {
		return
	}

	m.pollMu.Lock()
	defer m.pollMu.Unlock()
	if m.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done

	ticker := m.clock.NewTicker(interval)
	slog.Info("voting status polling started", "interval", interval.String())

	go func() {
		defer close(done)
		defer ticker.Stop()

		m.tick(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				m.tick(ctx)
			}
		}
	}()
}

// StopPolling cancels the recurring cycle and waits for the loop to exit.
// A fetch already in flight is left to finish on its own.
// It must not be called from inside a Listener.
func (m *Manager) StopPolling() {
	m.pollMu.Lock()
	defer m.pollMu.Unlock()
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
	m.cancel = nil
	m.done = nil
	slog.Info("voting status polling stopped")
}

// Polling reports whether the recurring cycle is running
func (m *Manager) Polling() bool {
	m.pollMu.Lock()
	defer m.pollMu.Unlock()
	return m.cancel != nil
}

// tick runs a cycle unless one is already in flight. It stops waiting
// for the cycle once ctx is cancelled.
func (m *Manager) tick(ctx context.Context) {
	if m.inFlight.Load() {
		slog.Debug("voting status tick skipped, fetch in flight")
		return
	}
	select {
	case <-m.group.DoChan(cycleKey, m.runCycle):
	case <-ctx.Done():
	}
}

// Refresh runs one cycle now, or joins the one already in flight, and
// returns its fetch error. ctx only bounds how long the caller waits.
func (m *Manager) Refresh(ctx context.Context) error {
	ch := m.group.DoChan(cycleKey, m.runCycle)
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) runCycle() (any, error) {
	m.inFlight.Store(true)
	defer m.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), m.fetchTimeout)
	defer cancel()

	sched, err := m.source.FetchSchedule(ctx)
	if err == nil {
		err = sched.Validate()
	}
	m.evaluate(sched, err)
	m.notify()
	return nil, err
}

func (m *Manager) evaluate(sched Schedule, err error) {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.status
	if err != nil {
		m.lastErr = err
		if m.schedule == nil {
			m.status = StatusError
		}
		slog.Warn("voting schedule fetch failed", "error", err, "status", m.status)
	} else {
		m.schedule = &sched
		m.status = sched.StatusAt(now)
		m.lastErr = nil
	}
	m.updatedAt = now

	if prev != m.status {
		slog.Info("voting status changed", "from", prev, "to", m.status)
	}
}

func (m *Manager) notify() {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.subsMu.Lock()
	subs := make([]subscription, len(m.subs))
	copy(subs, m.subs)
	m.subsMu.Unlock()

	snap := m.Snapshot()
	for _, s := range subs {
		s.fn(snap.Status, snap.Schedule)
	}
}

// Snapshot returns the current state. Schedule is a copy.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := Snapshot{
		Status:    m.status,
		UpdatedAt: m.updatedAt,
		LastError: m.lastErr,
	}
	if m.schedule != nil {
		s := *m.schedule
		snap.Schedule = &s
	}
	return snap
}

func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Schedule returns the last fetched schedule, if any
func (m *Manager) Schedule() (Schedule, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.schedule == nil {
		return Schedule{}, false
	}
	return *m.schedule, true
}

func (m *Manager) IsVotingOpen() bool {
	sched, ok := m.Schedule()
	return ok && sched.StatusAt(m.clock.Now()) == StatusOpen
}

func (m *Manager) HasVotingEnded() bool {
	sched, ok := m.Schedule()
	return ok && sched.StatusAt(m.clock.Now()) == StatusClosed
}

// TimeUntilOpen is only defined while voting has not opened yet
func (m *Manager) TimeUntilOpen() (time.Duration, bool) {
	sched, ok := m.Schedule()
	if !ok {
		return 0, false
	}
	now := m.clock.Now()
	if !now.Before(sched.OpensAt) {
		return 0, false
	}
	return sched.OpensAt.Sub(now), true
}

// TimeUntilClose is defined until the closing instant has passed
func (m *Manager) TimeUntilClose() (time.Duration, bool) {
	sched, ok := m.Schedule()
	if !ok {
		return 0, false
	}
	now := m.clock.Now()
	if now.After(sched.ClosesAt) {
		return 0, false
	}
	return sched.ClosesAt.Sub(now), true
}
