// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package votestatus tracks whether car show voting is upcoming, open, or closed.

# Manager

A Manager is created once at start-up and owns the current schedule and
the status derived from it:

	mgr := votestatus.NewManager(source, votestatus.Options{})
	mgr.StartPolling(30 * time.Second)
	defer mgr.StopPolling()

Each cycle fetches the schedule, derives the status against the clock, and
notifies every listener, even when nothing changed.

# Status

	loading  - no fetch has completed yet
	upcoming - now is before opens_at
	open     - opens_at <= now <= closes_at (both ends inclusive)
	closed   - now is after closes_at
	error    - fetching failed and no schedule was ever loaded

A failed fetch after a successful one keeps the previous schedule and
status. The error is logged and returned from Refresh.

# Listeners

	unsubscribe := mgr.Subscribe(func(status votestatus.Status, s *votestatus.Schedule) {
		...
	})
	defer unsubscribe()

Listeners run synchronously in registration order and receive the current
state as soon as they subscribe.

# In-flight Guard

Only one fetch runs at a time. A poll tick that arrives during a fetch is
dropped; Refresh joins the fetch in flight and returns its error.

# Sources

HTTPSource reads {"opens_at", "closes_at"} JSON from a URL. Any type with a
FetchSchedule method works, see db.ScheduleStore.
*/
package votestatus
