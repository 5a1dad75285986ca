// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cache holds the computed vote tally between requests.
// New picks Redis when a URL is configured and an in-process map
// otherwise; Results wraps either with the leaderboard key and lifetime.
package cache
