// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest implements the record acquisition, matching, deduplication,
// and filtering pipeline behind the weekly digest.
package digest

import "time"

// Window returns the inclusive [start, end] UTC boundaries for "recent"
// records: lookbackDays before now, truncated to start-of-day, through now
// truncated to end-of-day. Truncation makes the window deterministic
// regardless of what time of day the run executes.
func Window(lookbackDays int, now time.Time) (start, end time.Time) {
	now = now.UTC()
	s := now.AddDate(0, 0, -lookbackDays)
	start = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	return start, end
}
