// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"testing"
	"time"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

var april2025 = time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

func TestIsRecent(t *testing.T) {
	tests := []struct {
		name    string
		arxivID string
		maxAge  int
		want    bool
	}{
		// October 2024 submission seen in April 2025 is 6 months old.
		{"stale re-indexed record", "2410.01234", 2, false},
		{"exactly at threshold", "2410.01234", 6, true},
		{"fresh submission", "2504.00001", 2, true},
		{"previous month", "2503.09999", 2, true},
		{"no identifier is recent", "", 0, true},
		{"unparseable identifier is recent", "abcd.01234", 2, true},
		{"old-style identifier", "astro-ph/0601001", 2, false},
		{"nineties identifier", "astro-ph/9705101", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := types.Record{Bibcode: "X", ArxivID: tt.arxivID}
			if got := IsRecent(r, tt.maxAge, april2025); got != tt.want {
				t.Errorf("IsRecent(%q, %d) = %v, want %v", tt.arxivID, tt.maxAge, got, tt.want)
			}
		})
	}
}

// If a record is recent at threshold k it stays recent at every larger
// threshold.
func TestIsRecentMonotonic(t *testing.T) {
	r := types.Record{Bibcode: "X", ArxivID: "2412.04567"} // 4 months before April 2025

	recentAt := -1
	for k := 0; k <= 12; k++ {
		if IsRecent(r, k, april2025) {
			recentAt = k
			break
		}
	}
	if recentAt < 0 {
		t.Fatal("record never became recent")
	}
	for k := recentAt; k <= 24; k++ {
		if !IsRecent(r, k, april2025) {
			t.Errorf("IsRecent true at %d but false at %d", recentAt, k)
		}
	}
}

func TestArxivYearMonth(t *testing.T) {
	tests := []struct {
		id        string
		wantYear  int
		wantMonth int
		wantOK    bool
	}{
		{"2410.01234", 2024, 10, true},
		{"0704.0001", 2007, 4, true},
		{"astro-ph/0601001", 2006, 1, true},
		{"astro-ph/9705101", 1997, 5, true},
		{"", 0, 0, false},
		{"12", 0, 0, false},
		{"2413.00001", 0, 0, false}, // month 13
		{"abcd.01234", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			year, month, ok := arxivYearMonth(tt.id)
			if ok != tt.wantOK || year != tt.wantYear || month != tt.wantMonth {
				t.Errorf("arxivYearMonth(%q) = %d, %d, %v; want %d, %d, %v",
					tt.id, year, month, ok, tt.wantYear, tt.wantMonth, tt.wantOK)
			}
		})
	}
}
