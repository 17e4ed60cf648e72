// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"strconv"
	"strings"
	"time"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

// IsRecent reports whether the record's true submission is at most
// maxAgeMonths whole months before now. ADS re-surfaces old preprints with
// a fresh index timestamp when the journal version appears; the yymm prefix
// of the arXiv identifier recovers the original submission month and lets
// those be suppressed.
//
// A record with no parseable arXiv identifier is treated as recent: recency
// cannot be disproved, so the record is not dropped on a missing probe
// field.
func IsRecent(r types.Record, maxAgeMonths int, now time.Time) bool {
	year, month, ok := arxivYearMonth(r.ArxivID)
	if !ok {
		return true
	}
	age := (now.Year()-year)*12 + int(now.Month()) - month
	return age <= maxAgeMonths
}

// arxivYearMonth decodes the submission year and month embedded in an arXiv
// identifier. New-style ids start with yymm ("2410.01234"); old-style ids
// carry it after the archive prefix ("astro-ph/0601001"). Two-digit years
// from 91 up belong to the 1900s, the rest to the 2000s (arXiv started in
// 1991).
func arxivYearMonth(id string) (year, month int, ok bool) {
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}
	if len(id) < 4 {
		return 0, 0, false
	}
	yy, err := strconv.Atoi(id[:2])
	if err != nil {
		return 0, 0, false
	}
	mm, err := strconv.Atoi(id[2:4])
	if err != nil {
		return 0, 0, false
	}
	if mm < 1 || mm > 12 {
		return 0, 0, false
	}
	if yy >= 91 {
		return 1900 + yy, mm, true
	}
	return 2000 + yy, mm, true
}
