// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"regexp"
	"strings"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

// authorSeparator joins author names into one searchable string. The token
// never occurs inside a name, so a roster key cannot straddle two adjacent
// names and match by accident.
const authorSeparator = " ; "

// RosterMatcher decides which roster entries appear in a record's author
// list.
type RosterMatcher struct {
	roster []types.RosterEntry

	// familyFallback retries unmatched records with family-name-only
	// matching. Lower precision: a same-surname stranger can be attributed.
	familyFallback bool
}

// NewRosterMatcher returns a matcher over the given roster. familyFallback
// opts into the family-name-only second pass for records the primary pass
// missed.
func NewRosterMatcher(roster []types.RosterEntry, familyFallback bool) *RosterMatcher {
	return &RosterMatcher{roster: roster, familyFallback: familyFallback}
}

// FindMatches returns the roster entries present in the record's author
// list, in roster order, without duplicates. An empty MatchedNames means no
// roster member was identified; whether that excludes the record is the
// caller's policy.
//
// The primary pass matches on "family, f" keys (lowercased family name plus
// first initial), which is how ADS renders author names. If it finds
// nothing and the fallback is enabled, a second pass matches bare family
// names at word boundaries.
func (m *RosterMatcher) FindMatches(r types.Record) types.MatchResult {
	res := types.MatchResult{Record: r}
	if len(r.Authors) == 0 {
		return res
	}
	joined := strings.ToLower(strings.Join(r.Authors, authorSeparator))

	for _, e := range m.roster {
		if strings.Contains(joined, entryKey(e)) {
			res.MatchedNames = appendUnique(res.MatchedNames, e.DisplayName())
		}
	}
	if len(res.MatchedNames) > 0 || !m.familyFallback {
		return res
	}

	for _, e := range m.roster {
		if matchFamilyName(joined, e.FamilyName) {
			res.MatchedNames = appendUnique(res.MatchedNames, e.DisplayName())
		}
	}
	return res
}

// entryKey builds the primary lookup key, e.g. ("Barger", "Amy") → "barger, a".
func entryKey(e types.RosterEntry) string {
	key := strings.ToLower(e.FamilyName)
	if initial := firstRuneLower(e.GivenName); initial != "" {
		key += ", " + initial
	}
	return key
}

func firstRuneLower(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToLower(string([]rune(s)[0]))
}

func matchFamilyName(joined, family string) bool {
	family = strings.TrimSpace(family)
	if family == "" {
		return false
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(family)) + `\b`)
	return re.MatchString(joined)
}
