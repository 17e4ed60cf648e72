// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

// Decision explains why an affiliation string was accepted or rejected.
// Rejection reasons are counted per run so that a low-yield digest can be
// debugged instead of guessed at.
type Decision int

const (
	// DecisionEmpty rejects empty or whitespace-only input.
	DecisionEmpty Decision = iota
	// DecisionNoKeyword rejects text that never mentions the institution.
	DecisionNoKeyword
	// DecisionSibling rejects text naming a sibling campus of the same
	// university system.
	DecisionSibling
	// DecisionPattern accepts on a canonical campus-name pattern.
	DecisionPattern
	// DecisionTown accepts on the bare town name, a weaker signal used when
	// no formal pattern matched.
	DecisionTown
	// DecisionNoMatch rejects text that mentions the institution keyword but
	// matches neither a pattern nor the town name.
	DecisionNoMatch
)

// Accepted reports whether the decision is one of the accepting kinds.
func (d Decision) Accepted() bool {
	return d == DecisionPattern || d == DecisionTown
}

// AffiliationMatcher classifies free-text affiliation strings as belonging
// to the configured institution or not.
type AffiliationMatcher struct {
	keyword  string
	siblings []string
	patterns []*regexp.Regexp
	town     string
}

// NewAffiliationMatcher compiles the configured campus patterns. Keyword,
// sibling, and town comparisons are case-insensitive.
func NewAffiliationMatcher(cfg types.InstitutionConfig) (*AffiliationMatcher, error) {
	m := &AffiliationMatcher{
		keyword: strings.ToLower(cfg.PrimaryKeyword),
		town:    strings.ToLower(cfg.TownName),
	}
	for _, s := range cfg.SiblingCampuses {
		m.siblings = append(m.siblings, strings.ToLower(s))
	}
	for _, p := range cfg.CampusPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling campus pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

// Matches reports whether text indicates institutional membership.
func (m *AffiliationMatcher) Matches(text string) bool {
	return m.Classify(text).Accepted()
}

// Classify applies the match rules in precedence order. The sibling-campus
// exclusion runs before the town-name fallback: "Univ. of Wisconsin,
// Milwaukee, WI" must not match even though the primary keyword is present.
func (m *AffiliationMatcher) Classify(text string) Decision {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return DecisionEmpty
	}
	if !strings.Contains(text, m.keyword) {
		return DecisionNoKeyword
	}
	for _, s := range m.siblings {
		if strings.Contains(text, s) {
			return DecisionSibling
		}
	}
	for _, re := range m.patterns {
		if re.MatchString(text) {
			return DecisionPattern
		}
	}
	if m.town != "" && strings.Contains(text, m.town) {
		return DecisionTown
	}
	return DecisionNoMatch
}

// MatchRecord applies the matcher to one record. Per-author affiliations are
// checked first; authors whose affiliation matches become the attributed
// names. When no structured affiliation matches, the whole record text
// (title, abstract, author list) is tried as a fallback, because ADS does
// not always populate per-author affiliations. A whole-text match carries no
// attributed names and is known to trade precision for recall.
//
// The second return reports the record-level decision: the first accepting
// per-affiliation decision, or the whole-text decision otherwise.
func (m *AffiliationMatcher) MatchRecord(r types.Record) (types.MatchResult, Decision) {
	res := types.MatchResult{Record: r}
	accepted := DecisionEmpty
	sibling := false

	for i, aff := range r.Affiliations {
		switch d := m.Classify(aff); {
		case d.Accepted():
			// Affiliations beyond the author list length have no author to
			// attribute; the match itself still stands.
			if i < len(r.Authors) {
				res.MatchedNames = appendUnique(res.MatchedNames, r.Authors[i])
			}
			if !accepted.Accepted() {
				accepted = d
			}
		case d == DecisionSibling:
			sibling = true
		}
	}
	if accepted.Accepted() {
		return res, accepted
	}

	blob := strings.Join(append([]string{r.Title, r.Abstract}, r.Authors...), " ")
	d := m.Classify(blob)
	if d.Accepted() {
		return res, d
	}
	if sibling || d == DecisionSibling {
		return res, DecisionSibling
	}
	return res, d
}

func appendUnique(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}
