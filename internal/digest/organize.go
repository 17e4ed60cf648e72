// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"sort"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

// defaultCategory labels records that carry no arXiv class at all.
const defaultCategory = "astro-ph"

// Group is one category section of the digest.
type Group struct {
	Category string              `json:"category" yaml:"category"`
	Matches  []types.MatchResult `json:"matches" yaml:"matches"`
}

// Digest is the organized presentation structure: priority-author records
// first, the rest grouped by primary category. Within every slice the
// original relative order (the service's sort, typically date descending) is
// preserved; there is no secondary re-sort.
type Digest struct {
	// Priority holds records with at least one configured priority author,
	// promoted ahead of the category groups.
	Priority []types.MatchResult `json:"priority,omitempty" yaml:"priority,omitempty"`

	// Groups holds the remaining records, grouped by primary category and
	// sorted by category label ascending.
	Groups []Group `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Total returns the number of records across all sections.
func (d Digest) Total() int {
	n := len(d.Priority)
	for _, g := range d.Groups {
		n += len(g.Matches)
	}
	return n
}

// Organizer arranges matched records for presentation.
type Organizer struct {
	priority map[string]bool
}

// NewOrganizer returns an organizer that promotes records carrying any of
// the given priority ORCIDs. An empty set disables promotion.
func NewOrganizer(priorityORCIDs []string) *Organizer {
	o := &Organizer{priority: make(map[string]bool)}
	for _, id := range priorityORCIDs {
		if id != "" {
			o.priority[id] = true
		}
	}
	return o
}

// HasPriorityAuthor reports whether any of the record's ORCIDs is in the
// priority set.
func (o *Organizer) HasPriorityAuthor(r types.Record) bool {
	for _, id := range r.Orcids {
		if o.priority[id] {
			return true
		}
	}
	return false
}

// PriorityAuthors returns the display names of the record's priority
// authors, recovered positionally from the ORCID list.
func (o *Organizer) PriorityAuthors(r types.Record) []string {
	var names []string
	for i, id := range r.Orcids {
		if o.priority[id] && i < len(r.Authors) {
			names = appendUnique(names, r.Authors[i])
		}
	}
	return names
}

// Organize partitions matches into the priority section and per-category
// groups. Zero matches yields an empty digest, not an error. Priority
// records get their MatchedNames replaced by the priority author names when
// none were attributed by an earlier matcher.
func (o *Organizer) Organize(matches []types.MatchResult) Digest {
	var d Digest
	byCategory := make(map[string][]types.MatchResult)

	for _, m := range matches {
		if o.HasPriorityAuthor(m.Record) {
			if len(m.MatchedNames) == 0 {
				m.MatchedNames = o.PriorityAuthors(m.Record)
			}
			d.Priority = append(d.Priority, m)
			continue
		}
		cat := m.Record.PrimaryCategory(defaultCategory)
		byCategory[cat] = append(byCategory[cat], m)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		d.Groups = append(d.Groups, Group{Category: cat, Matches: byCategory[cat]})
	}
	return d
}
