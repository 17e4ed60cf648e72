// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"testing"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

const (
	orcidMelinda = "0000-0001-7493-7419"
	orcidRicardo = "0000-0003-0381-1039"
)

func matchFor(bibcode string, categories ...string) types.MatchResult {
	return types.MatchResult{Record: types.Record{Bibcode: bibcode, Categories: categories}}
}

func TestOrganizeGroupsByPrimaryCategory(t *testing.T) {
	o := NewOrganizer(nil)

	d := o.Organize([]types.MatchResult{
		matchFor("A", "astro-ph.SR", "astro-ph.EP"),
		matchFor("B", "astro-ph.EP"),
		matchFor("C", "astro-ph.SR"),
		matchFor("D"), // no category at all
	})

	if len(d.Priority) != 0 {
		t.Errorf("Priority = %v, want empty without configured ORCIDs", d.Priority)
	}
	wantGroups := []struct {
		category string
		bibcodes []string
	}{
		{"astro-ph", []string{"D"}},
		{"astro-ph.EP", []string{"B"}},
		{"astro-ph.SR", []string{"A", "C"}},
	}
	if len(d.Groups) != len(wantGroups) {
		t.Fatalf("len(Groups) = %d, want %d", len(d.Groups), len(wantGroups))
	}
	for i, want := range wantGroups {
		g := d.Groups[i]
		if g.Category != want.category {
			t.Errorf("Groups[%d].Category = %q, want %q (ascending)", i, g.Category, want.category)
		}
		if len(g.Matches) != len(want.bibcodes) {
			t.Fatalf("Groups[%d] has %d matches, want %d", i, len(g.Matches), len(want.bibcodes))
		}
		for j, bc := range want.bibcodes {
			if g.Matches[j].Record.Bibcode != bc {
				t.Errorf("Groups[%d].Matches[%d] = %q, want %q (input order preserved)",
					i, j, g.Matches[j].Record.Bibcode, bc)
			}
		}
	}
	if d.Total() != 4 {
		t.Errorf("Total() = %d, want 4", d.Total())
	}
}

func TestOrganizePromotesPriorityAuthors(t *testing.T) {
	o := NewOrganizer([]string{orcidMelinda, orcidRicardo})

	priority := types.MatchResult{Record: types.Record{
		Bibcode:    "P1",
		Authors:    []string{"Soares-Furtado, M.", "Other, A."},
		Orcids:     []string{orcidMelinda, ""},
		Categories: []string{"astro-ph.SR"},
	}}
	plain := matchFor("R1", "astro-ph.EP")

	d := o.Organize([]types.MatchResult{plain, priority})

	if len(d.Priority) != 1 || d.Priority[0].Record.Bibcode != "P1" {
		t.Fatalf("Priority = %v, want [P1]", d.Priority)
	}
	// Priority matches with no attributed names get the priority authors.
	if len(d.Priority[0].MatchedNames) != 1 || d.Priority[0].MatchedNames[0] != "Soares-Furtado, M." {
		t.Errorf("Priority MatchedNames = %v", d.Priority[0].MatchedNames)
	}
	if len(d.Groups) != 1 || d.Groups[0].Matches[0].Record.Bibcode != "R1" {
		t.Errorf("Groups = %v, want only R1", d.Groups)
	}
}

func TestOrganizePreservesRelativeOrderWithinPartitions(t *testing.T) {
	o := NewOrganizer([]string{orcidRicardo})

	mk := func(bibcode string, priority bool) types.MatchResult {
		r := types.Record{Bibcode: bibcode, Categories: []string{"astro-ph.GA"}, Authors: []string{"Yarza, R."}}
		if priority {
			r.Orcids = []string{orcidRicardo}
		}
		return types.MatchResult{Record: r}
	}

	// Service order is date-descending; the organizer must not re-sort.
	d := o.Organize([]types.MatchResult{
		mk("N1", false), mk("P1", true), mk("N2", false), mk("P2", true),
	})

	if len(d.Priority) != 2 || d.Priority[0].Record.Bibcode != "P1" || d.Priority[1].Record.Bibcode != "P2" {
		t.Errorf("Priority order = %v, want [P1 P2]", d.Priority)
	}
	g := d.Groups[0]
	if len(g.Matches) != 2 || g.Matches[0].Record.Bibcode != "N1" || g.Matches[1].Record.Bibcode != "N2" {
		t.Errorf("group order = %v, want [N1 N2]", g.Matches)
	}
}

func TestOrganizeEmpty(t *testing.T) {
	o := NewOrganizer([]string{orcidMelinda})

	d := o.Organize(nil)
	if d.Total() != 0 || len(d.Priority) != 0 || len(d.Groups) != 0 {
		t.Errorf("Organize(nil) = %+v, want empty digest", d)
	}
}

func TestPriorityAuthorsPositional(t *testing.T) {
	o := NewOrganizer([]string{orcidMelinda, orcidRicardo})

	r := types.Record{
		Authors: []string{"Soares-Furtado, M.", "Yarza, R.", "Third, C."},
		Orcids:  []string{orcidMelinda, orcidRicardo, ""},
	}
	got := o.PriorityAuthors(r)
	if len(got) != 2 || got[0] != "Soares-Furtado, M." || got[1] != "Yarza, R." {
		t.Errorf("PriorityAuthors() = %v", got)
	}

	// ORCID list longer than the author list must not panic.
	r = types.Record{
		Authors: []string{"Solo, A."},
		Orcids:  []string{"", orcidRicardo},
	}
	if got := o.PriorityAuthors(r); len(got) != 0 {
		t.Errorf("PriorityAuthors() = %v, want empty", got)
	}
}
