// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

// stubSearcher records the specs it receives and replies from a script.
type stubSearcher struct {
	specs []types.QuerySpec
	pages map[int]types.Page  // reply for the nth call
	fails map[int]error       // error for the nth call
}

func (s *stubSearcher) Search(_ context.Context, spec types.QuerySpec) (types.Page, error) {
	n := len(s.specs)
	s.specs = append(s.specs, spec)
	if err, ok := s.fails[n]; ok {
		return types.Page{}, err
	}
	return s.pages[n], nil
}

func namedRoster(n int) []types.RosterEntry {
	entries := make([]types.RosterEntry, n)
	for i := range entries {
		entries[i] = types.RosterEntry{
			FamilyName: fmt.Sprintf("Family%02d", i),
			GivenName:  fmt.Sprintf("Given%02d", i),
		}
	}
	return entries
}

func TestPartitionCounts(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		groupSize  int
		wantGroups int
		wantLast   int
	}{
		{"exact multiple", 10, 5, 2, 5},
		{"remainder", 10, 4, 3, 2},
		{"single group", 3, 10, 1, 3},
		{"group of one", 4, 1, 4, 1},
		{"zero size means one group", 7, 0, 1, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := Partition(namedRoster(tt.n), tt.groupSize)
			if len(groups) != tt.wantGroups {
				t.Fatalf("len(groups) = %d, want %d", len(groups), tt.wantGroups)
			}
			if got := len(groups[len(groups)-1]); got != tt.wantLast {
				t.Errorf("last group size = %d, want %d", got, tt.wantLast)
			}
		})
	}
}

func TestPartitionCoversAllCandidatesInOrder(t *testing.T) {
	candidates := namedRoster(11)
	groups := Partition(candidates, 3)

	var flat []types.RosterEntry
	for _, g := range groups {
		flat = append(flat, g...)
	}
	if len(flat) != len(candidates) {
		t.Fatalf("union size = %d, want %d", len(flat), len(candidates))
	}
	for i := range candidates {
		if flat[i] != candidates[i] {
			t.Errorf("flat[%d] = %v, want %v", i, flat[i], candidates[i])
		}
	}
}

func TestPartitionEmpty(t *testing.T) {
	if groups := Partition(nil, 5); groups != nil {
		t.Errorf("Partition(nil) = %v, want nil", groups)
	}
}

func TestExecuteChunkedIssuesOneQueryPerGroup(t *testing.T) {
	roster := []types.RosterEntry{
		{FamilyName: "Barger", GivenName: "Amy"},
		{FamilyName: "Becker", GivenName: "Juliette"},
	}
	s := &stubSearcher{pages: map[int]types.Page{}, fails: map[int]error{}}

	build := func(group []types.RosterEntry) string {
		clauses := make([]string, len(group))
		for i, e := range group {
			clauses[i] = "author:" + e.DisplayName()
		}
		return strings.Join(clauses, " OR ")
	}

	pages, errs := ExecuteChunked(context.Background(), s, roster, 1, build, 500, "date desc")
	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2", len(pages))
	}
	if len(s.specs) != 2 {
		t.Fatalf("queries issued = %d, want 2", len(s.specs))
	}

	// Group size 1: each expression carries exactly one author clause.
	for i, want := range []string{"author:Barger, Amy", "author:Becker, Juliette"} {
		if s.specs[i].Expression != want {
			t.Errorf("spec[%d].Expression = %q, want %q", i, s.specs[i].Expression, want)
		}
		if s.specs[i].Rows != 500 || s.specs[i].Sort != "date desc" {
			t.Errorf("spec[%d] rows/sort = %d/%q", i, s.specs[i].Rows, s.specs[i].Sort)
		}
	}
}

func TestExecuteChunkedPartialFailure(t *testing.T) {
	roster := namedRoster(6)
	s := &stubSearcher{
		pages: map[int]types.Page{
			0: {Records: []types.Record{{Bibcode: "A"}}},
			2: {Records: []types.Record{{Bibcode: "B"}}},
		},
		fails: map[int]error{1: fmt.Errorf("ADS API returned HTTP 500")},
	}

	build := func([]types.RosterEntry) string { return "q" }
	pages, errs := ExecuteChunked(context.Background(), s, roster, 2, build, 0, "")

	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2 (failed chunk must not drop others)", len(pages))
	}
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}

	// The error identifies exactly the failing chunk's candidates.
	ce := errs[0]
	if len(ce.Candidates) != 2 || ce.Candidates[0] != roster[2] || ce.Candidates[1] != roster[3] {
		t.Errorf("ChunkError.Candidates = %v, want middle group", ce.Candidates)
	}
	if !strings.Contains(ce.Error(), "Family02") {
		t.Errorf("ChunkError.Error() = %q, should name the failing candidates", ce.Error())
	}
}
