// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

// Searcher issues one query against the external search service. Implemented
// by ads.Client; tests substitute a stub.
type Searcher interface {
	Search(ctx context.Context, spec types.QuerySpec) (types.Page, error)
}

// QueryBuilder produces the query expression for one group of candidates.
type QueryBuilder func(group []types.RosterEntry) string

// ChunkError reports a failed chunk together with the candidate subset it
// covered, so the caller can retry just that subset. Other chunks' results
// are unaffected.
type ChunkError struct {
	Candidates []types.RosterEntry
	Err        error
}

func (e *ChunkError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.DisplayName()
	}
	return fmt.Sprintf("chunk [%s]: %v", strings.Join(names, "; "), e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }

// Partition splits candidates into consecutive groups of at most groupSize,
// preserving order. The final group may be smaller. A groupSize of zero or
// less means one group containing everything.
func Partition(candidates []types.RosterEntry, groupSize int) [][]types.RosterEntry {
	if len(candidates) == 0 {
		return nil
	}
	if groupSize <= 0 {
		return [][]types.RosterEntry{candidates}
	}
	var groups [][]types.RosterEntry
	for start := 0; start < len(candidates); start += groupSize {
		end := start + groupSize
		if end > len(candidates) {
			end = len(candidates)
		}
		groups = append(groups, candidates[start:end])
	}
	return groups
}

// ExecuteChunked partitions candidates into groups of at most groupSize and
// issues one query per group, sequentially, in order. It returns the pages
// of every successful chunk plus one ChunkError per failed chunk. A failed
// chunk is never conflated with an empty one.
func ExecuteChunked(ctx context.Context, s Searcher, candidates []types.RosterEntry, groupSize int, build QueryBuilder, rows int, sort string) ([]types.Page, []*ChunkError) {
	var pages []types.Page
	var errs []*ChunkError

	for _, group := range Partition(candidates, groupSize) {
		spec := types.QuerySpec{
			Expression: build(group),
			Rows:       rows,
			Sort:       sort,
		}
		page, err := s.Search(ctx, spec)
		if err != nil {
			errs = append(errs, &ChunkError{Candidates: group, Err: err})
			continue
		}
		pages = append(pages, page)
	}
	return pages, errs
}
