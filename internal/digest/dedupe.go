// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import "github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"

// Merge flattens pages into one record set keyed by bibcode, keeping the
// first occurrence of each id in page-retrieval order. Two records sharing a
// bibcode are assumed identical in content, so no field-level merge is
// attempted. The second return counts the duplicates removed.
func Merge(pages []types.Page) ([]types.Record, int) {
	seen := make(map[string]bool)
	var records []types.Record
	removed := 0

	for _, page := range pages {
		for _, r := range page.Records {
			if seen[r.Bibcode] {
				removed++
				continue
			}
			seen[r.Bibcode] = true
			records = append(records, r)
		}
	}
	return records, removed
}
