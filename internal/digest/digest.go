// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/internal/ads"
	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

// Mode selects how records are acquired and matched.
type Mode string

const (
	// ModeAffiliation queries the configured categories and keeps records
	// whose affiliation text matches the institution.
	ModeAffiliation Mode = "affiliation"
	// ModeRoster queries per-chunk author disjunctions built from the
	// faculty roster and keeps records with a roster match.
	ModeRoster Mode = "roster"
	// ModeTopic queries topic keywords and keeps everything, promoting
	// priority authors.
	ModeTopic Mode = "topic"
)

// Stats counts what happened to every fetched record. Nothing is excluded
// silently: each rejection kind has a counter so the yield of a run can be
// debugged.
type Stats struct {
	Fetched           int `json:"fetched" yaml:"fetched"`
	DuplicatesRemoved int `json:"duplicates_removed" yaml:"duplicates_removed"`
	Malformed         int `json:"malformed" yaml:"malformed"`
	SiblingRejected   int `json:"sibling_rejected" yaml:"sibling_rejected"`
	NotAffiliated     int `json:"not_affiliated" yaml:"not_affiliated"`
	Unmatched         int `json:"unmatched" yaml:"unmatched"`
	StaleRejected     int `json:"stale_rejected" yaml:"stale_rejected"`
	Matched           int `json:"matched" yaml:"matched"`
}

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	Mode   Mode
	Digest Digest
	Stats  Stats

	// ChunkErrors lists roster chunks whose query failed, each carrying the
	// candidate subset it covered. The rest of the run is unaffected; the
	// caller decides whether partial data is acceptable.
	ChunkErrors []*ChunkError

	WindowStart time.Time
	WindowEnd   time.Time
}

// Summary is the human-readable subject-line fragment: the match count, and
// the priority count when priority promotion is active.
func (r RunResult) Summary() string {
	n := r.Digest.Total()
	if n == 0 {
		return "No papers this week"
	}
	if p := len(r.Digest.Priority); p > 0 {
		return fmt.Sprintf("%d papers (%d priority)", n, p)
	}
	if n == 1 {
		return "1 paper this week"
	}
	return fmt.Sprintf("%d papers this week", n)
}

// Pipeline wires the query window, the searcher, the matchers, and the
// filters into one run. Each run is stateless: everything is re-derived
// from the service response and discarded at exit.
type Pipeline struct {
	searcher  Searcher
	affil     *AffiliationMatcher
	organizer *Organizer
	cfg       types.DigestConfig
	log       io.Writer

	// now is the reference instant, injectable for tests.
	now func() time.Time
}

// NewPipeline builds a pipeline. The affiliation matcher is only consulted
// in ModeAffiliation runs; log receives progress and warning lines.
func NewPipeline(searcher Searcher, affil *AffiliationMatcher, cfg types.DigestConfig, log io.Writer) *Pipeline {
	if log == nil {
		log = io.Discard
	}
	return &Pipeline{
		searcher:  searcher,
		affil:     affil,
		organizer: NewOrganizer(cfg.PriorityORCIDs),
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// RunAffiliation fetches every record in the configured categories inside
// the window and keeps those with an institutional affiliation match.
func (p *Pipeline) RunAffiliation(ctx context.Context) (RunResult, error) {
	res := RunResult{Mode: ModeAffiliation}
	res.WindowStart, res.WindowEnd = Window(p.cfg.LookbackDays, p.now())

	page, err := p.searcher.Search(ctx, types.QuerySpec{
		Expression: ads.CategoryQuery(p.cfg.Categories, res.WindowStart, res.WindowEnd),
		Rows:       p.cfg.Rows,
		Sort:       "date desc",
	})
	if err != nil {
		return res, fmt.Errorf("category query: %w", err)
	}

	records := p.collect(&res, []types.Page{page})

	var matches []types.MatchResult
	for _, r := range records {
		m, d := p.affil.MatchRecord(r)
		switch {
		case d.Accepted():
			matches = append(matches, m)
		case d == DecisionSibling:
			res.Stats.SiblingRejected++
		default:
			res.Stats.NotAffiliated++
		}
	}

	p.finish(&res, matches)
	return res, nil
}

// RunRoster issues one chunked author query per roster group and keeps
// records in which a roster member was identified.
func (p *Pipeline) RunRoster(ctx context.Context, roster []types.RosterEntry) (RunResult, error) {
	res := RunResult{Mode: ModeRoster}
	if len(roster) == 0 {
		return res, fmt.Errorf("empty roster: no author queries can be built")
	}
	res.WindowStart, res.WindowEnd = Window(p.cfg.LookbackDays, p.now())

	build := func(group []types.RosterEntry) string {
		return ads.RosterQuery(group, p.cfg.Categories, res.WindowStart, res.WindowEnd)
	}
	pages, chunkErrs := ExecuteChunked(ctx, p.searcher, roster, p.cfg.ChunkSize, build, p.cfg.Rows, "date desc")
	res.ChunkErrors = chunkErrs
	for _, ce := range chunkErrs {
		fmt.Fprintf(p.log, "warning: %v\n", ce)
	}
	if len(pages) == 0 && len(chunkErrs) > 0 {
		return res, fmt.Errorf("all %d roster chunks failed: %w", len(chunkErrs), chunkErrs[0])
	}

	records := p.collect(&res, pages)

	matcher := NewRosterMatcher(roster, p.cfg.FamilyNameFallback)
	var matches []types.MatchResult
	for _, r := range records {
		m := matcher.FindMatches(r)
		if len(m.MatchedNames) == 0 {
			// Author-scoped queries still return near-miss names; records
			// with no identified roster member are excluded here.
			res.Stats.Unmatched++
			continue
		}
		matches = append(matches, m)
	}

	p.finish(&res, matches)
	return res, nil
}

// RunTopic fetches records matching the topic keywords and categories. All
// of them are considered relevant; priority authors are promoted during
// organization.
func (p *Pipeline) RunTopic(ctx context.Context) (RunResult, error) {
	res := RunResult{Mode: ModeTopic}
	res.WindowStart, res.WindowEnd = Window(p.cfg.LookbackDays, p.now())

	page, err := p.searcher.Search(ctx, types.QuerySpec{
		Expression: ads.TopicQuery(p.cfg.Categories, p.cfg.TopicKeywords, res.WindowStart, res.WindowEnd),
		Rows:       p.cfg.Rows,
		Sort:       "date desc",
	})
	if err != nil {
		return res, fmt.Errorf("topic query: %w", err)
	}

	records := p.collect(&res, []types.Page{page})

	matches := make([]types.MatchResult, 0, len(records))
	for _, r := range records {
		matches = append(matches, types.MatchResult{Record: r})
	}

	p.finish(&res, matches)
	return res, nil
}

// collect merges pages and accounts for duplicates and malformed entries.
func (p *Pipeline) collect(res *RunResult, pages []types.Page) []types.Record {
	for _, page := range pages {
		res.Stats.Malformed += page.Malformed
	}
	records, removed := Merge(pages)
	res.Stats.Fetched = len(records) + removed
	res.Stats.DuplicatesRemoved = removed
	return records
}

// finish applies the staleness filter and organizes what remains. Staleness
// runs last: it is the most expensive disagreement with the index and only
// needs to happen for records that already matched.
func (p *Pipeline) finish(res *RunResult, matches []types.MatchResult) {
	now := p.now()
	kept := matches[:0]
	for _, m := range matches {
		if !IsRecent(m.Record, p.cfg.MaxStalenessMonths, now) {
			res.Stats.StaleRejected++
			continue
		}
		kept = append(kept, m)
	}
	res.Stats.Matched = len(kept)
	res.Digest = p.organizer.Organize(kept)
}
