// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the astro-digest pipeline.
package types

import "time"

// Record is one bibliographic entry returned by the ADS search API. Records
// are built fresh on every run from the query response and never mutated.
type Record struct {
	// Bibcode is the stable ADS identifier and the deduplication key.
	Bibcode string `json:"bibcode" yaml:"bibcode"`

	// Title is the paper title as returned by the service.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Affiliations is aligned positionally with Authors: Affiliations[i]
	// belongs to Authors[i]. ADS does not always populate it, so the slice
	// may be shorter than Authors or absent entirely.
	Affiliations []string `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`

	// Abstract is the paper abstract, possibly empty.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Categories holds the arXiv class tags (e.g. "astro-ph.SR"). The first
	// entry is treated as the primary category for grouping.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// ArxivID is the preprint identifier recovered from the ADS identifier
	// list (e.g. "2410.01234" or "astro-ph/0601001"), empty when the record
	// has no arXiv counterpart. Its yymm prefix encodes the true submission
	// month used by the staleness filter.
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// Orcids is aligned positionally with Authors; an empty string means no
	// ORCID is known for that author.
	Orcids []string `json:"orcids,omitempty" yaml:"orcids,omitempty"`

	// IndexedDate is when the record entered the ADS index. Re-indexing on
	// journal publication refreshes this without changing the underlying
	// submission, which is why it cannot be trusted as a recency signal.
	IndexedDate time.Time `json:"indexed_date,omitzero" yaml:"indexed_date,omitempty"`

	// PubDate is the service's best-known canonical date for the work.
	PubDate time.Time `json:"pub_date,omitzero" yaml:"pub_date,omitempty"`
}

// URL returns the canonical reader-facing link for the record: the arXiv
// abstract page when an arXiv ID is known, the ADS abstract page otherwise.
func (r Record) URL() string {
	if r.ArxivID != "" {
		return "https://arxiv.org/abs/" + r.ArxivID
	}
	return "https://ui.adsabs.harvard.edu/abs/" + r.Bibcode
}

// PrimaryCategory returns the first category tag, or fallback when the
// record carries none.
func (r Record) PrimaryCategory(fallback string) string {
	if len(r.Categories) > 0 {
		return r.Categories[0]
	}
	return fallback
}

// MatchResult pairs a record with the institutional names that justified its
// inclusion. An empty MatchedNames means the record matched as a whole
// (e.g. via full-text affiliation heuristics) and no specific author could
// be attributed.
type MatchResult struct {
	Record Record `json:"record" yaml:"record"`

	// MatchedNames lists display names of the matched people, in match order,
	// without duplicates.
	MatchedNames []string `json:"matched_names,omitempty" yaml:"matched_names,omitempty"`
}

// RosterEntry is one known institution member, as scraped from the
// department directory or read from the static fallback list.
type RosterEntry struct {
	FamilyName string `json:"family_name" yaml:"family_name"`
	GivenName  string `json:"given_name" yaml:"given_name"`
}

// DisplayName returns the entry in "Family, Given" form, the convention ADS
// uses for author fields.
func (e RosterEntry) DisplayName() string {
	return e.FamilyName + ", " + e.GivenName
}

// QuerySpec is a single request to the ADS search API. Specs are built per
// chunk, issued once, and discarded after their page is merged.
type QuerySpec struct {
	// Expression is the full ADS query string (date clause, category or
	// keyword clause, and optionally an OR-group of author clauses).
	Expression string `json:"expression" yaml:"expression"`

	// Rows is the page size requested from the service.
	Rows int `json:"rows" yaml:"rows"`

	// Sort is the ADS sort directive (e.g. "date desc").
	Sort string `json:"sort" yaml:"sort"`
}

// Page is one retrieved result page.
type Page struct {
	Records []Record

	// Malformed counts response entries that were dropped for having no
	// identifier at all. Exclusions are counted, never silent.
	Malformed int
}
