// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package faculty obtains the institutional roster used as the matching
// whitelist: a live scrape of the department directory page, with a static
// YAML fallback list for when the page is unreachable or redesigned.
package faculty

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.yaml.in/yaml/v3"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

// ErrEmptyRoster means neither the live directory nor the fallback file
// produced any entries. No meaningful author query can be built from an
// empty roster, so callers must treat this as fatal rather than as a
// zero-result run.
var ErrEmptyRoster = errors.New("no roster entries from directory or fallback")

// directorySelector finds people names on the directory page. The faculty
// listing renders each person as a heading inside a card.
const directorySelector = ".faculty-member h3, .people-list .name, h3.card-title"

const defaultTimeout = 30 * time.Second

// Source loads the roster.
type Source struct {
	client *http.Client
	cfg    types.RosterConfig
}

// NewSource builds a roster source. A zero timeout gets a 30s default.
func NewSource(cfg types.RosterConfig) *Source {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Source{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
	}
}

// Load returns the deduplicated roster. The live directory is tried first;
// on any failure or an empty scrape the fallback file is used. Only when
// both yield nothing is ErrEmptyRoster returned.
func (s *Source) Load(ctx context.Context) ([]types.RosterEntry, error) {
	var entries []types.RosterEntry

	if s.cfg.DirectoryURL != "" {
		scraped, err := s.scrape(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: directory scrape failed: %v\n", err)
		}
		entries = scraped
	}

	if len(entries) == 0 && s.cfg.FallbackFile != "" {
		loaded, err := LoadFallback(s.cfg.FallbackFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: roster fallback failed: %v\n", err)
		}
		entries = loaded
	}

	entries = Dedupe(entries)
	if len(entries) == 0 {
		return nil, ErrEmptyRoster
	}
	return entries, nil
}

func (s *Source) scrape(ctx context.Context) ([]types.RosterEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.DirectoryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching directory page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory page returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing directory page: %w", err)
	}

	var entries []types.RosterEntry
	doc.Find(directorySelector).Each(func(_ int, sel *goquery.Selection) {
		if e, ok := ParseName(sel.Text()); ok {
			entries = append(entries, e)
		}
	})
	return entries, nil
}

// LoadFallback reads the static roster list from a YAML file.
func LoadFallback(path string) ([]types.RosterEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster fallback: %w", err)
	}
	var entries []types.RosterEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing roster fallback: %w", err)
	}
	// Entries missing a name component cannot produce a usable author
	// clause; drop them here rather than in every consumer.
	kept := entries[:0]
	for _, e := range entries {
		if e.FamilyName != "" && e.GivenName != "" {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

// ParseName converts a directory display name into a roster entry. Both
// "Amy Barger" and "Barger, Amy" forms appear in the wild; titles and
// credentials after a comma ("Jane Doe, PhD") are not names and are kept
// out by the comma form requiring exactly two parts.
func ParseName(raw string) (types.RosterEntry, bool) {
	raw = strings.Join(strings.Fields(raw), " ")
	if raw == "" {
		return types.RosterEntry{}, false
	}

	if before, after, ok := strings.Cut(raw, ","); ok {
		family := strings.TrimSpace(before)
		given := strings.TrimSpace(after)
		if family == "" || given == "" || strings.Contains(given, ",") || isCredential(given) {
			return types.RosterEntry{}, false
		}
		return types.RosterEntry{FamilyName: family, GivenName: given}, true
	}

	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return types.RosterEntry{}, false
	}
	// Last word is the family name; everything before it the given name(s).
	return types.RosterEntry{
		FamilyName: fields[len(fields)-1],
		GivenName:  strings.Join(fields[:len(fields)-1], " "),
	}, true
}

func isCredential(s string) bool {
	switch strings.ToLower(strings.ReplaceAll(s, ".", "")) {
	case "phd", "md", "emeritus", "emerita", "jr", "sr":
		return true
	}
	return false
}

// Dedupe removes exact duplicates, preserving first-seen order. The roster
// must be unique before chunking or the same author clause is queried twice.
func Dedupe(entries []types.RosterEntry) []types.RosterEntry {
	seen := make(map[types.RosterEntry]bool, len(entries))
	var out []types.RosterEntry
	for _, e := range entries {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
