// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ads is a client for the NASA ADS search API.
package ads

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/internal/httputil"
	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

// apiBase is the ADS search endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://api.adsabs.harvard.edu/v1/search/query"

// recordFields is the fl parameter sent with every query: everything the
// pipeline needs to match, filter, and render a record.
const recordFields = "bibcode,title,author,aff,abstract,identifier,arxiv_class,entdate,pubdate,orcid_pub,orcid_user,orcid_other"

const (
	defaultTimeout           = 30 * time.Second
	defaultRequestsPerSecond = 5.0
	defaultMaxRetries        = 5
)

// Client is a rate-limited HTTP client for the ADS search API.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     types.ADSConfig
}

// NewClient creates an ADS client from the given configuration, filling in
// defaults for unset timeout and pacing values.
func NewClient(cfg types.ADSConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		cfg:     cfg,
	}
}

// Search issues one query against the ADS search API and returns the
// resulting page. Entries with no bibcode are dropped and counted in
// Page.Malformed rather than silently discarded.
func (c *Client) Search(ctx context.Context, spec types.QuerySpec) (types.Page, error) {
	if spec.Expression == "" {
		return types.Page{}, fmt.Errorf("empty ADS query expression")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return types.Page{}, err
	}

	params := url.Values{
		"q":  {spec.Expression},
		"fl": {recordFields},
	}
	if spec.Rows > 0 {
		params.Set("rows", fmt.Sprintf("%d", spec.Rows))
	}
	if spec.Sort != "" {
		params.Set("sort", spec.Sort)
	}

	reqURL := apiBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Page{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries)
	if err != nil {
		return types.Page{}, fmt.Errorf("ADS API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Page{}, fmt.Errorf("ADS API returned HTTP %d", resp.StatusCode)
	}

	var ar adsResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return types.Page{}, fmt.Errorf("parsing ADS response: %w", err)
	}

	var page types.Page
	for _, doc := range ar.Response.Docs {
		if doc.Bibcode == "" {
			page.Malformed++
			continue
		}
		page.Records = append(page.Records, doc.toRecord())
	}
	return page, nil
}

// ADS API JSON structures.
type adsResponse struct {
	Response adsResponseBody `json:"response"`
}

type adsResponseBody struct {
	NumFound int      `json:"numFound"`
	Docs     []adsDoc `json:"docs"`
}

type adsDoc struct {
	Bibcode    string   `json:"bibcode"`
	Title      []string `json:"title"`
	Author     []string `json:"author"`
	Aff        []string `json:"aff"`
	Abstract   string   `json:"abstract"`
	Identifier []string `json:"identifier"`
	ArxivClass []string `json:"arxiv_class"`
	Entdate    string   `json:"entdate"`
	Pubdate    string   `json:"pubdate"`
	OrcidPub   []string `json:"orcid_pub"`
	OrcidUser  []string `json:"orcid_user"`
	OrcidOther []string `json:"orcid_other"`
}

func (d adsDoc) toRecord() types.Record {
	r := types.Record{
		Bibcode:      d.Bibcode,
		Abstract:     d.Abstract,
		Authors:      d.Author,
		Affiliations: cleanAffiliations(d.Aff),
		Categories:   d.ArxivClass,
		ArxivID:      extractArxivID(d.Identifier),
		Orcids:       mergeOrcids(len(d.Author), d.OrcidPub, d.OrcidUser, d.OrcidOther),
	}
	if len(d.Title) > 0 {
		r.Title = strings.TrimSpace(d.Title[0])
	}
	if t, ok := parseADSDate(d.Entdate); ok {
		r.IndexedDate = t
	}
	if t, ok := parseADSDate(d.Pubdate); ok {
		r.PubDate = t
	}
	return r
}

// extractArxivID pulls the preprint identifier from the ADS identifier list
// (e.g. "arXiv:2410.01234" → "2410.01234").
func extractArxivID(identifiers []string) string {
	for _, id := range identifiers {
		if rest, ok := strings.CutPrefix(id, "arXiv:"); ok {
			return rest
		}
	}
	return ""
}

// cleanAffiliations replaces the "-" placeholder ADS uses for unknown
// affiliations with an empty string, preserving positional alignment.
func cleanAffiliations(affs []string) []string {
	if len(affs) == 0 {
		return nil
	}
	out := make([]string, len(affs))
	for i, a := range affs {
		if a == "-" {
			continue
		}
		out[i] = a
	}
	return out
}

// mergeOrcids combines the three positional ORCID lists ADS returns
// (claimed at publication, claimed by the user, claimed by others) into one
// list aligned with the author list. The first non-placeholder value per
// position wins; "-" means unknown.
func mergeOrcids(numAuthors int, lists ...[]string) []string {
	if numAuthors == 0 {
		return nil
	}
	out := make([]string, numAuthors)
	any := false
	for i := 0; i < numAuthors; i++ {
		for _, list := range lists {
			if i < len(list) && list[i] != "" && list[i] != "-" {
				out[i] = list[i]
				any = true
				break
			}
		}
	}
	if !any {
		return nil
	}
	return out
}

// parseADSDate parses ADS date strings. Pubdate may carry a zero month or
// day ("2024-10-00") when only part of the date is known; those are
// normalized to the first.
func parseADSDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	s = strings.ReplaceAll(s, "-00", "-01")
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}
