// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/internal/digest"
	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

func testResult() digest.RunResult {
	return digest.RunResult{
		Mode:        digest.ModeTopic,
		WindowStart: time.Date(2025, 3, 27, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2025, 4, 3, 23, 59, 59, 0, time.UTC),
		Digest: digest.Digest{
			Priority: []types.MatchResult{{
				Record: types.Record{
					Bibcode:    "2025AJ....169..001S",
					Title:      "Gyrochronology of Young Clusters",
					Authors:    []string{"Soares-Furtado, M."},
					Categories: []string{"astro-ph.SR"},
					ArxivID:    "2504.01234",
					Abstract:   "We measure rotation periods.",
				},
				MatchedNames: []string{"Soares-Furtado, M."},
			}},
			Groups: []digest.Group{{
				Category: "astro-ph.EP",
				Matches: []types.MatchResult{{
					Record: types.Record{
						Bibcode:    "2025MNRAS.536..002B",
						Title:      "Engulfment Signatures in <Hot> Jupiters",
						Authors:    []string{"Becker, J."},
						Categories: []string{"astro-ph.EP"},
					},
				}},
			}},
		},
	}
}

func TestRender(t *testing.T) {
	r, err := NewRenderer("Astro-ph Topic Digest")
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}

	msg, err := r.Render(testResult())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if msg.Subject != "Astro-ph Topic Digest: 2 papers (1 priority)" {
		t.Errorf("Subject = %q", msg.Subject)
	}

	for _, want := range []string{
		"March 27 - April 03, 2025",
		"PRIORITY AUTHORS (1)",
		"Gyrochronology of Young Clusters",
		"https://arxiv.org/abs/2504.01234",
		"astro-ph.EP (1)",
		"https://ui.adsabs.harvard.edu/abs/2025MNRAS.536..002B",
	} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("Text body missing %q", want)
		}
	}

	for _, want := range []string{
		"Priority Authors (1)",
		`<a href="https://arxiv.org/abs/2504.01234"`,
		"Priority author: Soares-Furtado, M.",
	} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("HTML body missing %q", want)
		}
	}
	// Titles are escaped in the HTML body.
	if !strings.Contains(msg.HTML, "Engulfment Signatures in &lt;Hot&gt; Jupiters") {
		t.Error("HTML body should escape markup in titles")
	}
}

func TestRenderEmpty(t *testing.T) {
	r, err := NewRenderer("UW-Madison Astro-ph Digest")
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}

	msg, err := r.Render(digest.RunResult{
		Mode:        digest.ModeAffiliation,
		WindowStart: time.Date(2025, 3, 27, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if msg.Subject != "UW-Madison Astro-ph Digest: No papers this week" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Text, "No papers found this week.") {
		t.Errorf("Text = %q, want empty-run message", msg.Text)
	}
}

func TestFormatAuthors(t *testing.T) {
	few := []string{"A", "B"}
	if got := formatAuthors(few); got != "A, B" {
		t.Errorf("formatAuthors(few) = %q", got)
	}

	many := make([]string, 20)
	for i := range many {
		many[i] = "Author"
	}
	got := formatAuthors(many)
	if !strings.HasSuffix(got, "et al. (20 authors)") {
		t.Errorf("formatAuthors(many) = %q", got)
	}
	if strings.Count(got, "Author") != maxAuthorsShown {
		t.Errorf("formatAuthors(many) shows %d names, want %d", strings.Count(got, "Author"), maxAuthorsShown)
	}
}
