// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify renders the organized digest into a subject line and
// plain-text and HTML bodies, and delivers them over SMTP.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/internal/digest"
	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

// maxAuthorsShown caps the author list in rendered papers; longer lists get
// an "et al." with the full count.
const maxAuthorsShown = 15

// Message is a fully rendered digest notification.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Renderer formats run results under a configured digest title.
type Renderer struct {
	title string
	html  *template.Template
	text  *texttemplate.Template
}

// NewRenderer builds a renderer. The title prefixes the subject line and
// heads both bodies (e.g. "UW-Madison Astro-ph Digest").
func NewRenderer(title string) (*Renderer, error) {
	ht, err := template.New("html").Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML template: %w", err)
	}
	tt, err := texttemplate.New("text").Parse(textTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing text template: %w", err)
	}
	return &Renderer{title: title, html: ht, text: tt}, nil
}

// Render produces the notification for one run. A zero-match run renders a
// "no papers" message rather than failing.
func (r *Renderer) Render(res digest.RunResult) (Message, error) {
	view := r.buildView(res)

	var html bytes.Buffer
	if err := r.html.Execute(&html, view); err != nil {
		return Message{}, fmt.Errorf("rendering HTML body: %w", err)
	}
	var text bytes.Buffer
	if err := r.text.Execute(&text, view); err != nil {
		return Message{}, fmt.Errorf("rendering text body: %w", err)
	}

	return Message{
		Subject: r.title + ": " + res.Summary(),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

type digestView struct {
	Title     string
	DateRange string
	Summary   string
	Priority  []paperView
	Groups    []groupView
	Empty     bool
}

type groupView struct {
	Category string
	Papers   []paperView
}

type paperView struct {
	Title        string
	URL          string
	Authors      string
	Categories   string
	MatchedNames string
	Abstract     string
}

func (r *Renderer) buildView(res digest.RunResult) digestView {
	v := digestView{
		Title:     r.title,
		DateRange: formatRange(res.WindowStart, res.WindowEnd),
		Summary:   res.Summary(),
		Empty:     res.Digest.Total() == 0,
	}
	for _, m := range res.Digest.Priority {
		v.Priority = append(v.Priority, paperFor(m))
	}
	for _, g := range res.Digest.Groups {
		gv := groupView{Category: g.Category}
		for _, m := range g.Matches {
			gv.Papers = append(gv.Papers, paperFor(m))
		}
		v.Groups = append(v.Groups, gv)
	}
	return v
}

func paperFor(m types.MatchResult) paperView {
	return paperView{
		Title:        m.Record.Title,
		URL:          m.Record.URL(),
		Authors:      formatAuthors(m.Record.Authors),
		Categories:   strings.Join(m.Record.Categories, ", "),
		MatchedNames: strings.Join(m.MatchedNames, ", "),
		Abstract:     m.Record.Abstract,
	}
}

func formatAuthors(authors []string) string {
	if len(authors) <= maxAuthorsShown {
		return strings.Join(authors, ", ")
	}
	return fmt.Sprintf("%s et al. (%d authors)",
		strings.Join(authors[:maxAuthorsShown], ", "), len(authors))
}

func formatRange(start, end time.Time) string {
	return start.Format("January 02") + " - " + end.Format("January 02, 2006")
}

const textTemplate = `{{.Title}}
{{.DateRange}}

{{if .Empty}}No papers found this week.
{{else}}{{.Summary}}
{{if .Priority}}
============================================================
PRIORITY AUTHORS ({{len .Priority}})
============================================================
{{range .Priority}}
{{.Title}}
{{if .MatchedNames}}* Priority author: {{.MatchedNames}}
{{end}}Authors: {{.Authors}}
Categories: {{.Categories}}
Link: {{.URL}}

{{.Abstract}}
{{end}}{{end}}{{range .Groups}}
============================================================
{{.Category}} ({{len .Papers}})
============================================================
{{range .Papers}}
{{.Title}}
{{if .MatchedNames}}Matched: {{.MatchedNames}}
{{end}}Authors: {{.Authors}}
Categories: {{.Categories}}
Link: {{.URL}}

{{.Abstract}}
{{end}}{{end}}{{end}}`

const htmlTemplate = `<html>
<body style="font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #c5050c; border-bottom: 2px solid #c5050c; padding-bottom: 10px;">{{.Title}}</h1>
  <p style="color: #666;">Papers from {{.DateRange}}</p>
{{if .Empty}}
  <p>No papers found this week.</p>
{{else}}
  <p style="font-size: 16px;"><strong>{{.Summary}}</strong></p>
{{if .Priority}}
  <h2 style="color: #c5050c; margin-top: 30px; border-bottom: 1px solid #c5050c; padding-bottom: 5px;">Priority Authors ({{len .Priority}})</h2>
{{range .Priority}}
  <div style="margin-bottom: 25px; padding: 15px; border-left: 4px solid #c5050c; background-color: #fff5f5;">
    <h3 style="margin: 0 0 10px 0;"><a href="{{.URL}}" style="color: #0479a8; text-decoration: none;">{{.Title}}</a></h3>
{{if .MatchedNames}}    <p style="margin: 0 0 8px 0; color: #c5050c; font-weight: bold; font-size: 14px;">Priority author: {{.MatchedNames}}</p>
{{end}}    <p style="margin: 0 0 8px 0; color: #666; font-size: 14px;"><strong>Authors:</strong> {{.Authors}}</p>
    <p style="margin: 0 0 12px 0; color: #666; font-size: 14px;"><strong>Categories:</strong> {{.Categories}}</p>
    <p style="margin: 0; font-size: 14px; line-height: 1.6;">{{.Abstract}}</p>
  </div>
{{end}}{{end}}
{{range .Groups}}
  <h2 style="color: #333; margin-top: 30px;">{{.Category}} ({{len .Papers}})</h2>
{{range .Papers}}
  <div style="margin-bottom: 20px; padding: 15px; border-left: 3px solid #0479a8; background-color: #f9f9f9;">
    <h3 style="margin: 0 0 8px 0;"><a href="{{.URL}}" style="color: #0479a8; text-decoration: none;">{{.Title}}</a></h3>
{{if .MatchedNames}}    <p style="margin: 0 0 8px 0; color: #666; font-size: 14px;"><strong>Matched:</strong> {{.MatchedNames}}</p>
{{end}}    <p style="margin: 0 0 8px 0; color: #666; font-size: 14px;"><strong>Authors:</strong> {{.Authors}}</p>
    <p style="margin: 0 0 8px 0; color: #666; font-size: 14px;"><strong>Categories:</strong> {{.Categories}}</p>
    <p style="margin: 0; font-size: 14px; line-height: 1.5;">{{.Abstract}}</p>
  </div>
{{end}}{{end}}
{{end}}
  <hr style="margin-top: 40px; border: none; border-top: 1px solid #ddd;">
  <p style="color: #999; font-size: 12px;">This digest is automatically generated.</p>
</body>
</html>`
