// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ads

import (
	"fmt"
	"strings"
	"time"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

const dateFmt = "2006-01-02"

// DateClause formats a query window as an inclusive entdate range clause.
func DateClause(start, end time.Time) string {
	return fmt.Sprintf("entdate:[%s TO %s]", start.Format(dateFmt), end.Format(dateFmt))
}

// CategoryClause builds an OR-disjunction over arXiv classes, e.g.
// (arxiv_class:"astro-ph.EP" OR arxiv_class:"astro-ph.SR").
func CategoryClause(categories []string) string {
	clauses := make([]string, len(categories))
	for i, c := range categories {
		clauses[i] = fmt.Sprintf("arxiv_class:%q", c)
	}
	return group(clauses)
}

// AuthorClause builds the match clause for one roster entry. ADS author
// fields are "Family, Given", so family name plus first initial matches
// regardless of how the source abbreviated the given name.
func AuthorClause(e types.RosterEntry) string {
	name := e.FamilyName
	if initial := firstInitial(e.GivenName); initial != "" {
		name += ", " + initial
	}
	return fmt.Sprintf("author:%q", escapeQuotes(name))
}

// AuthorGroupClause builds an OR-disjunction of author clauses for one
// chunk of roster entries.
func AuthorGroupClause(entries []types.RosterEntry) string {
	clauses := make([]string, len(entries))
	for i, e := range entries {
		clauses[i] = AuthorClause(e)
	}
	return group(clauses)
}

// TopicClause builds the interest clause of a topic query: category tags
// OR'd with abstract keyword matches.
func TopicClause(categories, keywords []string) string {
	var clauses []string
	for _, c := range categories {
		clauses = append(clauses, fmt.Sprintf("arxiv_class:%q", c))
	}
	for _, kw := range keywords {
		clauses = append(clauses, fmt.Sprintf("abs:%q", escapeQuotes(kw)))
	}
	return group(clauses)
}

// CategoryQuery is the expression for an affiliation-mode run: every record
// in the configured categories inside the window.
func CategoryQuery(categories []string, start, end time.Time) string {
	return CategoryClause(categories) + " AND " + DateClause(start, end)
}

// RosterQuery is the expression for one roster chunk: category clause, date
// window, and the chunk's author disjunction.
func RosterQuery(entries []types.RosterEntry, categories []string, start, end time.Time) string {
	return CategoryClause(categories) + " AND " + DateClause(start, end) + " AND " + AuthorGroupClause(entries)
}

// TopicQuery is the expression for a topic-mode run.
func TopicQuery(categories, keywords []string, start, end time.Time) string {
	return TopicClause(categories, keywords) + " AND " + DateClause(start, end)
}

func group(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return "(" + strings.Join(clauses, " OR ") + ")"
}

func firstInitial(given string) string {
	given = strings.TrimSpace(given)
	if given == "" {
		return ""
	}
	return strings.ToUpper(string([]rune(given)[0]))
}

// escapeQuotes strips double quotes that would break out of the quoted
// clause. ADS names never legitimately contain them.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}
