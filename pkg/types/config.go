package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Every external call must have a
	// finite timeout; an unbounded hang is a defect.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "astro-digest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ADSConfig holds settings for the ADS search API client.
type ADSConfig struct {
	HTTPConfig `yaml:",inline"`

	// Token is the ADS API bearer token.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// RequestsPerSecond paces consecutive requests to the API. Chunked runs
	// can issue dozens of queries; ADS expects polite spacing.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries is the retry budget for rate-limited requests (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// InstitutionConfig describes how to recognize the institution in free-text
// affiliation strings. Supplied as plain values so tests can run against
// synthetic institutions.
type InstitutionConfig struct {
	// PrimaryKeyword must appear somewhere in the text for any match to be
	// possible (e.g. "wisconsin"). Compared lowercase.
	PrimaryKeyword string `json:"primary_keyword" yaml:"primary_keyword"`

	// SiblingCampuses lists keywords of other campuses in the same
	// university system (e.g. "milwaukee"). Their presence rejects the text
	// outright, before any accept rule runs.
	SiblingCampuses []string `json:"sibling_campuses" yaml:"sibling_campuses"`

	// CampusPatterns are regular expressions for canonical forms of the
	// campus name ("university of wisconsin.*madison", "uw[- ]?madison", ...).
	CampusPatterns []string `json:"campus_patterns" yaml:"campus_patterns"`

	// TownName is the campus town, accepted as a weaker fallback signal when
	// no formal pattern matches (e.g. "madison").
	TownName string `json:"town_name" yaml:"town_name"`
}

// DigestConfig holds the tunables of one digest run.
type DigestConfig struct {
	// LookbackDays is the width of the query date window.
	LookbackDays int `json:"lookback_days" yaml:"lookback_days"`

	// ChunkSize caps how many roster names are OR'd into a single query
	// expression. Smaller chunks mean more round trips but shorter
	// expressions.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// MaxStalenessMonths is the staleness cutoff: records whose arXiv
	// submission month is older than this are suppressed as re-indexed
	// entries, not news.
	MaxStalenessMonths int `json:"max_staleness_months" yaml:"max_staleness_months"`

	// Rows is the page size requested per query.
	Rows int `json:"rows" yaml:"rows"`

	// Categories are the arXiv classes queried (e.g. "astro-ph.SR").
	Categories []string `json:"categories" yaml:"categories"`

	// TopicKeywords are abstract keywords OR'd into topic-mode queries.
	TopicKeywords []string `json:"topic_keywords,omitempty" yaml:"topic_keywords,omitempty"`

	// PriorityORCIDs are author identifiers whose papers are promoted to the
	// front of the digest.
	PriorityORCIDs []string `json:"priority_orcids,omitempty" yaml:"priority_orcids,omitempty"`

	// FamilyNameFallback enables the lower-precision family-name-only roster
	// matching pass for records the initialed pass missed. It can attribute
	// a paper to the wrong same-surname person; off by default.
	FamilyNameFallback bool `json:"family_name_fallback" yaml:"family_name_fallback"`
}

// RosterConfig holds settings for the faculty roster source.
type RosterConfig struct {
	HTTPConfig `yaml:",inline"`

	// DirectoryURL is the department directory page to scrape.
	DirectoryURL string `json:"directory_url" yaml:"directory_url"`

	// FallbackFile is a YAML file of roster entries used when the scrape
	// yields nothing.
	FallbackFile string `json:"fallback_file,omitempty" yaml:"fallback_file,omitempty"`
}

// SMTPConfig holds settings for digest email delivery.
type SMTPConfig struct {
	// Server is the SMTP host (e.g. "smtp.gmail.com").
	Server string `json:"server" yaml:"server"`

	// Port is the SMTP submission port (default 587).
	Port int `json:"port" yaml:"port"`

	// Sender is the From address and SMTP username.
	Sender string `json:"sender" yaml:"sender"`

	// Password is the SMTP password; usually loaded from secrets, never
	// from the config file.
	Password string `json:"-" yaml:"-"`

	// Recipients are the To addresses.
	Recipients []string `json:"recipients" yaml:"recipients"`
}
