// Package scoring extracts conference URL candidates from event text and ranks
// them against the configured domain precedence list.
package scoring

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	model "github.com/okian/ocu/internal/domain/model"
)

// Rejected is the score of a candidate that must never be selected.
const Rejected = -1

const scorePerRank = 10

// Outcome classifies how a candidate was scored.
type Outcome string

// Candidate outcomes.
const (
	OutcomeMatched      Outcome = "matched"
	OutcomeDocument     Outcome = "document"
	OutcomeUnrecognized Outcome = "unrecognized"
	OutcomeMalformed    Outcome = "malformed"
)

var (
	// urlPattern is greedy: each match is the longest run of non-delimiters.
	urlPattern = regexp.MustCompile(`https://[^\s"'<>]+`)
	// documentPattern flags links that look like files rather than meetings.
	documentPattern = regexp.MustCompile(`\.[a-z]{3}$`)
)

// Candidate is one URL found in an event's text.
type Candidate struct {
	URL     string
	Score   int
	Outcome Outcome
	// Pattern is the domain pattern that matched, if any.
	Pattern string
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithObserver registers a callback invoked for every scored candidate.
func WithObserver(fn func(Candidate)) Option {
	return func(s *Scorer) {
		if fn != nil {
			s.observe = fn
		}
	}
}

// Scorer ranks candidate URLs. It holds no mutable state and is safe for
// concurrent use.
type Scorer struct {
	patterns []Pattern
	observe  func(Candidate)
}

// NewScorer builds a scorer for the ordered conference domain list; earlier
// domains take precedence.
func NewScorer(domains []string, opts ...Option) (*Scorer, error) {
	patterns, err := ParsePatterns(domains)
	if err != nil {
		return nil, err
	}
	s := &Scorer{
		patterns: patterns,
		observe:  func(Candidate) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Extract returns every https URL in text in order of appearance, with one
// trailing period or semicolon stripped from each.
func Extract(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	for i, m := range matches {
		if strings.HasSuffix(m, ".") || strings.HasSuffix(m, ";") {
			matches[i] = m[:len(m)-1]
		}
	}
	return matches
}

// Score ranks a single normalized URL.
func (s *Scorer) Score(raw string) Candidate {
	c := Candidate{URL: raw, Score: Rejected}

	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		c.Outcome = OutcomeMalformed
		return c
	}
	host := strings.ToLower(u.Hostname())

	n := len(s.patterns)
	for i, p := range s.patterns {
		if p.Match(host, u.Path) {
			c.Score = scorePerRank * (n - i)
			c.Outcome = OutcomeMatched
			c.Pattern = p.String()
			return c
		}
	}

	// Domain matches take precedence, so the document check only labels
	// rejections.
	c.Outcome = OutcomeUnrecognized
	if documentPattern.MatchString(lastSegment(host, u.Path)) {
		c.Outcome = OutcomeDocument
	}
	return c
}

// Candidates extracts and scores every URL in text, in order of appearance.
func (s *Scorer) Candidates(text string) []Candidate {
	urls := Extract(text)
	out := make([]Candidate, 0, len(urls))
	for _, u := range urls {
		c := s.Score(u)
		s.observe(c)
		out = append(out, c)
	}
	return out
}

// Best returns the highest scoring URL in text. Ties go to the URL seen
// first. ok is false when no candidate matched a configured domain.
func (s *Scorer) Best(text string) (best string, ok bool) {
	top := Rejected
	for _, c := range s.Candidates(text) {
		if c.Score > top {
			top, best, ok = c.Score, c.URL, true
		}
	}
	return best, ok
}

// BestForRecord searches every textual field of a raw record.
func (s *Scorer) BestForRecord(r model.RawRecord) (string, bool) {
	return s.Best(SearchString(r))
}

// SearchString joins the textual fields of a record with newlines: title,
// location, url and notes first, then any remaining non-date fields in key
// order.
func SearchString(r model.RawRecord) string {
	ordered := []string{model.FieldTitle, model.FieldLocation, model.FieldURL, model.FieldNotes}
	skip := map[string]bool{
		model.FieldStartDate: true,
		model.FieldEndDate:   true,
		model.FieldIsAllDay:  true,
	}
	for _, k := range ordered {
		skip[k] = true
	}

	var extra []string
	for k := range r {
		if !skip[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	parts := make([]string, 0, len(r))
	for _, k := range append(ordered, extra...) {
		if v := r[k]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}

func lastSegment(host, path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return host
	}
	return trimmed[strings.LastIndexByte(trimmed, '/')+1:]
}
