// Package conference rewrites conference URLs so they open directly in the
// native Zoom and Teams clients, and recognises Google Meet links.
package conference

import (
	"net/url"
	"strings"
)

// Service identifies a conferencing service handled here.
type Service string

// Known services.
const (
	ServiceNone  Service = ""
	ServiceZoom  Service = "zoom"
	ServiceTeams Service = "teams"
	ServiceGMeet Service = "gmeet"
)

const (
	zoomHost  = "zoom.us"
	teamsHost = "teams.microsoft.com"
	teamsLive = "teams.live.com"
	gmeetHost = "meet.google.com"
)

// Option applies a configuration option to the Rewriter.
type Option func(*Rewriter)

// WithDirectZoom enables zoommtg:// rewriting.
func WithDirectZoom(enabled bool) Option {
	return func(r *Rewriter) { r.zoom = enabled }
}

// WithDirectTeams enables msteams:// rewriting.
func WithDirectTeams(enabled bool) Option {
	return func(r *Rewriter) { r.teams = enabled }
}

// WithObserver is called with the service of every rewritten URL.
func WithObserver(fn func(Service)) Option {
	return func(r *Rewriter) {
		if fn != nil {
			r.observe = fn
		}
	}
}

// Rewriter turns https join links into native-app URLs.
type Rewriter struct {
	zoom    bool
	teams   bool
	observe func(Service)
}

// NewRewriter returns a Rewriter. With no options it never rewrites.
func NewRewriter(opts ...Option) *Rewriter {
	r := &Rewriter{observe: func(Service) {}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rewrite returns raw converted to its native scheme when the matching
// service is enabled and raw is a join link; otherwise raw is returned as is.
func (r *Rewriter) Rewrite(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	switch Detect(u) {
	case ServiceZoom:
		if !r.zoom || !strings.Contains(u.Path, "/j/") {
			return raw
		}
		// Each step works on the output of the previous one.
		out := strings.Replace(raw, "https://", "zoommtg://", 1)
		out = strings.ReplaceAll(out, "/j/", "/join?action=join&confno=")
		out = strings.ReplaceAll(out, "?pwd=", "&pwd=")
		r.observe(ServiceZoom)
		return out
	case ServiceTeams:
		if !r.teams || !strings.Contains(u.Path, "/l/") {
			return raw
		}
		r.observe(ServiceTeams)
		return strings.Replace(raw, "https://", "msteams://", 1)
	default:
		return raw
	}
}

// Detect classifies a parsed URL by host.
func Detect(u *url.URL) Service {
	host := strings.ToLower(u.Hostname())
	switch {
	case hostIs(host, zoomHost):
		return ServiceZoom
	case hostIs(host, teamsHost), hostIs(host, teamsLive):
		return ServiceTeams
	case host == gmeetHost:
		return ServiceGMeet
	default:
		return ServiceNone
	}
}

// IsGoogleMeet reports whether raw points at meet.google.com.
func IsGoogleMeet(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return Detect(u) == ServiceGMeet
}

func hostIs(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
