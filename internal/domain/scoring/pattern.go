package scoring

import (
	"fmt"
	"strings"
)

const wildcardLabel = "*"

// Pattern is one parsed conference domain pattern such as "zoom.us",
// "*.zoom.us" or "teams.microsoft.com/l/".
type Pattern struct {
	raw      string
	labels   []string
	path     string
	wildcard bool
}

// ParsePattern parses a configured conference domain. A leading scheme is
// tolerated and ignored; hostnames are compared case-insensitively.
func ParsePattern(s string) (Pattern, error) {
	raw := strings.TrimSpace(s)
	norm := strings.ToLower(raw)
	norm = strings.TrimPrefix(norm, "https://")
	norm = strings.TrimPrefix(norm, "http://")
	if norm == "" {
		return Pattern{}, ErrEmptyPattern
	}

	host, path := norm, ""
	if i := strings.IndexByte(norm, '/'); i >= 0 {
		host, path = norm[:i], norm[i:]
	}

	p := Pattern{raw: raw, labels: strings.Split(host, "."), path: path}
	for _, label := range p.labels {
		switch {
		case label == "":
			return Pattern{}, fmt.Errorf("%w: %q has an empty label", ErrInvalidPattern, raw)
		case label == wildcardLabel:
			p.wildcard = true
		case strings.Contains(label, wildcardLabel):
			return Pattern{}, fmt.Errorf("%w: %q: wildcard must be a whole label", ErrInvalidPattern, raw)
		}
	}
	return p, nil
}

// String returns the pattern as configured.
func (p Pattern) String() string { return p.raw }

// Match reports whether host and path satisfy the pattern. host must already
// be lower-case without a port.
//
// A wildcard label matches exactly one DNS label, so "*.zoom.us" matches
// "us02web.zoom.us" but not "zoom.us". Patterns without wildcards also match
// any subdomain on a label boundary.
func (p Pattern) Match(host, path string) bool {
	if p.path != "" && !strings.HasPrefix(path, p.path) {
		return false
	}
	hostLabels := strings.Split(host, ".")

	if !p.wildcard {
		if len(hostLabels) < len(p.labels) {
			return false
		}
		hostLabels = hostLabels[len(hostLabels)-len(p.labels):]
	} else if len(hostLabels) != len(p.labels) {
		return false
	}

	for i, label := range p.labels {
		if label != wildcardLabel && label != hostLabels[i] {
			return false
		}
	}
	return true
}

// ParsePatterns parses an ordered domain list, keeping its order.
func ParsePatterns(domains []string) ([]Pattern, error) {
	out := make([]Pattern, 0, len(domains))
	for _, d := range domains {
		p, err := ParsePattern(d)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
