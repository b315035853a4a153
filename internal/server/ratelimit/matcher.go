package ratelimit

import (
	"strings"
)

// unlimited is returned for paths that must never be limited.
var unlimited = Rule{Limit: 0}

// Match returns the rule governing a request, or nil when the default limit applies.
func (c *Config) Match(method, path string) *Rule {
	for _, p := range c.Unlimited {
		if p == path {
			return &unlimited
		}
	}

	for i := range c.Rules {
		rule := &c.Rules[i]
		if rule.Method == method && patternMatches(rule.Pattern, path) {
			return rule
		}
	}
	return nil
}

// patternMatches compares path segments; "{x}" in the pattern matches any one segment.
func patternMatches(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], "{") && strings.HasSuffix(ps[i], "}") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
