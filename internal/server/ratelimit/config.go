package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one route. Pattern segments written as {name} match any single path segment.
type Rule struct {
	Method  string
	Pattern string
	Limit   int           // Requests per window; 0 means unlimited
	Window  time.Duration // Window the limit applies to
	Burst   int           // Bucket capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // Buckets unused for this long are dropped
	Allowlist       map[string]bool
	Denylist        map[string]bool
	Rules           []Rule
	Unlimited       []string // Exact paths that are never limited
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         getEnvDuration("RATE_LIMIT_IDLE_TTL", time.Hour),
		Allowlist:       parseIPList(os.Getenv("RATE_LIMIT_ALLOWLIST")),
		Denylist:        parseIPList(os.Getenv("RATE_LIMIT_DENYLIST")),
		Rules:           DefaultRules(getEnvInt("RATE_LIMIT_CALCULATE_PER_MINUTE", 60)),
		Unlimited:       []string{"/health", "/metrics"},
	}
}

// DefaultRules returns the per-route rules. Classification is limited harder than reads and
// catalog reloads hardest of all.
func DefaultRules(calculatePerMinute int) []Rule {
	return []Rule{
		{Method: http.MethodPost, Pattern: "/api/v1/personality/calculate", Limit: calculatePerMinute, Window: time.Minute, Burst: 10},
		{Method: http.MethodGet, Pattern: "/api/v1/personality/demo", Limit: calculatePerMinute, Window: time.Minute, Burst: 10},
		{Method: http.MethodPost, Pattern: "/admin/catalog/reload", Limit: 5, Window: time.Minute, Burst: 1},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
