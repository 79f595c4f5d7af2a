// Package featureflags evaluates per-user rollout flags from configuration.
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Flag names a switchable behavior.
type Flag string

const (
	// StatsCache serves dashboard stats through the Redis cache.
	StatsCache Flag = "stats_cache"
	// LiveViews publishes accepted views to the owner's live feed.
	LiveViews Flag = "live_views"
)

// rule is a parsed flag value: fully on, fully off, or a percentage rollout.
type rule struct {
	raw     string
	percent int
}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "stats_cache=on,live_views=25%"
type Manager struct {
	rules map[Flag]rule
}

// NewManager creates a feature-flag manager from a comma-separated config string.
// Malformed entries are skipped.
func NewManager(raw string) *Manager {
	rules := make(map[Flag]rule)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		if r, ok := parseRule(value); ok {
			rules[Flag(key)] = r
		}
	}

	return &Manager{rules: rules}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{raw: value, percent: 100}, true
	case "off", "false", "0":
		return rule{raw: value, percent: 0}, true
	}

	pctRaw, ok := strings.CutSuffix(value, "%")
	if !ok {
		return rule{}, false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil {
		return rule{}, false
	}
	return rule{raw: value, percent: min(max(pct, 0), 100)}, true
}

// Enabled returns whether flag is enabled for userID.
// Partial rollouts hash the user into a stable bucket and never include userID 0.
func (m *Manager) Enabled(flag Flag, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[Flag(normalize(string(flag)))]
	if !ok {
		return false
	}

	switch {
	case r.percent >= 100:
		return true
	case r.percent <= 0 || userID == 0:
		return false
	}
	return rolloutBucket(flag, userID) < r.percent
}

// Raw returns a copy of the configured flag values.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for k, r := range m.rules {
		out[string(k)] = r.raw
	}
	return out
}

// Snapshot returns evaluated flag status for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[string(name)] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(flag Flag, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(string(flag)) + ":" + strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum32() % 100)
}
