package common

import "time"

// Freshness TTLs for cached data components
const (
	FreshnessQuotes        = 5 * time.Minute
	FreshnessMarketSummary = 5 * time.Minute
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
