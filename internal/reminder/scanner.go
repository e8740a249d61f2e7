// internal/reminder/scanner.go
package reminder

import (
	"context"
	"time"

	"keyexpiry-workers/internal/models"
)

// Scanner finds keys whose deadline falls inside the configured horizon
// and computes how many whole days remain. Pure read, no side effects.
type Scanner struct {
	keys    KeyStore
	horizon time.Duration
}

func NewScanner(keys KeyStore, horizonDays int) *Scanner {
	return &Scanner{
		keys:    keys,
		horizon: time.Duration(horizonDays) * 24 * time.Hour,
	}
}

// FindCandidates returns non-expired keys with a deadline within the
// horizon, optionally scoped to one owner (empty ownerID means all).
func (s *Scanner) FindCandidates(ctx context.Context, now time.Time, ownerID string) ([]models.APIKey, error) {
	return s.keys.FindExpiring(ctx, now, s.horizon, ownerID)
}

// DaysRemaining floors the remaining lifetime to whole days: a key at
// 7.9 days out is still "7-day" urgency, not yet 8. Past deadlines
// clamp to 0, which can never match a positive threshold.
func DaysRemaining(expiresAt, now time.Time) int {
	remaining := expiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining / (24 * time.Hour))
}

// matchesThreshold reports whether days is an exact member of the
// configured thresholds. No ranges, no nearest-threshold rounding.
func matchesThreshold(days int, thresholds []int) bool {
	for _, t := range thresholds {
		if days == t {
			return true
		}
	}
	return false
}
