// internal/reminder/scanner_test.go
package reminder

import (
	"context"
	"testing"
	"time"

	"keyexpiry-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDaysRemaining_FloorSemantics(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		remaining time.Duration
		want      int
	}{
		{"exactly 7 days", 7 * 24 * time.Hour, 7},
		{"7 days 20 hours floors to 7, not 8", 7*24*time.Hour + 20*time.Hour, 7},
		{"7 days minus a second floors to 6", 7*24*time.Hour - time.Second, 6},
		{"under one day floors to 0", 23 * time.Hour, 0},
		{"exactly one day", 24 * time.Hour, 1},
		{"already expired clamps to 0", -time.Hour, 0},
		{"expiring right now", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysRemaining(now.Add(tt.remaining), now))
		})
	}
}

func TestMatchesThreshold_ExactMembershipOnly(t *testing.T) {
	thresholds := []int{7, 3, 1}

	assert.True(t, matchesThreshold(7, thresholds))
	assert.True(t, matchesThreshold(3, thresholds))
	assert.True(t, matchesThreshold(1, thresholds))
	assert.False(t, matchesThreshold(5, thresholds), "no nearest-threshold rounding")
	assert.False(t, matchesThreshold(8, thresholds))
	assert.False(t, matchesThreshold(0, thresholds))
	assert.False(t, matchesThreshold(2, nil))
}

func TestScanner_FindCandidates_AppliesHorizon(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	keys := &fakeKeyStore{keys: []models.APIKey{
		{ID: "in", OwnerID: "u1", ExpiresAt: now.Add(3 * 24 * time.Hour)},
		{ID: "out", OwnerID: "u1", ExpiresAt: now.Add(30 * 24 * time.Hour)},
		{ID: "expired", OwnerID: "u1", ExpiresAt: now.Add(-time.Hour)},
	}}

	scanner := NewScanner(keys, 8)
	candidates, err := scanner.FindCandidates(context.Background(), now, "")

	assert.NoError(t, err)
	if assert.Len(t, candidates, 1) {
		assert.Equal(t, "in", candidates[0].ID)
	}
}
