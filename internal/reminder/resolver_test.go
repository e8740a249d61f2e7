// internal/reminder/resolver_test.go
package reminder

import (
	"context"
	"testing"
	"time"

	"keyexpiry-workers/internal/common/logger"
	"keyexpiry-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Defaults(t *testing.T) {
	tests := []struct {
		name   string
		config *models.NotificationConfig
		want   []string
	}{
		{
			name:   "no config resolves to system",
			config: nil,
			want:   []string{models.ChannelSystem},
		},
		{
			name: "no matching rule resolves to system",
			config: &models.NotificationConfig{
				OwnerID: "u1",
				Rules:   []models.NotificationRule{{EventType: "OTHER_EVENT", Enabled: true, Channels: []string{models.ChannelEmail}}},
			},
			want: []string{models.ChannelSystem},
		},
		{
			name: "disabled rule resolves to empty set",
			config: &models.NotificationConfig{
				OwnerID: "u1",
				Rules:   []models.NotificationRule{{EventType: models.EventExpirationWarning, Enabled: false, Channels: []string{models.ChannelSystem}}},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configs := &fakeConfigStore{configs: map[string]*models.NotificationConfig{}}
			if tt.config != nil {
				configs.configs["u1"] = tt.config
			}
			r := NewResolver(configs, nil, 0, logger.NewNoOpLogger())

			resolved, err := r.Resolve(context.Background(), "u1", models.EventExpirationWarning)
			require.NoError(t, err)

			assert.Len(t, resolved, len(tt.want))
			for _, channel := range tt.want {
				assert.Contains(t, resolved, channel)
			}
		})
	}
}

func TestResolver_IntersectsWithConfiguredChannels(t *testing.T) {
	configs := &fakeConfigStore{configs: map[string]*models.NotificationConfig{
		"u1": {
			OwnerID: "u1",
			Channels: map[string]models.ChannelSettings{
				models.ChannelEmail:   {Enabled: true, Address: "owner@example.com"},
				models.ChannelWebhook: {Enabled: true, URL: "https://example.com"}, // missing secret
				models.ChannelSMS:     {Enabled: false, Phone: "+15550100"},        // disabled
			},
			Rules: []models.NotificationRule{{
				EventType: models.EventExpirationWarning,
				Enabled:   true,
				Channels:  []string{models.ChannelEmail, models.ChannelWebhook, models.ChannelSMS, models.ChannelSystem},
			}},
		},
	}}
	r := NewResolver(configs, nil, 0, logger.NewNoOpLogger())

	resolved, err := r.Resolve(context.Background(), "u1", models.EventExpirationWarning)
	require.NoError(t, err)

	assert.Contains(t, resolved, models.ChannelEmail)
	assert.Contains(t, resolved, models.ChannelSystem, "system needs no settings")
	assert.NotContains(t, resolved, models.ChannelWebhook, "incomplete settings excluded")
	assert.NotContains(t, resolved, models.ChannelSMS, "disabled channel excluded")
	assert.Equal(t, "owner@example.com", resolved[models.ChannelEmail].Address)
}

func TestResolver_CachesConfig(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	configs := &fakeConfigStore{configs: map[string]*models.NotificationConfig{
		"u1": {
			OwnerID: "u1",
			Channels: map[string]models.ChannelSettings{
				models.ChannelEmail: {Enabled: true, Address: "owner@example.com"},
			},
			Rules: []models.NotificationRule{{
				EventType: models.EventExpirationWarning,
				Enabled:   true,
				Channels:  []string{models.ChannelEmail},
			}},
		},
	}}
	r := NewResolver(configs, cache, time.Minute, logger.NewNoOpLogger())

	first, err := r.Resolve(context.Background(), "u1", models.EventExpirationWarning)
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), "u1", models.EventExpirationWarning)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, configs.reads, "second resolve served from cache")

	// TTL expiry falls back to the store.
	mr.FastForward(2 * time.Minute)
	_, err = r.Resolve(context.Background(), "u1", models.EventExpirationWarning)
	require.NoError(t, err)
	assert.Equal(t, 2, configs.reads)
}

func TestResolver_CacheFaultDegradesToStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close() // cache down before first use

	configs := &fakeConfigStore{configs: map[string]*models.NotificationConfig{}}
	r := NewResolver(configs, cache, time.Minute, logger.NewNoOpLogger())

	resolved, err := r.Resolve(context.Background(), "u1", models.EventExpirationWarning)
	require.NoError(t, err, "cache failure must not fail resolution")
	assert.Contains(t, resolved, models.ChannelSystem)
}
