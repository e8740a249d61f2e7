// internal/reminder/resolver.go
package reminder

import (
	"context"
	"encoding/json"
	"time"

	"keyexpiry-workers/internal/common/logger"
	"keyexpiry-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const configCachePrefix = "notifcfg:"

// Resolver decides which channels a logical event fans out to for an
// owner, and with what delivery settings. Configs are read through an
// optional short-TTL Redis cache; cache faults degrade to direct reads.
type Resolver struct {
	configs ConfigStore
	cache   *redis.Client
	ttl     time.Duration
	logger  logger.Logger
}

func NewResolver(configs ConfigStore, cache *redis.Client, ttl time.Duration, log logger.Logger) *Resolver {
	return &Resolver{
		configs: configs,
		cache:   cache,
		ttl:     ttl,
		logger:  log.WithFields(map[string]interface{}{"component": "config_resolver"}),
	}
}

// Resolve returns the channels the event should be delivered on, keyed
// to their settings. Semantics:
//   - no config row, or no rule for the event: {system} — the
//     zero-dependency channel, so silence never happens by default
//   - rule present but disabled: empty — explicit suppression
//   - otherwise: rule channels that the owner has enabled with
//     complete settings; a rule naming an unconfigured channel skips it
func (r *Resolver) Resolve(ctx context.Context, ownerID, eventType string) (map[string]models.ChannelSettings, error) {
	cfg, err := r.loadConfig(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	systemOnly := map[string]models.ChannelSettings{
		models.ChannelSystem: {Enabled: true},
	}

	if cfg == nil {
		return systemOnly, nil
	}
	rule := cfg.RuleFor(eventType)
	if rule == nil {
		return systemOnly, nil
	}
	if !rule.Enabled {
		return map[string]models.ChannelSettings{}, nil
	}

	resolved := make(map[string]models.ChannelSettings, len(rule.Channels))
	for _, channel := range rule.Channels {
		if channel == models.ChannelSystem {
			resolved[channel] = models.ChannelSettings{Enabled: true}
			continue
		}
		settings, ok := cfg.Channels[channel]
		if !ok || !settings.Complete(channel) {
			r.logger.Debug("channel excluded, incomplete settings", map[string]interface{}{
				"ownerId": ownerID,
				"channel": channel,
			})
			continue
		}
		resolved[channel] = settings
	}
	return resolved, nil
}

func (r *Resolver) loadConfig(ctx context.Context, ownerID string) (*models.NotificationConfig, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, configCachePrefix+ownerID).Result()
		if err == nil {
			var cfg models.NotificationConfig
			if jerr := json.Unmarshal([]byte(cached), &cfg); jerr == nil {
				return &cfg, nil
			}
		} else if err != redis.Nil {
			r.logger.Debug("config cache read failed", map[string]interface{}{
				"ownerId": ownerID,
				"error":   err.Error(),
			})
		}
	}

	cfg, err := r.configs.GetNotificationConfig(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if r.cache != nil && cfg != nil {
		if payload, jerr := json.Marshal(cfg); jerr == nil {
			if cerr := r.cache.Set(ctx, configCachePrefix+ownerID, payload, r.ttl).Err(); cerr != nil {
				r.logger.Debug("config cache write failed", map[string]interface{}{
					"ownerId": ownerID,
					"error":   cerr.Error(),
				})
			}
		}
	}
	return cfg, nil
}
