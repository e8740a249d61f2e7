// internal/store/config_store.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"keyexpiry-workers/internal/common/validation"
	"keyexpiry-workers/internal/models"
)

// ConfigStore reads per-owner notification configs. The channels and
// rules columns are JSONB blobs maintained by the dashboard UI, so every
// row is schema-validated before it reaches the dispatch path.
type ConfigStore struct {
	db *sql.DB
}

func NewConfigStore(db *sql.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// GetNotificationConfig returns the owner's config, or nil when none is stored.
func (s *ConfigStore) GetNotificationConfig(ctx context.Context, ownerID string) (*models.NotificationConfig, error) {
	const query = `
		SELECT channels, rules
		FROM notification_configs
		WHERE owner_id = $1`

	var channelsRaw, rulesRaw []byte
	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&channelsRaw, &rulesRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc map[string]interface{}
	raw := fmt.Sprintf(`{"channels": %s, "rules": %s}`, channelsRaw, rulesRaw)
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode notification config for %s: %w", ownerID, err)
	}
	if err := validation.ValidateNotificationConfig(doc); err != nil {
		return nil, fmt.Errorf("owner %s: %w", ownerID, err)
	}

	cfg := models.NotificationConfig{OwnerID: ownerID}
	if err := json.Unmarshal(channelsRaw, &cfg.Channels); err != nil {
		return nil, fmt.Errorf("decode channels for %s: %w", ownerID, err)
	}
	if err := json.Unmarshal(rulesRaw, &cfg.Rules); err != nil {
		return nil, fmt.Errorf("decode rules for %s: %w", ownerID, err)
	}
	return &cfg, nil
}
