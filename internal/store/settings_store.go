// internal/store/settings_store.go
package store

import (
	"context"
	"database/sql"
	"errors"

	"keyexpiry-workers/internal/models"

	"github.com/lib/pq"
)

// SettingsStore reads per-owner reminder settings. A missing row is not
// an error: callers fall back to the default setting.
type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// GetReminderSetting returns the owner's setting, or nil when none is stored.
func (s *SettingsStore) GetReminderSetting(ctx context.Context, ownerID string) (*models.ReminderSetting, error) {
	const query = `
		SELECT enabled, reminder_days
		FROM reminder_settings
		WHERE owner_id = $1`

	setting := models.ReminderSetting{OwnerID: ownerID}
	var days pq.Int64Array
	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&setting.Enabled, &days)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	setting.ReminderDays = make([]int, 0, len(days))
	for _, d := range days {
		setting.ReminderDays = append(setting.ReminderDays, int(d))
	}
	return &setting, nil
}
