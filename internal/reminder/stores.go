// internal/reminder/stores.go
package reminder

import (
	"context"
	"errors"
	"time"

	"keyexpiry-workers/internal/models"
)

// ErrAlreadyReminded is returned by LedgerStore.RecordReminder when the
// (key, threshold) pair already has a ledger row. Callers treat it as
// "reminder already sent", not as a failure.
var ErrAlreadyReminded = errors.New("reminder already recorded for key and threshold")

// Collaborator contracts consumed by the engine. The Postgres
// implementations live in internal/store; tests substitute in-memory
// fakes with zero global mutation.

// KeyStore finds keys approaching their deadline.
type KeyStore interface {
	FindExpiring(ctx context.Context, now time.Time, horizon time.Duration, ownerID string) ([]models.APIKey, error)
}

// SettingsStore loads per-owner reminder preferences; nil means no row.
type SettingsStore interface {
	GetReminderSetting(ctx context.Context, ownerID string) (*models.ReminderSetting, error)
}

// LedgerStore is the at-most-once guard per (key, threshold).
type LedgerStore interface {
	HasReminded(ctx context.Context, keyID string, thresholdDays int) (bool, error)
	RecordReminder(ctx context.Context, keyID string, thresholdDays int, sentAt time.Time) error
}

// ConfigStore loads per-owner channel config and rules; nil means no row.
type ConfigStore interface {
	GetNotificationConfig(ctx context.Context, ownerID string) (*models.NotificationConfig, error)
}

// NotificationStore persists per-channel delivery attempts.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) (string, error)
	UpdateStatus(ctx context.Context, id, status, errMsg string, sentAt *time.Time) error
}

// ChannelSender delivers one rendered notification over one channel.
type ChannelSender interface {
	Kind() string
	Send(ctx context.Context, settings models.ChannelSettings, n *models.Notification) error
}
