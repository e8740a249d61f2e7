// internal/models/reminder.go
package models

import "time"

// DefaultReminderDays is applied when an owner has no ReminderSetting row.
var DefaultReminderDays = []int{7, 3, 1}

// ReminderSetting holds an owner's expiry reminder preferences.
// ReminderDays values are positive integers, sorted descending.
type ReminderSetting struct {
	OwnerID      string `json:"ownerId"`
	Enabled      bool   `json:"enabled"`
	ReminderDays []int  `json:"reminderDays"`
}

// DefaultReminderSetting returns the setting used for owners without a
// stored row: reminders enabled at 7, 3 and 1 days before expiry.
func DefaultReminderSetting(ownerID string) *ReminderSetting {
	days := make([]int, len(DefaultReminderDays))
	copy(days, DefaultReminderDays)
	return &ReminderSetting{
		OwnerID:      ownerID,
		Enabled:      true,
		ReminderDays: days,
	}
}

// ReminderRecord is the append-only ledger entry marking that a reminder
// for (KeyID, ThresholdDays) has been dispatched. Unique on that pair.
type ReminderRecord struct {
	KeyID         string    `json:"keyId"`
	ThresholdDays int       `json:"thresholdDays"`
	SentAt        time.Time `json:"sentAt"`
}
