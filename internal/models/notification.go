// internal/models/notification.go
package models

import "time"

// Channel kinds
const (
	ChannelSystem  = "system"
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
	ChannelSMS     = "sms"
)

// Notification statuses. PENDING is written before the send attempt;
// SENT and FAILED are terminal.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Event types
const (
	EventExpirationWarning = "EXPIRATION_WARNING"
)

// Notification is one per-channel delivery attempt for a logical event.
type Notification struct {
	ID        string                 `json:"id"`
	OwnerID   string                 `json:"ownerId"`
	EventType string                 `json:"eventType"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Channel   string                 `json:"channel"`
	Status    string                 `json:"status"`
	Error     string                 `json:"error,omitempty"`
	SentAt    *time.Time             `json:"sentAt,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	ReadAt    *time.Time             `json:"readAt,omitempty"`
}

// ChannelSettings carries channel-specific delivery data. A channel with
// Enabled=true but missing required fields is treated as unconfigured.
type ChannelSettings struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address,omitempty"` // email
	Phone   string `json:"phone,omitempty"`   // sms
	URL     string `json:"url,omitempty"`     // webhook
	Secret  string `json:"secret,omitempty"`  // webhook signing secret
}

// Complete reports whether the settings carry everything the channel
// needs to actually deliver.
func (s ChannelSettings) Complete(channel string) bool {
	if !s.Enabled {
		return false
	}
	switch channel {
	case ChannelEmail:
		return s.Address != ""
	case ChannelSMS:
		return s.Phone != ""
	case ChannelWebhook:
		return s.URL != "" && s.Secret != ""
	case ChannelSystem:
		return true
	}
	return false
}

// NotificationRule maps an event type to the channels it should fan out
// to. A disabled rule suppresses the event entirely.
type NotificationRule struct {
	EventType string   `json:"eventType"`
	Enabled   bool     `json:"enabled"`
	Channels  []string `json:"channels"`
}

// NotificationConfig is an owner's channel configuration plus per-event
// routing rules.
type NotificationConfig struct {
	OwnerID  string                     `json:"ownerId"`
	Channels map[string]ChannelSettings `json:"channels"`
	Rules    []NotificationRule         `json:"rules"`
}

// RuleFor returns the first rule matching eventType, or nil.
func (c *NotificationConfig) RuleFor(eventType string) *NotificationRule {
	if c == nil {
		return nil
	}
	for i := range c.Rules {
		if c.Rules[i].EventType == eventType {
			return &c.Rules[i]
		}
	}
	return nil
}
