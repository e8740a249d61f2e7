// internal/channels/system.go
package channels

import (
	"context"

	"keyexpiry-workers/internal/models"
)

// SystemSender is the always-available in-app channel. The dispatcher
// already persists the notification row, and that row is the feed entry
// itself, so delivery has nothing left to do.
type SystemSender struct{}

func NewSystemSender() *SystemSender {
	return &SystemSender{}
}

func (s *SystemSender) Kind() string { return models.ChannelSystem }

func (s *SystemSender) Send(_ context.Context, _ models.ChannelSettings, _ *models.Notification) error {
	return nil
}
