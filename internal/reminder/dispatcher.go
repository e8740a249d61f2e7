// internal/reminder/dispatcher.go
package reminder

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "keyexpiry-workers/internal/common/errors"
	"keyexpiry-workers/internal/common/logger"
	"keyexpiry-workers/internal/common/metrics"
	"keyexpiry-workers/internal/models"

	"github.com/google/uuid"
)

// DispatchResult is the outcome of one channel attempt.
type DispatchResult struct {
	Channel string
	Success bool
	Error   string
}

// Dispatcher is the contract the orchestrator depends on; tests
// substitute a mock.
type Dispatcher interface {
	Dispatch(ctx context.Context, ownerID, eventType, title, message string, data map[string]interface{}) ([]DispatchResult, error)
}

// NotificationDispatcher fans one logical event out to the owner's
// resolved channels as independent delivery attempts. Every attempt
// gets its own notification row, created pending before the send and
// finalized after; one channel's failure never blocks another's attempt.
type NotificationDispatcher struct {
	resolver      *Resolver
	notifications NotificationStore
	senders       map[string]ChannelSender
	clock         Clock
	logger        logger.Logger
}

func NewNotificationDispatcher(resolver *Resolver, notifications NotificationStore, clock Clock, log logger.Logger, senders ...ChannelSender) *NotificationDispatcher {
	byKind := make(map[string]ChannelSender, len(senders))
	for _, s := range senders {
		if s != nil {
			byKind[s.Kind()] = s
		}
	}
	return &NotificationDispatcher{
		resolver:      resolver,
		notifications: notifications,
		senders:       byKind,
		clock:         clock,
		logger:        log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Dispatch resolves channels and attempts each independently. It
// returns a non-nil error only when every attempted channel failed; an
// empty resolution is a no-op, not an error.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, ownerID, eventType, title, message string, data map[string]interface{}) ([]DispatchResult, error) {
	resolved, err := d.resolver.Resolve(ctx, ownerID, eventType)
	if err != nil {
		return nil, fmt.Errorf("resolve channels for %s: %w", ownerID, err)
	}
	if len(resolved) == 0 {
		return nil, nil
	}

	// Deterministic attempt order keeps logs and tests stable.
	channels := make([]string, 0, len(resolved))
	for channel := range resolved {
		channels = append(channels, channel)
	}
	sort.Strings(channels)

	results := make([]DispatchResult, 0, len(channels))
	succeeded := 0
	for _, channel := range channels {
		result := d.attempt(ctx, channel, resolved[channel], ownerID, eventType, title, message, data)
		if result.Success {
			succeeded++
		}
		results = append(results, result)
	}

	if succeeded == 0 {
		return results, apperrors.NewAllChannelsFailedError(eventType, len(channels))
	}
	return results, nil
}

func (d *NotificationDispatcher) attempt(ctx context.Context, channel string, settings models.ChannelSettings, ownerID, eventType, title, message string, data map[string]interface{}) DispatchResult {
	n := &models.Notification{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		EventType: eventType,
		Title:     title,
		Message:   message,
		Data:      data,
		Channel:   channel,
		Status:    models.StatusPending,
		CreatedAt: d.clock.Now(),
	}

	id, err := d.notifications.Create(ctx, n)
	if err != nil {
		d.logger.Error("notification row create failed", map[string]interface{}{
			"ownerId": ownerID,
			"channel": channel,
			"error":   err.Error(),
		})
		metrics.ChannelSends.WithLabelValues(channel, models.StatusFailed).Inc()
		return DispatchResult{Channel: channel, Error: err.Error()}
	}

	sender, ok := d.senders[channel]
	if !ok {
		errMsg := fmt.Sprintf("no sender registered for channel %s", channel)
		d.finalize(ctx, id, models.StatusFailed, errMsg, nil)
		metrics.ChannelSends.WithLabelValues(channel, models.StatusFailed).Inc()
		return DispatchResult{Channel: channel, Error: errMsg}
	}

	if err := sender.Send(ctx, settings, n); err != nil {
		// Only the string summary is persisted; transport internals
		// stay out of the table.
		d.logger.Warn("channel send failed", map[string]interface{}{
			"ownerId": ownerID,
			"channel": channel,
			"error":   err.Error(),
		})
		d.finalize(ctx, id, models.StatusFailed, err.Error(), nil)
		metrics.ChannelSends.WithLabelValues(channel, models.StatusFailed).Inc()
		return DispatchResult{Channel: channel, Error: err.Error()}
	}

	sentAt := d.clock.Now()
	d.finalize(ctx, id, models.StatusSent, "", &sentAt)
	metrics.ChannelSends.WithLabelValues(channel, models.StatusSent).Inc()
	return DispatchResult{Channel: channel, Success: true}
}

// finalize moves a pending row to its terminal status. A failed update
// is logged, not surfaced: the delivery itself already happened or
// already failed, and the next scan does not depend on this row.
func (d *NotificationDispatcher) finalize(ctx context.Context, id, status, errMsg string, sentAt *time.Time) {
	if err := d.notifications.UpdateStatus(ctx, id, status, errMsg, sentAt); err != nil {
		d.logger.Error("notification status update failed", map[string]interface{}{
			"notificationId": id,
			"status":         status,
			"error":          err.Error(),
		})
	}
}
