// internal/store/notification_store.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"keyexpiry-workers/internal/models"

	"github.com/google/uuid"
)

// NotificationStore persists per-channel delivery attempts. Rows are
// created in pending state before the send so a crash mid-send still
// leaves an auditable record.
type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Create inserts a notification row and returns its id.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) (string, error) {
	const query = `
		INSERT INTO notifications (id, owner_id, event_type, title, message, data, channel, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	var data interface{}
	if len(n.Data) > 0 {
		bytes, err := json.Marshal(n.Data)
		if err != nil {
			return "", fmt.Errorf("marshal notification data: %w", err)
		}
		data = bytes
	}

	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.OwnerID, n.EventType, n.Title, n.Message, data, n.Channel, n.Status, n.CreatedAt)
	if err != nil {
		return "", err
	}
	return n.ID, nil
}

// UpdateStatus finalizes a pending row. errMsg is a string summary only;
// raw transport errors never land in the table.
func (s *NotificationStore) UpdateStatus(ctx context.Context, id, status, errMsg string, sentAt *time.Time) error {
	const query = `
		UPDATE notifications
		SET status = $2, error = NULLIF($3, ''), sent_at = $4
		WHERE id = $1`

	_, err := s.db.ExecContext(ctx, query, id, status, errMsg, sentAt)
	return err
}

// ListRecent returns the owner's latest notifications for the in-app feed.
func (s *NotificationStore) ListRecent(ctx context.Context, ownerID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	const query = `
		SELECT id, owner_id, event_type, title, message, data, channel, status, COALESCE(error, ''), sent_at, created_at, read_at
		FROM notifications
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead stamps read_at on an owner's notification.
func (s *NotificationStore) MarkRead(ctx context.Context, ownerID, id string) error {
	const query = `
		UPDATE notifications
		SET read_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND read_at IS NULL`

	res, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("notification %s not found for owner %s", id, ownerID)
	}
	return nil
}

func scanNotification(rows *sql.Rows) (models.Notification, error) {
	var (
		n       models.Notification
		dataRaw []byte
		sentAt  sql.NullTime
		readAt  sql.NullTime
	)
	err := rows.Scan(&n.ID, &n.OwnerID, &n.EventType, &n.Title, &n.Message, &dataRaw,
		&n.Channel, &n.Status, &n.Error, &sentAt, &n.CreatedAt, &readAt)
	if err != nil {
		return models.Notification{}, err
	}
	if len(dataRaw) > 0 {
		if err := json.Unmarshal(dataRaw, &n.Data); err != nil {
			return models.Notification{}, fmt.Errorf("decode notification data: %w", err)
		}
	}
	if sentAt.Valid {
		t := sentAt.Time
		n.SentAt = &t
	}
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	return n, nil
}
