// internal/store/notification_store_test.go
package store

import (
	"context"
	"testing"
	"time"

	"keyexpiry-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	n := &models.Notification{
		OwnerID:   "owner-1",
		EventType: models.EventExpirationWarning,
		Title:     "API key prod expires in 3 days",
		Message:   "Your API key prod expires in 3 days.",
		Data:      map[string]interface{}{"daysRemaining": 3},
		Channel:   models.ChannelEmail,
		Status:    models.StatusPending,
		CreatedAt: createdAt,
	}

	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(sqlmock.AnyArg(), "owner-1", models.EventExpirationWarning, n.Title, n.Message,
			sqlmock.AnyArg(), models.ChannelEmail, models.StatusPending, createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := NewNotificationStore(db).Create(context.Background(), n)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, n.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sentAt := time.Date(2025, 6, 15, 12, 0, 1, 0, time.UTC)
	mock.ExpectExec(`UPDATE notifications`).
		WithArgs("n1", models.StatusSent, "", &sentAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewNotificationStore(db).UpdateStatus(context.Background(), "n1", models.StatusSent, "", &sentAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_ListRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	sentAt := createdAt.Add(time.Second)
	cols := []string{"id", "owner_id", "event_type", "title", "message", "data", "channel", "status", "error", "sent_at", "created_at", "read_at"}

	mock.ExpectQuery(`SELECT .* FROM notifications`).
		WithArgs("owner-1", 25).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("n2", "owner-1", models.EventExpirationWarning, "t2", "m2", nil,
				models.ChannelEmail, models.StatusFailed, "ses throttled", nil, createdAt.Add(time.Minute), nil).
			AddRow("n1", "owner-1", models.EventExpirationWarning, "t1", "m1", []byte(`{"daysRemaining":3}`),
				models.ChannelSystem, models.StatusSent, "", sentAt, createdAt, nil))

	// limit 0 falls back to the default page size
	notifications, err := NewNotificationStore(db).ListRecent(context.Background(), "owner-1", 0)
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	assert.Equal(t, "ses throttled", notifications[0].Error)
	assert.Nil(t, notifications[0].SentAt)
	assert.Nil(t, notifications[0].Data)

	require.NotNil(t, notifications[1].SentAt)
	assert.True(t, notifications[1].SentAt.Equal(sentAt))
	assert.Equal(t, float64(3), notifications[1].Data["daysRemaining"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_MarkRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE notifications`).
		WithArgs("n1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewNotificationStore(db).MarkRead(context.Background(), "owner-1", "n1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_MarkReadUnknownID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE notifications`).
		WithArgs("missing", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewNotificationStore(db).MarkRead(context.Background(), "owner-1", "missing")
	assert.Error(t, err)
}
