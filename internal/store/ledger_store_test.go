// internal/store/ledger_store_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"keyexpiry-workers/internal/reminder"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerStore_HasReminded(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
	}{
		{name: "already reminded", exists: true},
		{name: "not yet reminded", exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT EXISTS`).
				WithArgs("key-1", 7).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			got, err := NewLedgerStore(db).HasReminded(context.Background(), "key-1", 7)
			require.NoError(t, err)
			assert.Equal(t, tt.exists, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLedgerStore_RecordReminder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sentAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO reminder_records`).
		WithArgs("key-1", 7, sentAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewLedgerStore(db).RecordReminder(context.Background(), "key-1", 7, sentAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_RecordReminderDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO reminder_records`).
		WithArgs("key-1", 7, sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "reminder_records_key_threshold_idx"})

	err = NewLedgerStore(db).RecordReminder(context.Background(), "key-1", 7, time.Now())
	assert.ErrorIs(t, err, reminder.ErrAlreadyReminded)
}

func TestLedgerStore_RecordReminderOtherError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO reminder_records`).
		WithArgs("key-1", 7, sqlmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err = NewLedgerStore(db).RecordReminder(context.Background(), "key-1", 7, time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, reminder.ErrAlreadyReminded)
}
