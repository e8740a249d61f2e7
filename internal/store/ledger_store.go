// internal/store/ledger_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"keyexpiry-workers/internal/reminder"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// LedgerStore is the append-only reminder ledger. The table carries a
// unique index on (key_id, threshold_days); that constraint, not the
// HasReminded pre-check, is what makes concurrent runs safe.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// HasReminded reports whether a reminder for the pair was already sent.
func (s *LedgerStore) HasReminded(ctx context.Context, keyID string, thresholdDays int) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM reminder_records
			WHERE key_id = $1 AND threshold_days = $2
		)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, keyID, thresholdDays).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// RecordReminder appends a ledger row. A duplicate insert surfaces as
// reminder.ErrAlreadyReminded.
func (s *LedgerStore) RecordReminder(ctx context.Context, keyID string, thresholdDays int, sentAt time.Time) error {
	const query = `
		INSERT INTO reminder_records (key_id, threshold_days, sent_at)
		VALUES ($1, $2, $3)`

	_, err := s.db.ExecContext(ctx, query, keyID, thresholdDays, sentAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return reminder.ErrAlreadyReminded
		}
		return err
	}
	return nil
}
