// internal/store/key_store_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyStore_FindExpiring(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	horizon := 8 * 24 * time.Hour
	expiresAt := now.Add(3 * 24 * time.Hour)

	mock.ExpectQuery(`SELECT id, owner_id, display_name, expires_at`).
		WithArgs(now, now.Add(horizon)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "display_name", "expires_at"}).
			AddRow("key-1", "owner-1", "prod relay key", expiresAt))

	keys, err := NewKeyStore(db).FindExpiring(context.Background(), now, horizon, "")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "key-1", keys[0].ID)
	assert.Equal(t, "prod relay key", keys[0].DisplayName)
	assert.True(t, keys[0].ExpiresAt.Equal(expiresAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyStore_FindExpiringScopedToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	horizon := 8 * 24 * time.Hour

	mock.ExpectQuery(`AND owner_id = \$3`).
		WithArgs(now, now.Add(horizon), "owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "display_name", "expires_at"}))

	keys, err := NewKeyStore(db).FindExpiring(context.Background(), now, horizon, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}
