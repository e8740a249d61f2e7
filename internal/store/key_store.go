// internal/store/key_store.go
package store

import (
	"context"
	"database/sql"
	"time"

	"keyexpiry-workers/internal/models"
)

// KeyStore reads the api_keys table. The engine only ever sees the
// expiring projection; key CRUD lives in the dashboard API.
type KeyStore struct {
	db *sql.DB
}

func NewKeyStore(db *sql.DB) *KeyStore {
	return &KeyStore{db: db}
}

// FindExpiring returns keys whose deadline falls within [now, now+horizon],
// optionally scoped to one owner. Already-expired keys are never returned.
func (s *KeyStore) FindExpiring(ctx context.Context, now time.Time, horizon time.Duration, ownerID string) ([]models.APIKey, error) {
	const baseQuery = `
		SELECT id, owner_id, display_name, expires_at
		FROM api_keys
		WHERE expires_at IS NOT NULL
		  AND expires_at >= $1
		  AND expires_at <= $2`

	var (
		rows *sql.Rows
		err  error
	)
	if ownerID != "" {
		rows, err = s.db.QueryContext(ctx, baseQuery+` AND owner_id = $3 ORDER BY expires_at`, now, now.Add(horizon), ownerID)
	} else {
		rows, err = s.db.QueryContext(ctx, baseQuery+` ORDER BY expires_at`, now, now.Add(horizon))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.OwnerID, &k.DisplayName, &k.ExpiresAt); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
