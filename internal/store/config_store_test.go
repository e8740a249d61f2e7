// internal/store/config_store_test.go
package store

import (
	"context"
	"testing"

	"keyexpiry-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_GetNotificationConfig(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	channels := []byte(`{
		"system": {"enabled": true},
		"email":  {"enabled": true, "address": "owner@example.com"}
	}`)
	rules := []byte(`[
		{"eventType": "EXPIRATION_WARNING", "enabled": true, "channels": ["system", "email"]}
	]`)

	mock.ExpectQuery(`SELECT channels, rules`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"channels", "rules"}).AddRow(channels, rules))

	cfg, err := NewConfigStore(db).GetNotificationConfig(context.Background(), "owner-1")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "owner-1", cfg.OwnerID)
	assert.Equal(t, "owner@example.com", cfg.Channels[models.ChannelEmail].Address)

	rule := cfg.RuleFor(models.EventExpirationWarning)
	require.NotNil(t, rule)
	assert.True(t, rule.Enabled)
	assert.Equal(t, []string{models.ChannelSystem, models.ChannelEmail}, rule.Channels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigStore_NoRowIsNotAnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT channels, rules`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"channels", "rules"}))

	cfg, err := NewConfigStore(db).GetNotificationConfig(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestConfigStore_SchemaInvalidRowIsRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// rule is missing the required channels list
	channels := []byte(`{"system": {"enabled": true}}`)
	rules := []byte(`[{"eventType": "EXPIRATION_WARNING", "enabled": true}]`)

	mock.ExpectQuery(`SELECT channels, rules`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"channels", "rules"}).AddRow(channels, rules))

	cfg, err := NewConfigStore(db).GetNotificationConfig(context.Background(), "owner-1")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "owner-1")
}

func TestConfigStore_MalformedJSONIsRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT channels, rules`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"channels", "rules"}).
			AddRow([]byte(`{"system":`), []byte(`[]`)))

	cfg, err := NewConfigStore(db).GetNotificationConfig(context.Background(), "owner-1")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
