// Package errors provides standardized error handling for the
// expiration-reminder engine.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeKeyScanFailed        ErrorCode = "KEY_SCAN_FAILED"
	ErrCodeSettingsLookupFailed ErrorCode = "SETTINGS_LOOKUP_FAILED"
	ErrCodeConfigLookupFailed   ErrorCode = "CONFIG_LOOKUP_FAILED"
	ErrCodeConfigInvalid        ErrorCode = "CONFIG_INVALID"

	ErrCodeLedgerLookupFailed ErrorCode = "LEDGER_LOOKUP_FAILED"
	ErrCodeLedgerWriteFailed  ErrorCode = "LEDGER_WRITE_FAILED"

	ErrCodeNotificationCreateFailed ErrorCode = "NOTIFICATION_CREATE_FAILED"
	ErrCodeChannelSendFailed        ErrorCode = "CHANNEL_SEND_FAILED"
	ErrCodeChannelSendTimeout       ErrorCode = "CHANNEL_SEND_TIMEOUT"
	ErrCodeAllChannelsFailed        ErrorCode = "ALL_CHANNELS_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewSettingsLookupFailedError creates a retryable settings read error.
func NewSettingsLookupFailedError(ownerID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSettingsLookupFailed,
		Message:   "Reminder settings lookup failed",
		Details:   fmt.Sprintf("ownerId: %s, error: %s", ownerID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError creates a non-retryable notification config error.
func NewConfigInvalidError(ownerID, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Notification config failed schema validation",
		Details:   fmt.Sprintf("ownerId: %s, %s", ownerID, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLedgerLookupFailedError creates a retryable ledger read error.
func NewLedgerLookupFailedError(keyID string, threshold int, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLedgerLookupFailed,
		Message:   "Reminder ledger lookup failed",
		Details:   fmt.Sprintf("keyId: %s, threshold: %d, error: %s", keyID, threshold, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLedgerWriteFailedError creates a retryable ledger write error.
func NewLedgerWriteFailedError(keyID string, threshold int, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLedgerWriteFailed,
		Message:   "Reminder ledger write failed",
		Details:   fmt.Sprintf("keyId: %s, threshold: %d, error: %s", keyID, threshold, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewChannelSendFailedError creates a retryable channel delivery error.
func NewChannelSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeChannelSendFailed,
		Message:   "Channel delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAllChannelsFailedError creates a retryable error for a dispatch
// where no channel attempt succeeded.
func NewAllChannelsFailedError(eventType string, attempted int) *StandardError {
	return &StandardError{
		Code:      ErrCodeAllChannelsFailed,
		Message:   "All channel attempts failed",
		Details:   fmt.Sprintf("eventType: %s, channels attempted: %d", eventType, attempted),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
