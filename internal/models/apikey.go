// internal/models/apikey.go
package models

import "time"

// APIKey is the read-only projection of a proxy API key that the
// expiration engine consumes. It is produced by the key store and
// never mutated within a scan.
type APIKey struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	DisplayName string    `json:"displayName"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
