package types

import (
	"github.com/google/uuid"
)

// NewDocumentUUID generates a UUIDv7 document identifier.
// Time-ordered IDs keep freshly authored documents clustered when the host
// stores them. Panics on clock regression (uuid.Must); acceptable for ID
// generation.
func NewDocumentUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ParseDocumentUUID validates a document uuid string.
// Rejects malformed UUIDs so invalid identifiers never enter a document.
func ParseDocumentUUID(s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// ValidUUID reports whether s parses as a UUID. Used by the validation
// engine, which reports the failure as an addressed error rather than
// propagating one.
func ValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
