package storage

import "github.com/google/uuid"

// Namespace for ids derived from non-UUID client ids. The web client
// historically minted workout log ids from Date.now(), so exports and ingest
// payloads carry ids like "1717241400000" rather than UUIDs.
var legacyIDNamespace = uuid.MustParse("b3a1f0d2-6c44-4c58-9e71-8a5d20c4f913")

// LogUUID maps a client-supplied log id onto the UUID key space. Proper UUIDs
// pass through unchanged; anything else hashes to a stable UUID, so the same
// client id always lands on the same row and feedback keyed by the original
// id still joins its workout log.
func LogUUID(id string) uuid.UUID {
	if u, err := uuid.Parse(id); err == nil {
		return u
	}
	return uuid.NewSHA1(legacyIDNamespace, []byte(id))
}
