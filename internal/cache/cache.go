package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Repository stores rendered analysis results by id so the ledger of a
// completed run can be fetched again without recomputing it.
type Repository interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// Key derives a deterministic analysis id from the request payload, so
// identical requests share a cache entry.
func Key(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:16])
}
