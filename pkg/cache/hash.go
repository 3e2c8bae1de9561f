package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of a canonical snapshot encoding.
// Equal snapshots give equal digests, so repeated runs over the same board
// land on the same declutter key.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digestKey returns "kind:<digest>" over the JSON encoding of parts. The
// parts are snapshot digests and option structs of plain numbers, which
// always encode.
func digestKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
