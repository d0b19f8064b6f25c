package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds an artifact key of the form prefix:hash(parts...).
// Keyers feed it the document hash plus the parameter opts, so any
// parameter change yields a new key. The full 256-bit hash is kept;
// truncating would trade collision safety for nothing the backends
// need.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 digest of data. Callers hash the raw
// input document with it before asking a Keyer for artifact keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
