package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"lukechampine.com/blake3"
)

// Key derives a cache key from prefix and the JSON encoding of parts:
// prefix:blake3(parts...).
func Key(prefix string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// Callers pass plain strings, numbers and slices of them.
		panic(fmt.Sprintf("cache key parts: %v", err))
	}
	return prefix + ":" + Hash(data)
}

// Hash computes a BLAKE3-256 hash of data as 64 hex characters.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashReader streams r through BLAKE3-256 and returns the hex digest, the
// same value Hash gives for r's full content.
func HashReader(r io.Reader) (string, error) {
	h := blake3.New(32, nil)
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
