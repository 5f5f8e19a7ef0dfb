package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Prefix returns the first n characters of SHA256Hex(input), or the whole
// hash when n exceeds its length. Used for log-safe identifiers.
func Prefix(input string, n int) string {
	full := SHA256Hex(input)
	if n > len(full) {
		return full
	}
	return full[:n]
}

// Key builds a namespaced cache key from the hash of input, so arbitrary
// URLs map to fixed-length keys.
func Key(namespace, input string) string {
	return namespace + ":" + SHA256Hex(input)
}
