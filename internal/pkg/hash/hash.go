package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashTextSha256 returns the hex sha256 of s.
func HashTextSha256(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// HashBytesSha256 returns the hex sha256 of data.
func HashBytesSha256(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
