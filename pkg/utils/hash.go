package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// ChecksumSHA256 returns the hex-encoded SHA-256 checksum of the provided data.
// Used to detect whether persisted file content matches what the client holds.
func ChecksumSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
