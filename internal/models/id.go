package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewReportID creates a best-effort unique report ID in the format:
//
//	err_{unix_nano}_{12_hex_chars}
//
// The 12 hex characters are derived from 6 cryptographically random bytes,
// giving 48 bits of randomness to avoid collisions at the same nanosecond.
// If crypto/rand fails, the ID omits the random suffix and relies on the
// nanosecond timestamp alone (acceptable for client-side error volume).
func NewReportID() string {
	timestamp := time.Now().UnixNano()

	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("err_%d", timestamp)
	}

	return fmt.Sprintf("err_%d_%s", timestamp, hex.EncodeToString(b[:]))
}
