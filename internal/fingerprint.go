package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const fingerprintLength = 32

// Fingerprint derives the rate-limit identifier from client-reported
// environment signals. No network address is available to a client-side
// caller, so the identifier is spoofable by construction; it throttles
// honest retry loops, not determined attackers.
func Fingerprint(userAgent, screenResolution, timezone, locale string) string {
	var b strings.Builder
	b.WriteString(userAgent)
	b.WriteByte(':')
	b.WriteString(screenResolution)
	b.WriteByte(':')
	b.WriteString(timezone)
	b.WriteByte(':')
	b.WriteString(locale)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}
