package server

import (
	"crypto/rand"
	"strconv"
	"time"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newID returns an opaque identifier: caller prefix for debuggability,
// a millisecond timestamp component, and a random suffix. Uniqueness is
// probabilistic, not cryptographic.
func newID(prefix string) string {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		for i := range suffix {
			suffix[i] = idAlphabet[0]
		}
	}
	for i := range suffix {
		suffix[i] = idAlphabet[int(suffix[i])%len(idAlphabet)]
	}
	stamp := strconv.FormatInt(time.Now().UTC().UnixMilli(), 36)
	return prefix + "-" + stamp + "-" + string(suffix)
}
