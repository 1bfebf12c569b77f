package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString returns n random bytes as unpadded URL-safe base64,
// suitable for nonces and one-time tokens.
func RandomString(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
