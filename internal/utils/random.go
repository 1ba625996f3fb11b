package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomSuffix returns n random bytes hex-encoded, for collision-resistant
// file names.
func RandomSuffix(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
