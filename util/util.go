package util

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString32 returns a random string with 32 bytes of entropy.
func RandomString32() (string, error) {
	var buf = make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
