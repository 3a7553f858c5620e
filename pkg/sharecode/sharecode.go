// Package sharecode generates the short opaque codes embedded in referral
// share links.
package sharecode

import (
	"crypto/rand"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	length   = 12
)

// Generate returns a random 12-character base62 code. Uniqueness is
// enforced by the ticket store's unique index, not here; at 62^12 values a
// collision is a retry, not a design concern.
func Generate() (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
