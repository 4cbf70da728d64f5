package utils

import (
	"crypto/rand"
	"math/big"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateShareToken returns an opaque random token for public event
// links. Uses crypto/rand so tokens are not guessable from each other.
func GenerateShareToken(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the process is unusable anyway
			panic(err)
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}
