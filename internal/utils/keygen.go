package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// GenerateToken generates a random token with the given prefix.
// Format: prefix_randomhex
// Example: cart_a1b2c3d4e5f6...
func GenerateToken(prefix string) (string, error) {
	b := make([]byte, 24) // 48 char hex
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b)), nil
}

// GenerateCartToken generates a cart session token: cart_xxx
func GenerateCartToken() (string, error) {
	return GenerateToken("cart")
}

// NewEventID returns a unique id for post-commit events.
func NewEventID() string {
	return uuid.NewString()
}

// ValidCartToken reports whether token looks like a token issued by
// GenerateCartToken.
func ValidCartToken(token string) bool {
	const prefix = "cart_"
	if len(token) != len(prefix)+48 || token[:len(prefix)] != prefix {
		return false
	}
	_, err := hex.DecodeString(token[len(prefix):])
	return err == nil
}
