package utils

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewUserID returns a fresh user identifier.
func NewUserID() string {
	return uuid.NewString()
}

// NewSessionToken returns a 40-char hex token. Session ids are bearer
// secrets, so they come from crypto/rand rather than the uuid generator.
func NewSessionToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
