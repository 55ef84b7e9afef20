package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// GenerateLicenseKey derives an opaque license key from the hardware id and
// the current high-resolution timestamp. The random nonce keeps keys unique
// when no hardware id is supplied (quota-only licenses); the store's unique
// index remains the authoritative guard.
func GenerateLicenseKey(hardwareID string) (string, error) {
	nonce := make([]byte, 8)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate key nonce: %w", err)
	}

	raw := fmt.Sprintf("%s|%d|%s", hardwareID, time.Now().UnixNano(), hex.EncodeToString(nonce))
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:]), nil
}

// GenerateID creates a prefixed record id.
func GenerateID(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return fmt.Sprintf("%s-%s", prefix, id)
}

// HashPassword hashes an admin password with bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword verifies a password against its bcrypt hash.
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
