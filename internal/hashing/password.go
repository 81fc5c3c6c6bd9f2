// Package hashing derives and verifies salted password hashes
package hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Key stretching parameters. Changing them invalidates every stored hash.
const (
	SaltBytes  = 16
	Iterations = 10000
	KeyBytes   = 32
)

// GenerateSalt returns SaltBytes of cryptographically random data
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword derives the storage encoding of password under salt
func HashPassword(password string, salt []byte) string {
	key := pbkdf2.Key([]byte(password), salt, Iterations, KeyBytes, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

// EncodeSalt returns the storage encoding of a salt
func EncodeSalt(salt []byte) string {
	return base64.StdEncoding.EncodeToString(salt)
}

// DecodeSalt parses a stored salt
func DecodeSalt(encoded string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	return salt, nil
}

// NewHash generates a fresh salt and hashes password with it.
// Both values are returned in their storage encoding.
func NewHash(password string) (hash, salt string, err error) {
	raw, err := GenerateSalt()
	if err != nil {
		return "", "", err
	}
	return HashPassword(password, raw), EncodeSalt(raw), nil
}

// Verify reports whether password matches the stored hash and salt
func Verify(password, storedHash, storedSalt string) (bool, error) {
	salt, err := DecodeSalt(storedSalt)
	if err != nil {
		return false, err
	}
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1, nil
}
