// Package auth turns plaintext passwords into salted one-way digests and
// verifies them. No other package handles plaintexts after registration.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength = 8
	iterations = 260000
)

// HashPassword derives a digest of the form "pbkdf2:sha256:260000$salt$key"
// with salt and key hex-encoded. Every call draws a fresh random salt, so
// hashing the same plaintext twice yields different digests.
func HashPassword(password string) string {
	var salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		panic(err) // crypto/rand does not fail on a sane system
	}
	var key = pbkdf2.Key([]byte(password), salt, iterations, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", iterations, hex.EncodeToString(salt), hex.EncodeToString(key))
}

// CheckPassword reports whether password matches the digest. The iteration
// count is taken from the digest, so old digests keep verifying after the
// default cost changes. Malformed digests verify as false, never as an error.
func CheckPassword(password, digest string) bool {

	parts := strings.Split(digest, "$")
	if len(parts) != 3 {
		return false
	}

	method := strings.Split(parts[0], ":")
	if len(method) != 3 || method[0] != "pbkdf2" || method[1] != "sha256" {
		return false
	}
	iter, err := strconv.Atoi(method[2])
	if err != nil || iter < 1 {
		return false
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}

	var got = pbkdf2.Key([]byte(password), salt, iter, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
