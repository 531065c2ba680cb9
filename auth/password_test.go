package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheck(t *testing.T) {
	digest := HashPassword("alvin123")
	assert.True(t, strings.HasPrefix(digest, "pbkdf2:sha256:"))
	assert.NotContains(t, digest, "alvin123")
	assert.True(t, CheckPassword("alvin123", digest))
	assert.False(t, CheckPassword("alvin124", digest))
	assert.False(t, CheckPassword("", digest))
}

func TestSaltedDigestsDiffer(t *testing.T) {
	assert.NotEqual(t, HashPassword("same input"), HashPassword("same input"))
}

func TestMalformedDigests(t *testing.T) {
	for _, digest := range []string{
		"",
		"alvin123",
		"a$b$c",
		"pbkdf2:sha256$ab$cd",
		"pbkdf2:md5:1000$ab$cd",
		"pbkdf2:sha256:x$ab$cd",
		"pbkdf2:sha256:0$ab$cd",
		"pbkdf2:sha256:1000$zz$cd",
		"pbkdf2:sha256:1000$ab$zz",
		"pbkdf2:sha256:1000$ab$",
	} {
		assert.False(t, CheckPassword("alvin123", digest), "digest %q must not verify", digest)
	}
}
