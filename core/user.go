package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AdminID is the id of the account that is seeded on first startup.
const AdminID = 1

// User is a registered account. Password is always a digest, never the
// plaintext. Admin accounts may create, edit and delete posts.
type User struct {
	ID       int
	Email    string
	Name     string
	Password string
	Admin    bool
}

type UserDB interface {
	GetUser(id int) (*User, error)
	GetUserByEmail(email string) (*User, error) // email must be normalized
	InsertUser(email, name, passwordDigest string, admin bool) (int, error)
	SetPassword(id int, passwordDigest string) error
	SetAdmin(id int, admin bool) error
}

// NormalizeEmail trims and lowercases an email address. Email uniqueness is
// case-insensitive, so this must happen before every lookup and every insert.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName title-cases a display name.
func NormalizeName(name string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(name))
}
