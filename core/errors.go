package core

import "errors"

// ErrNotFound is returned by id-based lookups for rows that don't exist.
// The web middleware maps it to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update would violate a
// uniqueness constraint (duplicate email, duplicate post title). Handlers
// recover from it locally by re-rendering the form with a notification.
var ErrConflict = errors.New("already exists")
