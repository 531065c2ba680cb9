package mysql

import (
	"database/sql"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/v2"
)

// NewSessionStore creates the sessions table if necessary and returns an
// scs store backed by it.
func NewSessionStore(db *sql.DB) scs.Store {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			token CHAR(43) PRIMARY KEY,
			data BLOB NOT NULL,
			expiry TIMESTAMP(6) NOT NULL
		);`)

	db.Exec(`CREATE INDEX sessions_expiry_idx ON sessions (expiry);`)

	return mysqlstore.New(db)
}
