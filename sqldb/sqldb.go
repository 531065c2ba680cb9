// Package sqldb implements the content repositories on database/sql with
// prepared statements. Each repository creates its table on construction.
package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/mkuhn/scribble/core"
)

func mustPrepare(db *sql.DB, query string) *sql.Stmt {
	stmt, err := db.Prepare(query)
	if err != nil {
		panic(fmt.Sprintf("error preparing %s: %v", query, err))
	}
	return stmt
}

// conflict translates uniqueness violations to core.ErrConflict so that
// handlers can tell them apart from real failures. Other errors pass through.
func conflict(err error) error {
	if err == nil {
		return nil
	}
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		if serr.Code == sqlite3.ErrConstraint {
			return core.ErrConflict
		}
		return err
	}
	if strings.Contains(err.Error(), "Duplicate entry") { // mysql
		return core.ErrConflict
	}
	return err
}
