package sqldb

import (
	"database/sql"
	"errors"

	"github.com/mkuhn/scribble/core"
)

type UserDB struct {
	*sql.DB
	get         *sql.Stmt
	getByEmail  *sql.Stmt
	insert      *sql.Stmt
	setAdmin    *sql.Stmt
	setPassword *sql.Stmt
}

func NewUserDB(db *sql.DB) *UserDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email varchar(100) NOT NULL,
			name varchar(100) NOT NULL,
			password varchar(256) NOT NULL,
			admin INTEGER NOT NULL DEFAULT 0,
			UNIQUE(email)
		);`)

	var userDB = &UserDB{}
	userDB.DB = db
	userDB.get = mustPrepare(db, "SELECT id, email, name, password, admin FROM users WHERE id = ? LIMIT 1")
	userDB.getByEmail = mustPrepare(db, "SELECT id, email, name, password, admin FROM users WHERE email = ? LIMIT 1")
	userDB.insert = mustPrepare(db, "INSERT INTO users (email, name, password, admin) VALUES (?, ?, ?, ?)")
	userDB.setAdmin = mustPrepare(db, "UPDATE users SET admin = ? WHERE id = ?")
	userDB.setPassword = mustPrepare(db, "UPDATE users SET password = ? WHERE id = ?")
	return userDB
}

func (db *UserDB) GetUser(id int) (*core.User, error) {
	var u = &core.User{}
	err := db.get.QueryRow(id).Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.Admin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (db *UserDB) GetUserByEmail(email string) (*core.User, error) {
	var u = &core.User{}
	err := db.getByEmail.QueryRow(email).Scan(&u.ID, &u.Email, &u.Name, &u.Password, &u.Admin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// InsertUser expects a normalized email and a hashed password.
// A duplicate email returns core.ErrConflict.
func (db *UserDB) InsertUser(email, name, passwordDigest string, admin bool) (int, error) {
	res, err := db.insert.Exec(email, name, passwordDigest, admin)
	if err != nil {
		return 0, conflict(err)
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (db *UserDB) SetAdmin(id int, admin bool) error {
	res, err := db.setAdmin.Exec(admin, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (db *UserDB) SetPassword(id int, passwordDigest string) error {
	res, err := db.setPassword.Exec(passwordDigest, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}
