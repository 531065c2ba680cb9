package sqldb

import (
	"database/sql"
	"errors"

	"github.com/mkuhn/scribble/core"
)

const selectPost = `
	SELECT p.id, p.author_id, u.name, p.title, p.subtitle, p.date, p.body, p.img_url
	FROM blog_posts p JOIN users u ON u.id = p.author_id`

type PostDB struct {
	*sql.DB
	count       *sql.Stmt
	get         *sql.Stmt
	getAll      *sql.Stmt
	getByAuthor *sql.Stmt
	insert      *sql.Stmt
	update      *sql.Stmt
}

func NewPostDB(db *sql.DB) *PostDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS blog_posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			author_id INTEGER NOT NULL REFERENCES users(id),
			title varchar(250) NOT NULL,
			subtitle varchar(250) NOT NULL,
			date varchar(250) NOT NULL,
			body TEXT NOT NULL,
			img_url varchar(250) NOT NULL,
			UNIQUE(title)
		);`)

	var postDB = &PostDB{}
	postDB.DB = db
	postDB.count = mustPrepare(db, "SELECT COUNT(1) FROM blog_posts")
	postDB.get = mustPrepare(db, selectPost+" WHERE p.id = ? LIMIT 1")
	postDB.getAll = mustPrepare(db, selectPost+" ORDER BY p.id DESC LIMIT ? OFFSET ?")
	postDB.getByAuthor = mustPrepare(db, selectPost+" WHERE p.author_id = ? ORDER BY p.id DESC")
	postDB.insert = mustPrepare(db, "INSERT INTO blog_posts (author_id, title, subtitle, date, body, img_url) VALUES (?, ?, ?, ?, ?, ?)")
	postDB.update = mustPrepare(db, "UPDATE blog_posts SET title = ?, subtitle = ?, body = ?, img_url = ? WHERE id = ?")
	return postDB
}

func (db *PostDB) CountPosts() (int, error) {
	var n int
	err := db.count.QueryRow().Scan(&n)
	return n, err
}

func (db *PostDB) GetPost(id int) (*core.Post, error) {
	var p = &core.Post{}
	err := db.get.QueryRow(id).Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImgURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (db *PostDB) GetAllPosts(limit, offset int) ([]*core.Post, error) {
	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

func (db *PostDB) GetPostsByAuthor(authorID int) ([]*core.Post, error) {
	rows, err := db.getByAuthor.Query(authorID)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]*core.Post, error) {

	defer rows.Close()

	var all = []*core.Post{}

	for rows.Next() {
		var p = &core.Post{}
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImgURL); err != nil {
			return nil, err
		}
		all = append(all, p)
	}

	return all, rows.Err()
}

// InsertPost returns core.ErrConflict if the title is already taken.
func (db *PostDB) InsertPost(p *core.Post) (int, error) {
	res, err := db.insert.Exec(p.AuthorID, p.Title, p.Subtitle, p.Date, p.Body, p.ImgURL)
	if err != nil {
		return 0, conflict(err)
	}
	id, err := res.LastInsertId()
	return int(id), err
}

// UpdatePost overwrites the mutable fields. The author stays unchanged.
func (db *PostDB) UpdatePost(p *core.Post) error {
	res, err := db.update.Exec(p.Title, p.Subtitle, p.Body, p.ImgURL, p.ID)
	if err != nil {
		return conflict(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeletePost removes a post and its comments in one transaction,
// so no orphaned comments can survive.
func (db *PostDB) DeletePost(id int) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM comments WHERE post_id = ?", id); err != nil {
		tx.Rollback()
		return err
	}

	res, err := tx.Exec("DELETE FROM blog_posts WHERE id = ?", id)
	if err != nil {
		tx.Rollback()
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return core.ErrNotFound
	}

	return tx.Commit()
}
