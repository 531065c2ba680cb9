package sqldb

import (
	"database/sql"

	"github.com/mkuhn/scribble/core"
)

type CommentDB struct {
	*sql.DB
	countByPost *sql.Stmt
	getByPost   *sql.Stmt
	insert      *sql.Stmt
}

func NewCommentDB(db *sql.DB) *CommentDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			author_id INTEGER NOT NULL REFERENCES users(id),
			post_id INTEGER NOT NULL REFERENCES blog_posts(id),
			text TEXT NOT NULL,
			ts_created INTEGER NOT NULL
		);`)

	var commentDB = &CommentDB{}
	commentDB.DB = db
	commentDB.countByPost = mustPrepare(db, "SELECT COUNT(1) FROM comments WHERE post_id = ?")
	commentDB.getByPost = mustPrepare(db, `
		SELECT c.id, c.author_id, u.name, c.post_id, c.text, c.ts_created
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ? ORDER BY c.id`)
	commentDB.insert = mustPrepare(db, "INSERT INTO comments (author_id, post_id, text, ts_created) VALUES (?, ?, ?, ?)")
	return commentDB
}

func (db *CommentDB) CountCommentsByPost(postID int) (int, error) {
	var n int
	err := db.countByPost.QueryRow(postID).Scan(&n)
	return n, err
}

func (db *CommentDB) GetCommentsByPost(postID int) ([]*core.Comment, error) {

	rows, err := db.getByPost.Query(postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []*core.Comment{}

	for rows.Next() {
		var c = &core.Comment{}
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.AuthorName, &c.PostID, &c.Text, &c.TsCreated); err != nil {
			return nil, err
		}
		all = append(all, c)
	}

	return all, rows.Err()
}

func (db *CommentDB) InsertComment(c *core.Comment) (int, error) {
	res, err := db.insert.Exec(c.AuthorID, c.PostID, c.Text, c.TsCreated)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}
