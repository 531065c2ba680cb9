package core

// Comment belongs to a post and an authoring user. Comments are never
// edited or deleted individually, they only vanish with their post.
type Comment struct {
	ID         int
	AuthorID   int
	AuthorName string
	PostID     int
	Text       string
	TsCreated  int64
}

type CommentDB interface {
	GetCommentsByPost(postID int) ([]*Comment, error)
	CountCommentsByPost(postID int) (int, error)
	InsertComment(c *Comment) (int, error)
}
