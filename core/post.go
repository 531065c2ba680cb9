package core

// DateFormat is the display format stamped onto a post at creation time.
// The stored string is never recomputed.
const DateFormat = "January 2, 2006"

// Post is a blog entry. Body is CommonMark. AuthorName is joined from the
// users table for display and not persisted on the post itself.
type Post struct {
	ID         int
	AuthorID   int
	AuthorName string
	Title      string
	Subtitle   string
	Date       string
	Body       string
	ImgURL     string
}

type PostDB interface {
	GetPost(id int) (*Post, error)
	GetAllPosts(limit, offset int) ([]*Post, error)
	CountPosts() (int, error)
	GetPostsByAuthor(authorID int) ([]*Post, error)
	InsertPost(p *Post) (int, error)
	UpdatePost(p *Post) error
	DeletePost(id int) error // removes the post's comments in the same transaction
}
