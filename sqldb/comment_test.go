package sqldb

import (
	"testing"

	"github.com/mkuhn/scribble/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {

	db := openTestDB(t)
	userDB := NewUserDB(db)
	postDB := NewPostDB(db)
	commentDB := NewCommentDB(db)

	uid, err := userDB.InsertUser("eve@example.com", "Eve", "digest", false)
	require.NoError(t, err)

	pid, err := postDB.InsertPost(newTestPost(uid, "Commented"))
	require.NoError(t, err)

	_, err = commentDB.InsertComment(&core.Comment{AuthorID: uid, PostID: pid, Text: "first", TsCreated: 10})
	require.NoError(t, err)
	_, err = commentDB.InsertComment(&core.Comment{AuthorID: uid, PostID: pid, Text: "second", TsCreated: 20})
	require.NoError(t, err)

	comments, err := commentDB.GetCommentsByPost(pid)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// oldest first
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "Eve", comments[0].AuthorName)
	assert.Equal(t, int64(10), comments[0].TsCreated)
	assert.Equal(t, "second", comments[1].Text)

	n, err := commentDB.CountCommentsByPost(pid)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	empty, err := commentDB.GetCommentsByPost(999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
