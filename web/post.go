package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/mkuhn/scribble/core"
)

var errNeedLogin = errors.New("you need to login or register to comment")
var errEmptyComment = errors.New("your comment is empty")

var postTmpl = tmpl(`
	<h1>{{ .Post.Title }}</h1>
	<h4 class="text-muted">{{ .Post.Subtitle }}</h4>
	<p class="text-muted">
		by <a href="/author/{{ .Post.AuthorID }}">{{ .Post.AuthorName }}</a> on {{ .Post.Date }}
		{{ if .IsAdmin }}
			&middot; <a href="/edit-post/{{ .Post.ID }}">Edit</a>
			&middot; <a href="/delete/{{ .Post.ID }}" onclick="return confirm('Delete this post and its comments?');">Delete</a>
		{{ end }}
	</p>

	{{ with .Post.ImgURL }}
		<img class="img-fluid mb-3" src="{{ . }}" alt="">
	{{ end }}

	{{ markdown .Post.Body }}

	<hr>

	<h3>{{ len .Comments }} comments</h3>

	{{ range .Comments }}
		<div class="mb-3">
			<strong>{{ .AuthorName }}</strong>
			<small class="text-muted">{{ $.FormatDateTime .TsCreated }}</small>
			<p class="mb-0">{{ .Text }}</p>
		</div>
	{{ end }}

	{{ if .LoggedIn }}
		<form method="post">
			<div class="form-group">
				<textarea class="form-control" name="text" rows="3" placeholder="Your comment" required></textarea>
			</div>
			<button type="submit" class="btn btn-primary" name="comment">Comment</button>
		</form>
	{{ else }}
		<p><a href="/login">Login</a> or <a href="/register">register</a> to comment.</p>
	{{ end }}`)

type postData struct {
	*context
	Post     *core.Post
	Comments []*core.Comment
}

func showPost(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return core.ErrNotFound
	}

	post, err := ctx.db.GetPost(id)
	if err != nil {
		return err
	}

	if req.Method == http.MethodPost {

		if !ctx.LoggedIn() {
			ctx.Danger(errNeedLogin)
			ctx.SeeOther("/login")
			return nil
		}

		text := strings.TrimSpace(req.PostFormValue("text"))
		if text == "" {
			ctx.Danger(errEmptyComment)
		} else {
			_, err := ctx.db.InsertComment(&core.Comment{
				AuthorID:  ctx.User.ID,
				PostID:    post.ID,
				Text:      text,
				TsCreated: time.Now().Unix(),
			})
			if err != nil {
				return err
			}
			ctx.SeeOther("/post/%d", post.ID)
			return nil
		}
	}

	comments, err := ctx.db.GetCommentsByPost(post.ID)
	if err != nil {
		return err
	}

	return postTmpl.Execute(w, &postData{
		context:  ctx,
		Post:     post,
		Comments: comments,
	})
}
