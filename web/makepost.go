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

var errTitleTaken = errors.New("a post with this title already exists")

// shared by create and edit, like the original creation form
var makePostTmpl = tmpl(`
	{{ if .IsEdit }}
		<h1>Edit Post</h1>
	{{ else }}
		<h1>New Post</h1>
	{{ end }}

	<form method="post">
		<div class="form-group">
			<label>Title</label>
			<input type="text" class="form-control" name="title" value="{{ .Post.Title }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Subtitle</label>
			<input type="text" class="form-control" name="subtitle" value="{{ .Post.Subtitle }}" required>
		</div>
		<div class="form-group">
			<label>Image URL</label>
			<input type="text" class="form-control" name="img_url" value="{{ .Post.ImgURL }}" required>
		</div>
		<div class="form-group">
			<label>Body (CommonMark)</label>
			<textarea class="form-control" name="body" rows="12" required>{{ .Post.Body }}</textarea>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="save">Save</button>
		</div>
	</form>`)

type makePostData struct {
	*context
	IsEdit bool
	Post   *core.Post
}

func readPostForm(req *http.Request, post *core.Post) error {
	post.Title = strings.TrimSpace(req.PostFormValue("title"))
	post.Subtitle = strings.TrimSpace(req.PostFormValue("subtitle"))
	post.ImgURL = strings.TrimSpace(req.PostFormValue("img_url"))
	post.Body = strings.TrimSpace(req.PostFormValue("body"))
	if post.Title == "" || post.Subtitle == "" || post.ImgURL == "" || post.Body == "" {
		return errMissingFields
	}
	return nil
}

func newPost(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	var post = &core.Post{}

	if req.Method == http.MethodPost {
		if err := readPostForm(req, post); err != nil {
			ctx.Danger(err)
		} else {
			post.AuthorID = ctx.User.ID
			post.Date = time.Now().Format(core.DateFormat) // stamped once, never recomputed
			_, err := ctx.db.InsertPost(post)
			switch {
			case err == nil:
				ctx.Success("Post %q created", post.Title)
				ctx.SeeOther("/")
				return nil
			case errors.Is(err, core.ErrConflict):
				ctx.Danger(errTitleTaken)
				// keep POST data
			default:
				return err
			}
		}
	}

	return makePostTmpl.Execute(w, &makePostData{
		context: ctx,
		IsEdit:  false,
		Post:    post,
	})
}

func editPost(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return core.ErrNotFound
	}

	post, err := ctx.db.GetPost(id)
	if err != nil {
		return err
	}

	if req.Method == http.MethodPost {
		if err := readPostForm(req, post); err != nil {
			ctx.Danger(err)
		} else {
			// date and author stay as they were
			err := ctx.db.UpdatePost(post)
			switch {
			case err == nil:
				ctx.SeeOther("/post/%d", post.ID)
				return nil
			case errors.Is(err, core.ErrConflict):
				ctx.Danger(errTitleTaken)
			default:
				return err
			}
		}
	}

	return makePostTmpl.Execute(w, &makePostData{
		context: ctx,
		IsEdit:  true,
		Post:    post,
	})
}
