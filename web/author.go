package web

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/mkuhn/scribble/core"
)

var authorTmpl = tmpl(`
	<h1>Posts by {{ .Author.Name }}</h1>

	{{ range .Posts }}
		<div class="mb-4">
			<h2><a href="/post/{{ .ID }}">{{ .Title }}</a></h2>
			<h5 class="text-muted">{{ .Subtitle }}</h5>
			<p class="text-muted">{{ .Date }}</p>
			<p>{{ excerpt .Body }}</p>
		</div>
	{{ else }}
		<p>{{ .Author.Name }} has not posted anything yet.</p>
	{{ end }}`)

type authorData struct {
	*context
	Author *core.User
	Posts  []*core.Post
}

func authorPosts(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return core.ErrNotFound
	}

	author, err := ctx.db.GetUser(id)
	if err != nil {
		return err
	}

	posts, err := ctx.db.GetPostsByAuthor(author.ID)
	if err != nil {
		return err
	}

	return authorTmpl.Execute(w, &authorData{
		context: ctx,
		Author:  author,
		Posts:   posts,
	})
}
