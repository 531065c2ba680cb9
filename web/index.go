package web

import (
	"html/template"
	"math"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/mkuhn/scribble/core"
	"github.com/mkuhn/scribble/util"
)

var indexTmpl = tmpl(`
	<div class="py-4 mb-4 border-bottom">
		<h1>{{ .Site.Name }}</h1>
		<p class="lead text-muted">{{ .Site.Tagline }}</p>
	</div>

	{{ range .Posts }}
		<div class="mb-4">
			<h2><a href="/post/{{ .ID }}">{{ .Title }}</a></h2>
			<h5 class="text-muted">{{ .Subtitle }}</h5>
			<p class="text-muted">
				by <a href="/author/{{ .AuthorID }}">{{ .AuthorName }}</a> on {{ .Date }}
			</p>
			<p>{{ excerpt .Body }}</p>
		</div>
	{{ else }}
		<p>Nothing has been posted yet.</p>
	{{ end }}

	{{ with .PageLinks }}
		<nav>
			<ul class="pagination">
				{{ range . }}
					<li class="page-item">{{ . }}</li>
				{{ end }}
			</ul>
		</nav>
	{{ end }}`)

type indexData struct {
	*context
	Posts []*core.Post
	page  int
	pages int
}

func (data *indexData) PageLinks() []template.HTML {
	return util.PageLinks(
		data.page,
		data.pages,
		func(page int, name string) string {
			return `<a class="page-link" href="/?page=` + strconv.Itoa(page) + `">` + name + `</a>`
		},
		func(page int, name string) string {
			return `<span class="page-link">` + name + `</span>`
		},
	)
}

func index(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	count, err := ctx.db.CountPosts()
	if err != nil {
		return err
	}

	perPage := ctx.Site.PerPage
	if perPage < 1 {
		perPage = 10
	}

	pages := int(math.Ceil(float64(count) / float64(perPage)))
	if page > pages && pages > 0 {
		page = pages
	}

	posts, err := ctx.db.GetAllPosts(perPage, (page-1)*perPage)
	if err != nil {
		return err
	}

	return indexTmpl.Execute(w, &indexData{
		context: ctx,
		Posts:   posts,
		page:    page,
		pages:   pages,
	})
}
