// Package web contains the HTTP surface: routing, the per-request context
// and the server-rendered pages.
package web

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/mkuhn/scribble/core"
)

// Site holds the display configuration, usually loaded from an ini file.
type Site struct {
	Name    string
	Tagline string
	About   string
	Contact string
	PerPage int
}

type context struct {
	*core.Request
	Site Site
	db   *core.CoreDB
}

// middleware builds the request context and guards admin-only handlers.
// A rejected request gets a 403 before the handler runs, so a forbidden
// operation can have no side effect.
func middleware(db *core.CoreDB, site Site, requireAdmin bool, f func(http.ResponseWriter, *http.Request, *context, httprouter.Params) error) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var ctx = &context{
			Request: db.NewRequest(w, req),
			Site:    site,
			db:      db,
		}
		defer ctx.Cleanup()

		if requireAdmin && !ctx.IsAdmin() {
			ctx.Forbidden()
			return
		}

		if err := f(w, req, ctx, params); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				ctx.NotFound()
				return
			}
			// probably no template has been executed, so execute error template
			errorTmpl.Execute(w, struct {
				*context
				Err error
			}{
				context: ctx,
				Err:     err,
			})
		}
	}
}

var errorTmpl = tmpl(`
	<div class="alert alert-danger" role="alert">
		{{ .Err }}
	</div>`)

func NewRouter(db *core.CoreDB, site Site) http.Handler {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	// public
	router.GET("/", middleware(db, site, false, index))
	GETAndPOST("/register", middleware(db, site, false, register))
	GETAndPOST("/login", middleware(db, site, false, login))
	router.GET("/logout", middleware(db, site, false, logout))
	GETAndPOST("/post/:id", middleware(db, site, false, showPost))
	router.GET("/author/:id", middleware(db, site, false, authorPosts))
	router.GET("/about", middleware(db, site, false, about))
	router.GET("/contact", middleware(db, site, false, contact))

	// admin
	GETAndPOST("/new-post", middleware(db, site, true, newPost))
	GETAndPOST("/edit-post/:id", middleware(db, site, true, editPost))
	router.GET("/delete/:id", middleware(db, site, true, deletePost))

	return router
}

func tmpl(text string) *template.Template {
	t := template.Must(baseTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var baseTmpl = template.Must(template.New("base").Funcs(
	template.FuncMap{
		"excerpt":  excerpt,
		"markdown": renderMarkdown,
	},
).Parse(`<!DOCTYPE html>
<html lang="en">
	<head>
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
		<title>{{ .Site.Name }}</title>
		<link rel="stylesheet" type="text/css" href="https://cdn.jsdelivr.net/npm/bootstrap@4.6.2/dist/css/bootstrap.min.css">
	</head>
	<body>
		<nav class="navbar navbar-expand-md navbar-dark bg-dark">
			<a class="navbar-brand" href="/">{{ .Site.Name }}</a>
			<ul class="navbar-nav mr-auto">
				<li class="nav-item">
					<a class="nav-link" href="/">Home</a>
				</li>
				<li class="nav-item">
					<a class="nav-link" href="/about">About</a>
				</li>
				<li class="nav-item">
					<a class="nav-link" href="/contact">Contact</a>
				</li>
				{{ if .IsAdmin }}
					<li class="nav-item">
						<a class="nav-link" href="/new-post">New Post</a>
					</li>
				{{ end }}
			</ul>
			<ul class="navbar-nav">
				{{ if .LoggedIn }}
					<li class="nav-item">
						<a class="nav-link" href="/author/{{ .User.ID }}">{{ .User.Name }}</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="/logout">Logout</a>
					</li>
				{{ else }}
					<li class="nav-item">
						<a class="nav-link" href="/login">Login</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="/register">Register</a>
					</li>
				{{ end }}
			</ul>
		</nav>

		<div class="container pt-3">
			{{ .RenderNotifications }}
			{{ template "content" . }}
		</div>
	</body>
</html>`))
