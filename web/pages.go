package web

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

var aboutTmpl = tmpl(`
	<h1>About</h1>
	{{ markdown .Site.About }}`)

var contactTmpl = tmpl(`
	<h1>Contact</h1>
	{{ markdown .Site.Contact }}`)

func about(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	return aboutTmpl.Execute(w, ctx)
}

func contact(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	return contactTmpl.Execute(w, ctx)
}
