package web

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/mkuhn/scribble/auth"
	"github.com/mkuhn/scribble/core"
)

var errMissingFields = errors.New("please fill in all fields")
var errEmailTaken = errors.New("this email is already registered, please use a different one")

var registerTmpl = tmpl(`<h1>Register</h1>
	<form method="post" style="max-width: 20rem; margin: auto;">
		<div class="form-group">
			<label>Name</label>
			<input type="text" class="form-control" name="name" value="{{ .Name }}" required autofocus>
		</div>
		<div class="form-group">
			<label>E-Mail</label>
			<input type="email" class="form-control" name="email" value="{{ .Email }}" required>
		</div>
		<div class="form-group">
			<label>Password</label>
			<input type="password" class="form-control" name="password" required>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="register">Register</button>
		</div>
	</form>`)

type registerData struct {
	*context
	Email string
	Name  string
}

func register(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	var email, name string

	if req.Method == http.MethodPost {

		email = core.NormalizeEmail(req.PostFormValue("email"))
		name = core.NormalizeName(req.PostFormValue("name"))
		password := req.PostFormValue("password")

		if email == "" || name == "" || password == "" {
			ctx.Danger(errMissingFields)
		} else {
			_, err := ctx.db.InsertUser(email, name, auth.HashPassword(password), false)
			switch {
			case err == nil:
				ctx.Success("Welcome %s, please log in.", name)
				ctx.SeeOther("/login")
				return nil
			case errors.Is(err, core.ErrConflict):
				ctx.Danger(errEmailTaken)
				// keep POST data
			default:
				return err
			}
		}
	}

	return registerTmpl.Execute(w, &registerData{
		context: ctx,
		Email:   email,
		Name:    name,
	})
}
