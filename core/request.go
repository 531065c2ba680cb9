package core

import (
	"encoding/gob"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/mkuhn/scribble/auth"
	"golang.org/x/text/language"
)

// ErrLogin deliberately does not reveal whether the email or the password
// was wrong.
var ErrLogin = errors.New("wrong email or password")

type Notification struct {
	Message string
	Style   string
}

func init() {
	gob.Register([]Notification{}) // required for storing Notifications in a session
}

var langMatcher = language.NewMatcher([]language.Tag{
	language.AmericanEnglish, // default
	language.German,
})

var monthNamesDe = strings.NewReplacer(
	"January", "Januar",
	"February", "Februar",
	"March", "März",
	"May", "Mai",
	"June", "Juni",
	"July", "Juli",
	"October", "Oktober",
	"December", "Dezember",
)

// A Request is created once per HTTP request by CoreDB.NewRequest.
// If a user is logged in, User is set from the session.
type Request struct {
	db   *CoreDB // unexported, so it can't be accessed in templates
	User *User

	writer  http.ResponseWriter
	request *http.Request

	statusWritten bool
	language      language.Tag
}

func (c *CoreDB) NewRequest(w http.ResponseWriter, httpreq *http.Request) *Request {

	var req = &Request{
		db:      c,
		writer:  w,
		request: httpreq,
	}

	req.language, _ = language.MatchStrings(langMatcher, httpreq.Header.Get("Accept-Language"))

	if uid := c.SessionManager.GetInt(httpreq.Context(), "uid"); uid != 0 {
		u, err := c.GetUser(uid)
		if err == nil {
			req.User = u
		}
		// ignore errors, a stale session entry just means anonymous
	}

	return req
}

// Danger adds a "danger" notification to the session.
func (req *Request) Danger(err error) {
	req.addNotification(err.Error(), "danger")
}

// Success adds a "success" notification to the session.
func (req *Request) Success(format string, args ...interface{}) {
	req.addNotification(fmt.Sprintf(format, args...), "success")
}

// style should be a bootstrap alert style without the leading "alert-"
func (req *Request) addNotification(message, style string) {
	notifications, _ := req.db.SessionManager.Get(req.request.Context(), "notifications").([]Notification)
	notifications = append(notifications, Notification{message, style})
	req.db.SessionManager.Put(req.request.Context(), "notifications", notifications)
}

// RenderNotifications removes all notifications from the session and renders
// them into an HTML string. If the HTTP status had already been written, it
// does nothing.
func (req *Request) RenderNotifications() template.HTML {
	var r string
	if !req.statusWritten {
		notifications, _ := req.db.SessionManager.Pop(req.request.Context(), "notifications").([]Notification)
		for _, n := range notifications {
			r += `<div class="alert alert-` + n.Style + ` mt-3" role="alert">` + n.Message + `</div>`
		}
	}
	return template.HTML(r)
}

// Cleanup destroys the session (which means re-setting the cookie with zero
// lifetime) if the session has been modified and is empty now.
func (req *Request) Cleanup() {
	sessMan := req.db.SessionManager
	if sessMan.Status(req.request.Context()) == scs.Modified && len(sessMan.Keys(req.request.Context())) == 0 {
		_ = sessMan.Destroy(req.request.Context())
	}
}

// SeeOther sets the HTTP header to redirect to an URL.
func (req *Request) SeeOther(format string, args ...interface{}) {
	if req.statusWritten {
		return
	}
	var url = fmt.Sprintf(format, args...)
	http.Redirect(req.writer, req.request, url, http.StatusSeeOther)
	req.statusWritten = true
}

// Forbidden writes a 403 response. Nothing else must be written afterwards.
func (req *Request) Forbidden() {
	if req.statusWritten {
		return
	}
	http.Error(req.writer, "403 forbidden", http.StatusForbidden)
	req.statusWritten = true
}

// NotFound writes a 404 response.
func (req *Request) NotFound() {
	if req.statusWritten {
		return
	}
	http.NotFound(req.writer, req.request)
	req.statusWritten = true
}

// Login verifies the credentials and stores the user id in the session.
// The session token is renewed, so every login gets a fresh token.
// An unknown email and a wrong password both return ErrLogin.
func (req *Request) Login(email, enteredPass string) error {
	if req.LoggedIn() {
		return nil
	}
	u, err := req.db.GetUserByEmail(NormalizeEmail(email))
	if err != nil || !auth.CheckPassword(enteredPass, u.Password) {
		return ErrLogin
	}
	if err := req.db.SessionManager.RenewToken(req.request.Context()); err != nil {
		return err
	}
	req.User = u
	req.Success("Welcome %s!", u.Name)
	req.db.SessionManager.Put(req.request.Context(), "uid", u.ID)
	return nil
}

func (req *Request) LoggedIn() bool {
	return req.User != nil
}

// IsAdmin reports whether the current identity may manage posts.
func (req *Request) IsAdmin() bool {
	return req.User != nil && req.User.Admin
}

// Logout removes the user id from the session and calls req.Cleanup().
func (req *Request) Logout() {
	if req.LoggedIn() {
		req.db.SessionManager.Remove(req.request.Context(), "uid")
		req.User = nil
	}
	req.Cleanup()
}

func (req *Request) FormatDateTime(ts int64) string {
	b, _ := req.language.Base()
	switch b.String() {
	case "de":
		return monthNamesDe.Replace(time.Unix(ts, 0).Format("2. January 2006 15:04 Uhr"))
	default:
		return time.Unix(ts, 0).Format("January 2, 2006 3:04 PM")
	}
}
