package web

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mkuhn/scribble/auth"
	"github.com/mkuhn/scribble/core"
	"github.com/mkuhn/scribble/sqldb"
	"github.com/mkuhn/scribble/sqldb/sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer drives the full stack (router, session manager, sqlite) like a
// browser with a cookie jar.
type testServer struct {
	t       *testing.T
	handler http.Handler
	db      *core.CoreDB
	cookies []*http.Cookie
}

func newTestServer(t *testing.T) *testServer {

	t.Helper()

	sqlDB, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db := &core.CoreDB{}
	db.Init(sqlite3.NewSessionStore(sqlDB), "")
	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.PostDB = sqldb.NewPostDB(sqlDB)
	db.CommentDB = sqldb.NewCommentDB(sqlDB)
	require.NoError(t, db.Seed("a@x.com", "Alvin", "alvin123"))

	var site = Site{
		Name:    "Test Blog",
		Tagline: "testing",
		About:   "about text",
		Contact: "contact text",
		PerPage: 10,
	}

	return &testServer{
		t:       t,
		handler: db.SessionManager.LoadAndSave(NewRouter(db, site)),
		db:      db,
	}
}

func (srv *testServer) do(method, target string, form url.Values) *httptest.ResponseRecorder {

	srv.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range srv.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	srv.handler.ServeHTTP(w, req)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		srv.cookies = cookies
	}

	return w
}

func (srv *testServer) register(email, name, password string) {
	srv.t.Helper()
	w := srv.do(http.MethodPost, "/register", url.Values{"email": {email}, "name": {name}, "password": {password}})
	require.Equal(srv.t, http.StatusSeeOther, w.Code)
}

func (srv *testServer) login(email, password string) {
	srv.t.Helper()
	w := srv.do(http.MethodPost, "/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(srv.t, http.StatusSeeOther, w.Code)
}

func TestIndexListsSeededPost(t *testing.T) {
	srv := newTestServer(t)
	w := srv.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Life of Cactus")
}

func TestStaticPages(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/about", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "about text")

	w = srv.do(http.MethodGet, "/contact", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "contact text")
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)
	srv.register("Eve@Example.com", "eve miller", "secret")

	// email is lowercased, name is title-cased
	u, err := srv.db.GetUserByEmail("eve@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Eve Miller", u.Name)
	assert.False(t, u.Admin)

	// the plaintext is never stored
	assert.NotEqual(t, "secret", u.Password)
	assert.True(t, auth.CheckPassword("secret", u.Password))

	srv.login("eve@example.com", "secret")
	w := srv.do(http.MethodGet, "/", nil)
	assert.Contains(t, w.Body.String(), "Eve Miller") // navbar
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	// seeded admin is a@x.com; uniqueness is case-insensitive
	w := srv.do(http.MethodPost, "/register", url.Values{"email": {"A@X.com"}, "name": {"Impostor"}, "password": {"x"}})
	assert.Equal(t, http.StatusOK, w.Code) // re-rendered form, no redirect
	assert.Contains(t, w.Body.String(), errEmailTaken.Error())

	_, err := srv.db.GetUserByEmail("a@x.com")
	require.NoError(t, err)
}

func TestLoginMessageDoesNotLeakEmails(t *testing.T) {
	srv := newTestServer(t)

	unknown := srv.do(http.MethodPost, "/login", url.Values{"email": {"nobody@x.com"}, "password": {"x"}})
	wrongPass := srv.do(http.MethodPost, "/login", url.Values{"email": {"a@x.com"}, "password": {"x"}})

	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, http.StatusOK, wrongPass.Code)
	assert.Contains(t, unknown.Body.String(), core.ErrLogin.Error())
	assert.Contains(t, wrongPass.Body.String(), core.ErrLogin.Error())
}

func TestAdminGate(t *testing.T) {
	srv := newTestServer(t)

	// anonymous
	for _, target := range []string{"/new-post", "/edit-post/1", "/delete/1"} {
		w := srv.do(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, target)
	}

	// registered non-admin
	srv.register("eve@example.com", "Eve", "secret")
	srv.login("eve@example.com", "secret")
	for _, target := range []string{"/new-post", "/edit-post/1", "/delete/1"} {
		w := srv.do(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, target)
	}

	// a rejected delete must have no side effect
	n, err := srv.db.CountPosts()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// a forbidden create must have no side effect either
	w := srv.do(http.MethodPost, "/new-post", url.Values{"title": {"Sneaky"}, "subtitle": {"s"}, "img_url": {"i"}, "body": {"b"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	n, err = srv.db.CountPosts()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAdminScenario(t *testing.T) {
	srv := newTestServer(t)
	srv.login("a@x.com", "alvin123")

	w := srv.do(http.MethodGet, "/new-post", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(http.MethodPost, "/new-post", url.Values{
		"title":    {"T2"},
		"subtitle": {"Second"},
		"img_url":  {"https://example.com/2.jpg"},
		"body":     {"body two"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = srv.do(http.MethodGet, "/", nil)
	assert.Contains(t, w.Body.String(), "Life of Cactus")
	assert.Contains(t, w.Body.String(), "T2")

	// duplicate title re-renders the form and creates nothing
	w = srv.do(http.MethodPost, "/new-post", url.Values{
		"title":    {"Life of Cactus"},
		"subtitle": {"s"},
		"img_url":  {"i"},
		"body":     {"b"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), errTitleTaken.Error())

	n, err := srv.db.CountPosts()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEditPostKeepsAuthorAndDate(t *testing.T) {
	srv := newTestServer(t)
	srv.login("a@x.com", "alvin123")

	before, err := srv.db.GetPost(1)
	require.NoError(t, err)

	w := srv.do(http.MethodPost, "/edit-post/1", url.Values{
		"title":    {"Life of Cactus, Extended"},
		"subtitle": {"Even More Interesting"},
		"img_url":  {before.ImgURL},
		"body":     {"updated body"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/post/1", w.Header().Get("Location"))

	after, err := srv.db.GetPost(1)
	require.NoError(t, err)
	assert.Equal(t, "Life of Cactus, Extended", after.Title)
	assert.Equal(t, "updated body", after.Body)
	assert.Equal(t, before.AuthorID, after.AuthorID)
	assert.Equal(t, before.Date, after.Date)
}

func TestShowPostNotFound(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/post/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	srv.login("a@x.com", "alvin123")
	w = srv.do(http.MethodGet, "/post/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(http.MethodGet, "/post/cactus", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommenting(t *testing.T) {
	srv := newTestServer(t)

	// anonymous comments are redirected to login and create nothing
	w := srv.do(http.MethodPost, "/post/1", url.Values{"text": {"anonymous comment"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	n, err := srv.db.CountCommentsByPost(1)
	require.NoError(t, err)
	assert.Zero(t, n)

	srv.register("eve@example.com", "Eve", "secret")
	srv.login("eve@example.com", "secret")

	w = srv.do(http.MethodPost, "/post/1", url.Values{"text": {"lovely cactus"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/post/1", w.Header().Get("Location"))

	w = srv.do(http.MethodGet, "/post/1", nil)
	assert.Contains(t, w.Body.String(), "lovely cactus")
	assert.Contains(t, w.Body.String(), "Eve")
}

func TestDeletePost(t *testing.T) {
	srv := newTestServer(t)
	srv.login("a@x.com", "alvin123")

	w := srv.do(http.MethodGet, "/delete/1", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = srv.do(http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), "Life of Cactus")

	w = srv.do(http.MethodGet, "/post/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(http.MethodGet, "/delete/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthorPage(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/author/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alvin")
	assert.Contains(t, w.Body.String(), "Life of Cactus")

	w = srv.do(http.MethodGet, "/author/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	srv.login("a@x.com", "alvin123")

	w := srv.do(http.MethodGet, "/logout", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = srv.do(http.MethodGet, "/new-post", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
