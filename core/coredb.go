package core

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/mkuhn/scribble/auth"
	"github.com/mkuhn/scribble/util"
)

// CoreDB bundles the repositories and the session manager. main assembles it
// and hands it to the web router.
type CoreDB struct {
	UserDB
	PostDB
	CommentDB
	SessionManager *scs.SessionManager
}

func (c *CoreDB) Init(sessionStore scs.Store, cookiePath string) {
	c.SessionManager = scs.New()
	c.SessionManager.Store = sessionStore
	c.SessionManager.Cookie.Path = cookiePath + "/"
	c.SessionManager.Cookie.Persist = false                 // don't store the cookie across browser sessions
	c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	c.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	c.SessionManager.IdleTimeout = 12 * time.Hour
	c.SessionManager.Lifetime = 720 * time.Hour
}

// Seed ensures that the administrator account exists. On the very first
// startup it creates the account under AdminID along with one sample post.
// If password is empty, a random one is generated and logged once.
func (c *CoreDB) Seed(email, name, password string) error {

	if _, err := c.GetUser(AdminID); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if password == "" {
		var err error
		password, err = util.RandomString32()
		if err != nil {
			return err
		}
		log.Printf("password for %s: %s", email, password)
	}

	id, err := c.InsertUser(NormalizeEmail(email), NormalizeName(name), auth.HashPassword(password), true)
	if err != nil {
		return err
	}

	_, err = c.InsertPost(&Post{
		AuthorID: id,
		Title:    "Life of Cactus",
		Subtitle: "So Interesting",
		Date:     time.Now().Format(DateFormat),
		Body:     "Every cactus has a story. This one begins with a single watering can.",
		ImgURL:   "https://images.unsplash.com/photo-1459411552884-841db9b3cc2a",
	})
	return err
}
