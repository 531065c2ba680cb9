package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mkuhn/scribble/auth"
	"github.com/mkuhn/scribble/core"
	"github.com/mkuhn/scribble/sqldb"
	"github.com/mkuhn/scribble/sqldb/mysql"
	"github.com/mkuhn/scribble/sqldb/sqlite3"
	"github.com/mkuhn/scribble/util"
	"github.com/mkuhn/scribble/web"
	"github.com/xo/dburl"
	"golang.org/x/term"
)

const defaultDB = "sqlite3:scribble.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&_fk=1"

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

func main() {

	var dbArg string // is in both FlagSets

	// default FlagSet

	flag.StringVar(&dbArg, "db", defaultDB, "sql database url, see github.com/xo/dburl")
	var listenAddr = flag.String("listen", "127.0.0.1:8080", "serve HTTP content at this `ip:port`")
	var siteFile = flag.String("site", "scribble.ini", "load site settings from this ini `file`")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&dbArg, "db", defaultDB, "sql database url, see github.com/xo/dburl") // copied from above
	var initInsert = initFlags.Bool("insert", false, "creates the given user, prompting for a password")
	var initPassword = initFlags.Bool("password", false, "sets a new password for the given user")
	var initMakeAdmin = initFlags.Bool("make-admin", false, "lets the given user manage posts")
	var email = initFlags.String("email", "", "specifies a user by `email` address")
	var name = initFlags.String("name", "", "specifies the display `name` for -insert")

	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	// database

	dbURL, err := dburl.Parse(dbArg)
	if err != nil {
		log.Printf("could not parse database url: %v", err)
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Printf("could not open sql database: %v", err)
		return
	}

	if err = sqlDB.Ping(); err != nil {
		log.Printf("could not ping sql database: %v", err)
		return
	}

	log.Printf("using database %s", dbURL.String())

	// assemble stuff

	var sessionStore scs.Store
	switch dbURL.Driver {
	case "mysql":
		sessionStore = mysql.NewSessionStore(sqlDB)
	case "sqlite3":
		sessionStore = sqlite3.NewSessionStore(sqlDB)
	default:
		log.Printf("unknown database backend: %s", dbURL.Driver)
		return
	}

	db := &core.CoreDB{}
	db.Init(sessionStore, "")
	db.UserDB = sqldb.NewUserDB(sqlDB)
	db.PostDB = sqldb.NewPostDB(sqlDB)
	db.CommentDB = sqldb.NewCommentDB(sqlDB)

	defer func() {
		log.Println("closing database")
		sqlDB.Close()
	}()

	// init

	if initFlags.Parsed() {
		switch {
		case *initInsert:
			insertUser(db, *email, *name)
		case *initPassword:
			setPassword(db, *email)
		case *initMakeAdmin:
			makeAdmin(db, *email)
		}
		return
	}

	// site config

	var site = web.Site{
		Name:    "Scribble",
		Tagline: "Stories, one watering can at a time",
		About:   "This site runs on scribble, a small blogging engine.",
		Contact: "Ask the administrator of this site for contact details.",
		PerPage: 10,
	}
	var adminEmail = "admin@example.com"
	var adminName = "Admin"
	var adminPassword = ""

	if data, err := util.Ini(*siteFile); err == nil {
		if v := data["name"]; v != "" {
			site.Name = v
		}
		if v := data["tagline"]; v != "" {
			site.Tagline = v
		}
		if v := data["about"]; v != "" {
			site.About = v
		}
		if v := data["contact"]; v != "" {
			site.Contact = v
		}
		if v, err := strconv.Atoi(data["per-page"]); err == nil && v > 0 {
			site.PerPage = v
		}
		if v := data["admin-email"]; v != "" {
			adminEmail = v
		}
		if v := data["admin-name"]; v != "" {
			adminName = v
		}
		adminPassword = data["admin-password"]
	} else {
		log.Printf("no site config loaded: %v", err)
	}

	if err := db.Seed(adminEmail, adminName, adminPassword); err != nil {
		log.Printf("error seeding database: %v", err)
		return
	}

	listen(db, site, *listenAddr)
}

func promptPassword(prompt string) ([]byte, error) {

	fmt.Printf("%s: ", prompt)
	pass1, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}

	fmt.Printf("repeat password: ")
	pass2, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(pass1, pass2) {
		return nil, fmt.Errorf("passwords don't match")
	}

	if len(pass1) == 0 {
		return nil, fmt.Errorf("refusing to set an empty password")
	}

	return pass1, nil
}

func insertUser(db *core.CoreDB, email, name string) {

	if email == "" || name == "" {
		log.Println("-insert requires -email and -name")
		return
	}

	pass, err := promptPassword(fmt.Sprintf("password for %s", email))
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	id, err := db.InsertUser(core.NormalizeEmail(email), core.NormalizeName(name), auth.HashPassword(string(pass)), false)
	if err != nil {
		log.Printf("error creating user %s: %v", email, err)
		return
	}

	log.Printf("created user %d", id)
}

func setPassword(db *core.CoreDB, email string) {

	u, err := db.GetUserByEmail(core.NormalizeEmail(email))
	if err != nil {
		log.Printf("error getting user %s: %v", email, err)
		return
	}

	pass, err := promptPassword(fmt.Sprintf("new password for %s", email))
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	if err := db.SetPassword(u.ID, auth.HashPassword(string(pass))); err != nil {
		log.Printf("error setting password: %v", err)
		return
	}
}

func makeAdmin(db *core.CoreDB, email string) {

	u, err := db.GetUserByEmail(core.NormalizeEmail(email))
	if err != nil {
		log.Printf("error getting user %s: %v", email, err)
		return
	}

	if err := db.SetAdmin(u.ID, true); err != nil {
		log.Printf("error making %s an admin: %v", email, err)
		return
	}
}

func listen(db *core.CoreDB, site web.Site, addr string) {

	var waitingRequests sync.WaitGroup

	var router = web.NewRouter(db, site)

	var handler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		waitingRequests.Add(1)
		defer waitingRequests.Done()
		router.ServeHTTP(w, req)
	})

	// listener and listen

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      db.SessionManager.LoadAndSave(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Printf("error listening: %v", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Println("shutting down")
	httpSrv.Close()

	waitingRequests.Wait()
}
