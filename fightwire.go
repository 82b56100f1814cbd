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
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/fightwire/fightwire/auth"
	"github.com/fightwire/fightwire/backend"
	"github.com/fightwire/fightwire/core"
	"github.com/fightwire/fightwire/mail"
	"github.com/fightwire/fightwire/sqldb"
	"github.com/fightwire/fightwire/sqldb/mysql"
	"github.com/fightwire/fightwire/sqldb/sqlite3"
	_ "github.com/mattn/go-sqlite3"
	"github.com/xo/dburl"
	"golang.org/x/crypto/ssh/terminal"
)

type prefixedResponseWriter struct {
	http.ResponseWriter
	prefix string // without trailing slash
}

// shadows the original WriteHeader func
func (w prefixedResponseWriter) WriteHeader(statusCode int) {
	// prepend prefix to Location header, so redirects work
	if w.prefix != "" {
		if location := w.Header().Get("Location"); len(location) > 0 && location[0] == '/' { // only absolute locations
			w.Header().Set("Location", w.prefix+location)
		}
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// prefix should be without trailing slash
func handleStrip(prefix string, handler http.Handler) {
	http.Handle(
		prefix+"/", // http mux needs trailing slash
		http.StripPrefix(
			prefix,
			http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w = &prefixedResponseWriter{w, prefix}
					handler.ServeHTTP(w, r)
				},
			),
		),
	)
}

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

func main() {

	var dbArg string // is in both FlagSets

	// default FlagSet

	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash.
	var base = flag.String("base", "", "strip off this `prefix` from every HTTP request and prepended it to every link")
	// MySQL: collation should be utf8mb4_unicode_ci
	flag.StringVar(&dbArg, "db", "sqlite3:fightwire.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared", "sql database url, see github.com/xo/dburl")
	var listenAddr = flag.String("listen", "127.0.0.1:8080", "serve HTTP content at this `ip:port`")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&dbArg, "db", "sqlite3:fightwire.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared", "sql database url, see github.com/xo/dburl") // copied from above
	var initInsert = initFlags.Bool("insert", false, "creates the given principal with a password prompt")
	var initRole = initFlags.String("role", "", "assigns this role to the given principal")
	var principalName = initFlags.String("principal", "", "specifies a principal `name` (email address)")

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

	// base

	*base = strings.Trim(*base, "/")
	if *base != "" {
		*base = "/" + *base
	}

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
	err = db.Init(sessionStore, *base)
	if err != nil {
		log.Println(err) // log.Fatalln would not run deferred functions
		return
	}

	db.ArticleDB = sqldb.NewArticleDB(sqlDB)
	db.EventDB = sqldb.NewEventDB(sqlDB)
	db.FighterDB = sqldb.NewFighterDB(sqlDB)
	db.NotificationDB = sqldb.NewNotificationDB(sqlDB)
	db.OrganizationDB = sqldb.NewOrganizationDB(sqlDB)
	db.WorkflowLogDB = sqldb.NewWorkflowLogDB(sqlDB)
	db.Auth = &auth.AuthDB{PrincipalDB: sqldb.NewPrincipalDB(sqlDB)}
	db.TransitionDB = sqldb.NewTransitionDB(sqlDB) // after the table-owning stores

	if mailer, err := mail.NewSMTPMailer(); err == nil {
		db.Mailer = mailer
	} else {
		log.Printf("no smtp configuration (%v), logging mail instead", err)
		db.Mailer = mail.LogMailer{}
	}

	db.SqlDB = sqlDB

	defer func() {
		log.Println("closing database")
		sqlDB.Close()
	}()

	// init

	if initFlags.Parsed() {
		switch {
		case *initInsert:
			if *principalName != "" {
				insertPrincipal(db, *principalName, *initRole)
			}
		case *initRole != "":
			if *principalName != "" {
				assignRole(db, *principalName, *initRole)
			}
		}
		return
	}

	listen(db, *listenAddr, *base)
}

func insertPrincipal(db *core.CoreDB, name string, roleName string) {

	fmt.Printf("password for %s: ", name)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	fmt.Printf("repeat password: ")
	pass2, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	if !bytes.Equal(pass1, pass2) {
		log.Printf("passwords don't match")
		return
	}

	p, err := db.Auth.InsertPrincipal(name)
	if err != nil {
		log.Printf("error creating principal %s: %v", name, err)
		return
	}

	if err := db.Auth.SetPassword(p, string(pass1)); err != nil {
		log.Printf("error setting password: %v", err)
		return
	}

	if roleName != "" {
		if err := db.Auth.AssignRole(p, roleName); err != nil {
			log.Printf("error assigning role: %v", err)
			return
		}
	}

	log.Printf("created %s %s", p.Role, p.Name)
}

func assignRole(db *core.CoreDB, name string, roleName string) {

	p, err := db.Auth.GetPrincipalByName(name)
	if err != nil {
		log.Printf("error getting principal %s: %v", name, err)
		return
	}

	if err := db.Auth.AssignRole(p, roleName); err != nil {
		log.Printf("error assigning role: %v", err)
		return
	}

	log.Printf("%s is now %s", p.Name, p.Role)
}

func listen(db *core.CoreDB, addr string, base string) {

	// mux
	//
	// golang mux recovers from panics, so the program won't crash

	var waitingControllers sync.WaitGroup

	handleStrip(base+"/backend", backend.NewBackendRouter(db, base))
	handleStrip(base+"/static", http.FileServer(http.Dir("static")))

	http.Handle(base+"/", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		waitingControllers.Add(1)
		defer waitingControllers.Done()
		http.Redirect(w, req, base+"/backend/", http.StatusSeeOther)
	}))

	// listener and listen

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      db.SessionManager.LoadAndSave(http.DefaultServeMux),
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

	waitingControllers.Wait()
}
