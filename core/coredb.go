package core

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/fightwire/fightwire/auth"
)

// CoreDB bundles the store interfaces and the collaborators of the
// workflow core. main assembles it from the sqldb implementations.
type CoreDB struct {
	ArticleDB
	TransitionDB
	WorkflowLogDB
	NotificationDB
	FighterDB
	EventDB
	OrganizationDB

	Auth           *auth.AuthDB
	SessionManager *scs.SessionManager
	Mailer         Mailer       // nil means notifications stay pending
	Picker         EditorPicker // nil means RandomPicker

	SqlDB *sql.DB // exported because main owns the connection
}

func (c *CoreDB) Init(sessionStore scs.Store, cookiePath string) error {

	c.SessionManager = scs.New()
	c.SessionManager.Store = sessionStore
	c.SessionManager.Cookie.Path = cookiePath + "/"
	c.SessionManager.Cookie.Persist = false                 // don't store cookie across browser sessions
	c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	c.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	c.SessionManager.IdleTimeout = 12 * time.Hour
	c.SessionManager.Lifetime = 720 * time.Hour

	return nil
}

// Dispatcher assembles the notification dispatcher from the wired stores.
func (c *CoreDB) Dispatcher() *Dispatcher {
	return &Dispatcher{
		DB:         c.NotificationDB,
		Principals: c.Auth.PrincipalDB,
		Mailer:     c.Mailer,
	}
}
