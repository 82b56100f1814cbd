package backend

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/fightwire/fightwire/auth"
	"github.com/fightwire/fightwire/core"
	"github.com/julienschmidt/httprouter"
)

var ErrAuth = errors.New("unauthorized")

// we need the CoreDB in the backend
type context struct {
	*core.Request
	Prefix string // with trailing slash
	db     *core.CoreDB
}

// Can lets templates check a capability by name.
func (ctx *context) Can(name string) bool {
	return ctx.Principal.HasCapability(auth.Capability(name))
}

func (ctx *context) UnreadNotifications() int {
	if !ctx.LoggedIn() {
		return 0
	}
	count, _ := ctx.db.NotificationDB.CountUnread(ctx.Principal.ID)
	return count
}

func middleware(db *core.CoreDB, prefix string, requireLoggedIn bool, f func(http.ResponseWriter, *http.Request, *context, httprouter.Params) error) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var request = db.NewRequest(w, req)

		var ctx = &context{
			Prefix:  prefix + "/backend/",
			Request: request,
			db:      db,
		}
		defer ctx.Cleanup()

		if requireLoggedIn && !ctx.LoggedIn() {
			ctx.SeeOther("/")
			return
		}

		if err := f(w, req, ctx, params); err != nil {
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

func NewBackendRouter(db *core.CoreDB, prefix string) http.Handler {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	// public
	router.GET("/", middleware(db, prefix, false, root))
	GETAndPOST("/login", middleware(db, prefix, false, login))

	// private
	GETAndPOST("/articles", middleware(db, prefix, true, articles))
	GETAndPOST("/article/:id", middleware(db, prefix, true, article))
	router.POST("/article/:id/transition", middleware(db, prefix, true, transition))
	router.POST("/article/:id/assign", middleware(db, prefix, true, assignEditor))
	router.POST("/article/:id/delete", middleware(db, prefix, true, deleteDraft))
	GETAndPOST("/bulk", middleware(db, prefix, true, bulk))
	GETAndPOST("/events", middleware(db, prefix, true, events))
	GETAndPOST("/fighters", middleware(db, prefix, true, fighters))
	router.GET("/log", middleware(db, prefix, true, workflowLog))
	router.GET("/logout", middleware(db, prefix, true, logout))
	GETAndPOST("/notifications", middleware(db, prefix, true, notifications))
	GETAndPOST("/organizations", middleware(db, prefix, true, organizations))
	GETAndPOST("/principals", middleware(db, prefix, true, principals))
	GETAndPOST("/principal/:id", middleware(db, prefix, true, principal))
	router.GET("/stats", middleware(db, prefix, true, stats))

	return router
}

func tmpl(text string) *template.Template {
	t := template.Must(backendTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var backendTmpl = template.Must(template.New("backend").Funcs(template.FuncMap{
	"FormatTs":   FormatTs,
	"RenderBody": RenderBody,
	"Excerpt":    Excerpt,
}).Parse(`
<!DOCTYPE html>
<html lang="{{ .Lang }}">
	<head>
		<base href="{{ .Prefix }}">
		<link rel="stylesheet" type="text/css" href="/static/bootstrap-4.4.1.min.css">
		<meta charset="utf-8">
		<title>Newsroom</title>

		<style>

			body {
				padding-bottom: 1rem;
			}

			h1 {
				font-size: 1.5rem !important;
				margin: 1rem 0 0.7rem !important;
			}

			h2 {
				font-size: 1.3rem !important;
				margin: 0.2rem 0 0.5rem !important;
			}

			table {
				margin-top: 0.5rem;
				border-bottom: 1px solid #dee2e6;
			}

			textarea {
				tab-size: 4;
				-moz-tab-size: 4;
			}

		</style>
	</head>
	<body>

		{{ if .LoggedIn }}

			<nav class="navbar navbar-expand-md bg-light">
				<ul class="navbar-nav">
					<li class="nav-item">
						<a class="nav-link" href="articles">Articles</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="bulk">Bulk</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="organizations">Organizations</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="fighters">Fighters</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="events">Events</a>
					</li>
					{{ if .Can "view-logs" }}
						<li class="nav-item">
							<a class="nav-link" href="log">Log</a>
						</li>
					{{ end }}
					{{ if .Can "view-analytics" }}
						<li class="nav-item">
							<a class="nav-link" href="stats">Statistics</a>
						</li>
					{{ end }}
					{{ if .Can "manage-roles" }}
						<li class="nav-item">
							<a class="nav-link" href="principals">Staff</a>
						</li>
					{{ end }}
					<li class="nav-item">
						<a class="nav-link" href="notifications">Inbox{{ with .UnreadNotifications }} ({{ . }}){{ end }}</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="logout">Logout {{ .Principal.Name }}</a>
					</li>
				</ul>
			</nav>

		{{ end }}

		<div class="container">
			{{ .RenderFlashes }}
			{{ template "content" . }}
		</div>

	</body>
</html>`))
