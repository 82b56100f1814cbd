package core

import (
	"encoding/gob"
	"fmt"
	"html/template"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/fightwire/fightwire/auth"
	"golang.org/x/text/language"
)

// A Flash is a one-shot message carried in the session, not to be
// confused with the persisted workflow Notification.
type Flash struct {
	Message string
	Style   string
}

func init() {
	gob.Register([]Flash{}) // required for storing Flashes in a session
}

var langMatcher = language.NewMatcher([]language.Tag{
	language.AmericanEnglish, // default
	language.German,
})

// A Request is created by CoreDB.NewRequest.
type Request struct {
	db        *CoreDB // unexported, so it can't be accessed in templates
	Principal *auth.Principal

	writer  http.ResponseWriter
	request *http.Request

	statusWritten bool
	language      language.Tag
}

// NewRequest creates a Request with the given http.ResponseWriter and
// http.Request. If a principal is logged in, it sets Request.Principal.
func (c *CoreDB) NewRequest(w http.ResponseWriter, httpreq *http.Request) *Request {

	var req = &Request{
		db:      c,
		writer:  w,
		request: httpreq,
	}

	req.language, _ = language.MatchStrings(langMatcher, httpreq.Header.Get("Accept-Language"))

	if uid := c.SessionManager.GetInt(httpreq.Context(), "uid"); uid != 0 {
		p, err := c.Auth.GetPrincipal(uid)
		if p != nil && err == nil {
			req.Principal = p
		}
		// ignore errors
	}

	return req
}

// Danger adds a "danger" flash to the session.
func (req *Request) Danger(err error) {
	req.addFlash(err.Error(), "danger")
}

// Success adds a "success" flash to the session.
func (req *Request) Success(format string, args ...interface{}) {
	req.addFlash(fmt.Sprintf(format, args...), "success")
}

// style should be a bootstrap alert style without the leading "alert-"
func (req *Request) addFlash(message, style string) {
	flashes, _ := req.db.SessionManager.Get(req.request.Context(), "flashes").([]Flash)
	flashes = append(flashes, Flash{message, style})
	req.db.SessionManager.Put(req.request.Context(), "flashes", flashes)
}

// RenderFlashes removes all flashes from the session and renders them
// into an HTML string. If the HTTP status had already been written, it
// does nothing.
func (req *Request) RenderFlashes() template.HTML {
	var r string
	if !req.statusWritten {
		flashes, _ := req.db.SessionManager.Pop(req.request.Context(), "flashes").([]Flash)
		for _, f := range flashes {
			r += `<div class="alert alert-` + f.Style + ` mt-3" role="alert">` + template.HTMLEscapeString(f.Message) + `</div>`
		}
	}
	return template.HTML(r)
}

// Cleanup destroys the session (which means re-setting the cookie with
// zero lifetime) if the session has been modified and is empty now.
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

// Login tries to log in a principal. On success, the principal id is
// stored in the session.
func (req *Request) Login(name string, enteredPass string) error {
	if req.LoggedIn() {
		return nil
	}
	if p, err := req.db.Auth.LoginPrincipal(name, enteredPass); err == nil {
		req.Principal = p
	} else {
		return err
	}
	req.Success("Welcome %s!", req.Principal.Name)
	req.db.SessionManager.Put(req.request.Context(), "uid", req.Principal.ID)
	return nil
}

func (req *Request) LoggedIn() bool {
	return req.Principal != nil
}

// Logout removes the principal id from the session and calls req.Cleanup().
func (req *Request) Logout() {
	if req.LoggedIn() {
		req.db.SessionManager.Remove(req.request.Context(), "uid")
	}
	req.Cleanup()
}

// Lang returns the matched content language, for the html lang attribute.
func (req *Request) Lang() string {
	return req.language.String()
}
