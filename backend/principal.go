package backend

import (
	"net/http"
	"strconv"

	"github.com/fightwire/fightwire/auth"
	"github.com/fightwire/fightwire/core"
	"github.com/julienschmidt/httprouter"
)

var principalTmpl = tmpl(`<h1>{{ .P.Name }}</h1>

	<p>
		{{ .P.ArticlesAuthored }} authored,
		{{ .P.ArticlesEdited }} edited,
		{{ .P.ArticlesPublished }} published,
		last article: {{ FormatTs .P.LastArticle }}
	</p>

	{{ if .ManageRoles }}

		<h2>Role</h2>

		<form method="post" class="form-inline">
			<input type="hidden" name="do" value="role">
			<select class="form-control" name="role">
				{{ $role := .P.Role }}
				{{ range .Roles }}
					<option value="{{ . }}" {{ if eq . $role }}selected{{ end }}>{{ . }}</option>
				{{ end }}
			</select>
			<div class="form-check form-check-inline mx-sm-3">
				<input type="checkbox" class="form-check-input" name="active" {{ if .P.Active }}checked{{ end }}>
				<label class="form-check-label">active</label>
			</div>
			<button type="submit" class="btn btn-primary">Save</button>
		</form>

	{{ end }}

	{{ if .Self }}

		<h2 class="mt-4">Notifications</h2>

		<form method="post">
			<input type="hidden" name="do" value="prefs">
			{{ range .PrefNames }}
				<div class="form-check">
					<input type="checkbox" class="form-check-input" name="{{ . }}" {{ if index $.Prefs . }}checked{{ end }}>
					<label class="form-check-label">{{ . }}</label>
				</div>
			{{ end }}
			<button type="submit" class="btn btn-primary mt-2">Save</button>
		</form>

		<h2 class="mt-4">Password</h2>

		<form method="post" style="max-width: 20rem;">
			<input type="hidden" name="do" value="password">
			<div class="form-group">
				<input type="password" class="form-control" name="old" placeholder="current password" required>
			</div>
			<div class="form-group">
				<input type="password" class="form-control" name="new" placeholder="new password" required>
			</div>
			<button type="submit" class="btn btn-primary">Change password</button>
		</form>

	{{ end }}`)

type principalData struct {
	*context
	P *auth.Principal
}

func (data *principalData) ManageRoles() bool {
	return data.Can("manage-roles")
}

func (data *principalData) Self() bool {
	return data.P.ID == data.Principal.ID
}

func (data *principalData) Roles() []auth.Role {
	return auth.AllRoles()
}

func (data *principalData) PrefNames() []string {
	return []string{"assignment", "status_change", "comment", "deadline", "approval"}
}

func (data *principalData) Prefs() map[string]bool {
	return map[string]bool{
		"assignment":    data.P.Prefs.Assignment,
		"status_change": data.P.Prefs.StatusChange,
		"comment":       data.P.Prefs.Comment,
		"deadline":      data.P.Prefs.Deadline,
		"approval":      data.P.Prefs.Approval,
	}
}

func principal(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return core.ErrNotFound
	}

	p, err := ctx.db.Auth.GetPrincipal(id)
	if err != nil {
		return err
	}

	var self = p.ID == ctx.Principal.ID
	if !self && !ctx.Can("manage-roles") {
		return ErrAuth
	}

	if req.Method == http.MethodPost {

		switch req.PostFormValue("do") {

		case "role":
			if !ctx.Can("manage-roles") {
				return ErrAuth
			}
			if err := ctx.db.Auth.AssignRole(p, req.PostFormValue("role")); err != nil {
				return err
			}
			if err := ctx.db.Auth.SetActive(p, req.PostFormValue("active") != ""); err != nil {
				return err
			}
			ctx.Success("%s is now an %s %s", p.Name, activeWord(p.Active), p.Role)

		case "prefs":
			if !self {
				return ErrAuth
			}
			var prefs = auth.NotificationPrefs{
				Assignment:   req.PostFormValue("assignment") != "",
				StatusChange: req.PostFormValue("status_change") != "",
				Comment:      req.PostFormValue("comment") != "",
				Deadline:     req.PostFormValue("deadline") != "",
				Approval:     req.PostFormValue("approval") != "",
			}
			if err := ctx.db.Auth.SetPrefs(p, prefs); err != nil {
				return err
			}
			ctx.Success("notification settings have been saved")

		case "password":
			if !self {
				return ErrAuth
			}
			if err := ctx.db.Auth.ChangePassword(p, req.PostFormValue("old"), req.PostFormValue("new")); err != nil {
				return err
			}
			ctx.Success("your password has been changed")
		}

		ctx.SeeOther("/principal/%d", p.ID)
		return nil
	}

	return principalTmpl.Execute(w, &principalData{
		context: ctx,
		P:       p,
	})
}

func activeWord(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
