package backend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fightwire/fightwire/auth"
	"github.com/julienschmidt/httprouter"
)

var principalsTmpl = tmpl(`<h1>Staff</h1>

	<table class="table table-sm">
		<thead>
			<tr>
				<th>Name</th>
				<th>Role</th>
				<th>Active</th>
				<th>Authored</th>
				<th>Edited</th>
				<th>Published</th>
				<th>Last article</th>
			</tr>
		</thead>
		<tbody>
			{{ range .Principals }}
				<tr>
					<td><a href="principal/{{ .ID }}">{{ .Name }}</a></td>
					<td>{{ .Role }}</td>
					<td>{{ if .Active }}yes{{ else }}no{{ end }}</td>
					<td>{{ .ArticlesAuthored }}</td>
					<td>{{ .ArticlesEdited }}</td>
					<td>{{ .ArticlesPublished }}</td>
					<td>{{ FormatTs .LastArticle }}</td>
				</tr>
			{{ end }}
		</tbody>
	</table>

	<h2>New staff member</h2>

	<form method="post" class="form-inline">
		<input type="text" class="form-control" name="name" placeholder="email address" required>
		<button type="submit" class="btn btn-primary ml-2">Create</button>
	</form>`)

type principalsData struct {
	*context
	Principals []auth.Principal
}

func principals(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.Can("manage-roles") {
		return ErrAuth
	}

	if req.Method == http.MethodPost {

		var name = strings.TrimSpace(req.PostFormValue("name"))
		if name == "" {
			return errors.New("missing name")
		}

		p, err := ctx.db.Auth.InsertPrincipal(name)
		if err != nil {
			return err
		}

		ctx.Success("%s has been created", p.Name)
		ctx.SeeOther("/principal/%d", p.ID)
		return nil
	}

	all, err := ctx.db.Auth.GetAllPrincipals(1000, 0)
	if err != nil {
		return err
	}

	return principalsTmpl.Execute(w, &principalsData{
		context:    ctx,
		Principals: all,
	})
}
