package backend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fightwire/fightwire/core"
	"github.com/julienschmidt/httprouter"
)

var organizationsTmpl = tmpl(`<h1>Organizations</h1>

	<table class="table table-sm">
		<thead>
			<tr>
				<th>Name</th>
				<th>Country</th>
				<th></th>
			</tr>
		</thead>
		<tbody>
			{{ range .Organizations }}
				<tr>
					<td>{{ .Name }}</td>
					<td>{{ .Country }}</td>
					<td>
						{{ if $.ManageData }}
							<form method="post" class="d-inline">
								<input type="hidden" name="do" value="delete">
								<input type="hidden" name="id" value="{{ .ID }}">
								<button type="submit" class="btn btn-sm btn-outline-danger">Delete</button>
							</form>
						{{ end }}
					</td>
				</tr>
			{{ end }}
		</tbody>
	</table>

	{{ if .ManageData }}

		<h2>New organization</h2>

		<form method="post" class="form-inline">
			<input type="text" class="form-control" name="name" placeholder="Name" required>
			<input type="text" class="form-control mx-sm-3" name="country" placeholder="Country">
			<button type="submit" class="btn btn-primary">Create</button>
		</form>

	{{ end }}`)

type organizationsData struct {
	*context
	Organizations []core.Organization
}

// ManageData gates the sports-data screens' mutations. The closest
// editorial capability is manage-categories, structured data is kept by
// the same people who keep the taxonomy.
func (ctx *context) ManageData() bool {
	return ctx.Can("manage-categories")
}

func organizations(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		if !ctx.ManageData() {
			return ErrAuth
		}

		if req.PostFormValue("do") == "delete" {
			id, err := strconv.Atoi(req.PostFormValue("id"))
			if err != nil {
				return err
			}
			if err := ctx.db.DeleteOrganization(id); err != nil {
				return err
			}
			ctx.Success("organization has been deleted")
			ctx.SeeOther("/organizations")
			return nil
		}

		var o = &core.Organization{
			Name:    strings.TrimSpace(req.PostFormValue("name")),
			Country: strings.TrimSpace(req.PostFormValue("country")),
		}
		if o.Name == "" {
			return errors.New("missing name")
		}
		if err := ctx.db.InsertOrganization(o); err != nil {
			return err
		}

		ctx.Success("%s has been created", o.Name)
		ctx.SeeOther("/organizations")
		return nil
	}

	all, err := ctx.db.GetAllOrganizations(1000, 0)
	if err != nil {
		return err
	}

	return organizationsTmpl.Execute(w, &organizationsData{
		context:       ctx,
		Organizations: all,
	})
}
