package backend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fightwire/fightwire/core"
	"github.com/julienschmidt/httprouter"
)

var fightersTmpl = tmpl(`<h1>Fighters</h1>

	<form class="form-inline">
		<select class="form-control" name="org" onchange="this.form.submit()">
			<option value="0">all organizations</option>
			{{ $orgId := .OrgID }}
			{{ range .Organizations }}
				<option value="{{ .ID }}" {{ if eq .ID $orgId }}selected{{ end }}>{{ .Name }}</option>
			{{ end }}
		</select>
	</form>

	<table class="table table-sm">
		<thead>
			<tr>
				<th>Name</th>
				<th>Nickname</th>
				<th>Weight class</th>
				<th>Record</th>
				<th></th>
			</tr>
		</thead>
		<tbody>
			{{ range .Fighters }}
				<tr>
					<td>{{ .Name }}</td>
					<td>{{ .Nickname }}</td>
					<td>{{ .WeightClass }}</td>
					<td>{{ .Wins }}-{{ .Losses }}-{{ .Draws }}</td>
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

		<h2>New fighter</h2>

		<form method="post">
			<div class="form-group form-inline">
				<input type="text" class="form-control" name="name" placeholder="Name" required>
				<input type="text" class="form-control mx-sm-3" name="nickname" placeholder="Nickname">
				<input type="text" class="form-control" name="weightClass" placeholder="Weight class">
			</div>
			<div class="form-group form-inline">
				<select class="form-control" name="org">
					{{ range .Organizations }}
						<option value="{{ .ID }}">{{ .Name }}</option>
					{{ end }}
				</select>
				<input type="number" class="form-control mx-sm-3" name="wins" placeholder="Wins" value="0">
				<input type="number" class="form-control" name="losses" placeholder="Losses" value="0">
				<input type="number" class="form-control mx-sm-3" name="draws" placeholder="Draws" value="0">
			</div>
			<button type="submit" class="btn btn-primary">Create</button>
		</form>

	{{ end }}`)

type fightersData struct {
	*context
	OrgID         int
	Organizations []core.Organization
	Fighters      []core.Fighter
}

func fighters(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		if !ctx.ManageData() {
			return ErrAuth
		}

		if req.PostFormValue("do") == "delete" {
			id, err := strconv.Atoi(req.PostFormValue("id"))
			if err != nil {
				return err
			}
			if err := ctx.db.DeleteFighter(id); err != nil {
				return err
			}
			ctx.Success("fighter has been deleted")
			ctx.SeeOther("/fighters")
			return nil
		}

		var f = &core.Fighter{
			Name:        strings.TrimSpace(req.PostFormValue("name")),
			Nickname:    strings.TrimSpace(req.PostFormValue("nickname")),
			WeightClass: strings.TrimSpace(req.PostFormValue("weightClass")),
		}
		f.OrgID, _ = strconv.Atoi(req.PostFormValue("org"))
		f.Wins, _ = strconv.Atoi(req.PostFormValue("wins"))
		f.Losses, _ = strconv.Atoi(req.PostFormValue("losses"))
		f.Draws, _ = strconv.Atoi(req.PostFormValue("draws"))

		if f.Name == "" {
			return errors.New("missing name")
		}
		if err := ctx.db.InsertFighter(f); err != nil {
			return err
		}

		ctx.Success("%s has been created", f.Name)
		ctx.SeeOther("/fighters")
		return nil
	}

	var data = &fightersData{
		context: ctx,
	}
	data.OrgID, _ = strconv.Atoi(req.URL.Query().Get("org"))

	var err error
	data.Organizations, err = ctx.db.GetAllOrganizations(1000, 0)
	if err != nil {
		return err
	}

	if data.OrgID > 0 {
		data.Fighters, err = ctx.db.GetFightersByOrg(data.OrgID, 1000, 0)
	} else {
		data.Fighters, err = ctx.db.GetAllFighters(1000, 0)
	}
	if err != nil {
		return err
	}

	return fightersTmpl.Execute(w, data)
}
