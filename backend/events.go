package backend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fightwire/fightwire/core"
	"github.com/julienschmidt/httprouter"
)

var eventsTmpl = tmpl(`<h1>Events</h1>

	<p>
		<a href="events">all</a> | <a href="events?upcoming=1">upcoming</a>
	</p>

	<table class="table table-sm">
		<thead>
			<tr>
				<th>Name</th>
				<th>Venue</th>
				<th>City</th>
				<th>Starts</th>
				<th></th>
			</tr>
		</thead>
		<tbody>
			{{ range .Events }}
				<tr>
					<td>{{ .Name }}</td>
					<td>{{ .Venue }}</td>
					<td>{{ .City }}</td>
					<td>{{ FormatTs .StartsAt }}</td>
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

		<h2>New event</h2>

		<form method="post">
			<div class="form-group form-inline">
				<input type="text" class="form-control" name="name" placeholder="Name" required>
				<input type="text" class="form-control mx-sm-3" name="venue" placeholder="Venue">
				<input type="text" class="form-control" name="city" placeholder="City">
			</div>
			<div class="form-group form-inline">
				<select class="form-control" name="org">
					{{ range .Organizations }}
						<option value="{{ .ID }}">{{ .Name }}</option>
					{{ end }}
				</select>
				<input type="datetime-local" class="form-control mx-sm-3" name="startsAt">
			</div>
			<button type="submit" class="btn btn-primary">Create</button>
		</form>

	{{ end }}`)

type eventsData struct {
	*context
	Events        []core.Event
	Organizations []core.Organization
}

func events(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		if !ctx.ManageData() {
			return ErrAuth
		}

		if req.PostFormValue("do") == "delete" {
			id, err := strconv.Atoi(req.PostFormValue("id"))
			if err != nil {
				return err
			}
			if err := ctx.db.DeleteEvent(id); err != nil {
				return err
			}
			ctx.Success("event has been deleted")
			ctx.SeeOther("/events")
			return nil
		}

		var e = &core.Event{
			Name:  strings.TrimSpace(req.PostFormValue("name")),
			Venue: strings.TrimSpace(req.PostFormValue("venue")),
			City:  strings.TrimSpace(req.PostFormValue("city")),
		}
		e.OrgID, _ = strconv.Atoi(req.PostFormValue("org"))

		if startsAt := req.PostFormValue("startsAt"); startsAt != "" {
			t, err := time.ParseInLocation("2006-01-02T15:04", startsAt, time.Local)
			if err != nil {
				return err
			}
			e.StartsAt = t.Unix()
		}

		if e.Name == "" {
			return errors.New("missing name")
		}
		if err := ctx.db.InsertEvent(e); err != nil {
			return err
		}

		ctx.Success("%s has been created", e.Name)
		ctx.SeeOther("/events")
		return nil
	}

	var data = &eventsData{
		context: ctx,
	}

	var err error
	if req.URL.Query().Get("upcoming") != "" {
		data.Events, err = ctx.db.GetUpcomingEvents(time.Now().Unix(), 100)
	} else {
		data.Events, err = ctx.db.GetAllEvents(1000, 0)
	}
	if err != nil {
		return err
	}

	if ctx.ManageData() {
		data.Organizations, err = ctx.db.GetAllOrganizations(1000, 0)
		if err != nil {
			return err
		}
	}

	return eventsTmpl.Execute(w, data)
}
