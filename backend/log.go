package backend

import (
	"net/http"
	"strconv"

	"github.com/fightwire/fightwire/core"
	"github.com/julienschmidt/httprouter"
)

var workflowLogTmpl = tmpl(`<h1>Workflow Log</h1>

	<form class="form-inline">
		<input type="text" class="form-control" name="actor" value="{{ .ActorArg }}" placeholder="Actor ID">
		<input type="text" class="form-control mx-sm-3" name="action" value="{{ .ActionArg }}" placeholder="Action">
		<button type="submit" class="btn btn-secondary">Filter</button>
	</form>

	<table class="table table-sm">
		<thead>
			<tr>
				<th>When</th>
				<th>Article</th>
				<th>Who</th>
				<th>Action</th>
				<th>From</th>
				<th>To</th>
				<th>Note</th>
			</tr>
		</thead>
		<tbody>
			{{ $ctx := . }}
			{{ range .Entries }}
				<tr>
					<td>{{ FormatTs .Created }}</td>
					<td><a href="article/{{ .ArticleID }}">{{ .ArticleID }}</a></td>
					<td>{{ $ctx.ActorName .ActorID }}</td>
					<td>{{ .Action }}</td>
					<td>{{ .FromStatus }}</td>
					<td>{{ .ToStatus }}</td>
					<td>{{ .Note }}</td>
				</tr>
			{{ end }}
		</tbody>
	</table>`)

type workflowLogData struct {
	*context
	ActorArg  string
	ActionArg string
	Entries   []core.LogEntry
}

func (data *workflowLogData) ActorName(id int) string {
	if id == 0 {
		return "system"
	}
	if p, err := data.db.Auth.GetPrincipal(id); err == nil {
		return p.Name
	}
	return "#" + strconv.Itoa(id)
}

func workflowLog(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.Can("view-logs") {
		return ErrAuth
	}

	var data = &workflowLogData{
		context:   ctx,
		ActorArg:  req.URL.Query().Get("actor"),
		ActionArg: req.URL.Query().Get("action"),
	}

	var err error
	if actorID, errConv := strconv.Atoi(data.ActorArg); errConv == nil && actorID > 0 {
		data.Entries, err = ctx.db.GetLogByActor(actorID, 200, 0)
	} else if data.ActionArg != "" {
		data.Entries, err = ctx.db.GetLogByAction(data.ActionArg, 200, 0)
	} else {
		data.Entries, err = ctx.db.GetLog(200, 0)
	}
	if err != nil {
		return err
	}

	return workflowLogTmpl.Execute(w, data)
}
