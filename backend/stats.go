package backend

import (
	"net/http"

	"github.com/fightwire/fightwire/core"
	"github.com/julienschmidt/httprouter"
)

var statsTmpl = tmpl(`<h1>Statistics</h1>

	<h2>Articles by status</h2>

	<table class="table table-sm" style="max-width: 24rem;">
		<tbody>
			{{ $counts := .Stats.StatusCounts }}
			{{ range .Statuses }}
				<tr>
					<td>{{ . }}</td>
					<td>{{ index $counts . }}</td>
				</tr>
			{{ end }}
		</tbody>
	</table>

	<h2>Actions, trailing 30 days</h2>

	<table class="table table-sm" style="max-width: 24rem;">
		<tbody>
			{{ range $action, $count := .Stats.ActionCounts }}
				<tr>
					<td>{{ $action }}</td>
					<td>{{ $count }}</td>
				</tr>
			{{ end }}
		</tbody>
	</table>

	<p>{{ .Stats.ActiveAuthors }} distinct staff members acted in the last 30 days.</p>`)

type statsData struct {
	*context
	Stats *core.WorkflowStatistics
}

func (data *statsData) Statuses() []core.Status {
	return core.AllStatuses()
}

func stats(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.Can("view-analytics") {
		return ErrAuth
	}

	statistics, err := ctx.db.WorkflowStatistics()
	if err != nil {
		return err
	}

	return statsTmpl.Execute(w, &statsData{
		context: ctx,
		Stats:   statistics,
	})
}
