package backend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fightwire/fightwire/core"
	"github.com/julienschmidt/httprouter"
)

var bulkTmpl = tmpl(`<h1>Bulk Operations</h1>

	<form method="post">
		<div class="form-group">
			<label>Article IDs (comma- or space-separated)</label>
			<input type="text" class="form-control" name="ids" value="{{ .Ids }}" required>
		</div>
		<div class="form-group">
			<label>Note</label>
			<input type="text" class="form-control" name="note">
		</div>
		<div class="form-group">
			{{ if .Can "bulk-publish" }}
				<button type="submit" class="btn btn-primary" name="op" value="approve">Approve &amp; publish</button>
			{{ end }}
			{{ if .Can "bulk-archive" }}
				<button type="submit" class="btn btn-secondary" name="op" value="archive">Archive</button>
			{{ end }}
		</div>
	</form>

	{{ with .Result }}

		<h2>{{ .SucceededCount }} succeeded, {{ .FailedCount }} failed</h2>

		<table class="table table-sm">
			<tbody>
				{{ range .Successful }}
					<tr class="table-success">
						<td><a href="article/{{ .ID }}">{{ .ID }}</a></td>
						<td>{{ .Title }}</td>
						<td>ok</td>
					</tr>
				{{ end }}
				{{ range .Failed }}
					<tr class="table-danger">
						<td><a href="article/{{ .ID }}">{{ .ID }}</a></td>
						<td>{{ .Title }}</td>
						<td>{{ .Reason }}</td>
					</tr>
				{{ end }}
			</tbody>
		</table>

	{{ end }}`)

type bulkData struct {
	*context
	Ids    string
	Result *core.BulkResult
}

func bulk(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.Can("bulk-publish") && !ctx.Can("bulk-archive") {
		return ErrAuth
	}

	var data = &bulkData{
		context: ctx,
	}

	if req.Method == http.MethodPost {

		data.Ids = req.PostFormValue("ids")
		var ids = SplitIds(data.Ids)
		if len(ids) == 0 {
			return errors.New("no valid article ids")
		}

		var note = strings.TrimSpace(req.PostFormValue("note"))
		var err error

		switch req.PostFormValue("op") {
		case "approve":
			data.Result, err = ctx.db.BulkApprove(ids, ctx.Principal, note)
		case "archive":
			data.Result, err = ctx.db.BulkArchive(ids, ctx.Principal, note)
		default:
			err = errors.New("unknown bulk operation")
		}
		if err != nil {
			return err
		}
	}

	return bulkTmpl.Execute(w, data)
}
