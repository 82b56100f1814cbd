package backend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fightwire/fightwire/auth"
	"github.com/fightwire/fightwire/core"
	"github.com/julienschmidt/httprouter"
)

var articlesTmpl = tmpl(`<h1>Articles</h1>

	<p>
		<a href="articles">all</a>
		{{ range .Statuses }}
			| <a href="articles?status={{ . }}">{{ . }}</a>
		{{ end }}
	</p>

	<table class="table table-sm">
		<thead>
			<tr>
				<th>Title</th>
				<th>Status</th>
				<th>Created</th>
				<th>Published</th>
			</tr>
		</thead>
		<tbody>
			{{ range .Articles }}
				<tr>
					<td>
						<a href="article/{{ .ID }}">{{ .Title }}</a>
						{{ if .Breaking }}<span class="badge badge-danger">breaking</span>{{ end }}
						{{ if .Featured }}<span class="badge badge-info">featured</span>{{ end }}
					</td>
					<td>{{ .Status }}</td>
					<td>{{ FormatTs .Created }}</td>
					<td>{{ FormatTs .PublishedAt }}</td>
				</tr>
			{{ end }}
		</tbody>
	</table>

	{{ if .Can "create" }}

		<h2>New Article</h2>

		<form method="post">
			<div class="form-group">
				<input type="text" class="form-control" name="title" placeholder="Title" required>
			</div>
			<div class="form-group">
				<textarea class="form-control" name="body" rows="6" placeholder="Body (markdown)"></textarea>
			</div>
			<div class="form-group form-inline">
				<input type="text" class="form-control" name="category" placeholder="Category">
				<input type="text" class="form-control mx-sm-3" name="tags" placeholder="Tags, comma-separated">
			</div>
			<button type="submit" class="btn btn-primary">Create draft</button>
		</form>

	{{ end }}`)

type articlesData struct {
	*context
	Articles []core.Article
}

func (data *articlesData) Statuses() []core.Status {
	return core.AllStatuses()
}

func articles(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		if !ctx.Can("create") {
			return ErrAuth
		}

		var a = &core.Article{
			Title:    strings.TrimSpace(req.PostFormValue("title")),
			Body:     req.PostFormValue("body"),
			Category: strings.TrimSpace(req.PostFormValue("category")),
			Tags:     strings.TrimSpace(req.PostFormValue("tags")),
		}

		if a.Title == "" {
			return errors.New("missing title")
		}

		if err := ctx.db.CreateArticle(a, ctx.Principal); err != nil {
			return err
		}

		ctx.Success("draft %s has been created", a.Title)
		ctx.SeeOther("/article/%d", a.ID)
		return nil
	}

	var all []core.Article
	var err error

	if statusArg := req.URL.Query().Get("status"); statusArg != "" {
		status, err2 := core.ParseStatus(statusArg)
		if err2 != nil {
			return err2
		}
		all, err = ctx.db.GetArticlesByStatus(status, 1000, 0)
	} else {
		all, err = ctx.db.GetAllArticles(1000, 0)
	}
	if err != nil {
		return err
	}

	// principals without view-unpublished see only published work and their own
	if !ctx.Can("view-unpublished") {
		var visible = []core.Article{}
		for _, a := range all {
			if a.Status == core.Published || a.AuthorID == ctx.Principal.ID {
				visible = append(visible, a)
			}
		}
		all = visible
	}

	return articlesTmpl.Execute(w, &articlesData{
		context:  ctx,
		Articles: all,
	})
}

// visibleFields computes the per-role field projection of an article,
// once per response. Templates consult the returned set instead of
// branching on the role again.
func visibleFields(viewer *auth.Principal, a *core.Article) map[string]bool {

	var fields = map[string]bool{
		"title":    true,
		"status":   true,
		"category": true,
		"tags":     true,
	}

	if a.Status == core.Published || viewer.HasCapability(auth.CapViewUnpublished) || viewer.ID == a.AuthorID {
		fields["body"] = true
	}
	if viewer.HasCapability(auth.CapViewLogs) {
		fields["log"] = true
	}
	if viewer.HasCapability(auth.CapAssignEditor) {
		fields["editor"] = true
	}

	return fields
}
