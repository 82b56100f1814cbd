package backend

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fightwire/fightwire/auth"
	"github.com/fightwire/fightwire/core"
	"github.com/julienschmidt/httprouter"
)

var articleTmpl = tmpl(`<h1>{{ .Article.Title }}
		{{ if .Article.Breaking }}<span class="badge badge-danger">breaking</span>{{ end }}
		{{ if .Article.Featured }}<span class="badge badge-info">featured</span>{{ end }}
	</h1>

	<p>
		Status: <strong>{{ .Article.Status }}</strong>
		| Created: {{ FormatTs .Article.Created }}
		{{ if .Article.PublishedAt }}| Published: {{ FormatTs .Article.PublishedAt }}{{ end }}
		{{ with .Editor }}| Editor: {{ .Name }}{{ end }}
	</p>

	{{ if .MayEdit }}

		<form method="post">
			<div class="form-group">
				<input type="text" class="form-control" name="title" value="{{ .Article.Title }}" required>
			</div>
			<div class="form-group">
				<textarea class="form-control" name="body" rows="12">{{ .Article.Body }}</textarea>
			</div>
			<div class="form-group form-inline">
				<input type="text" class="form-control" name="category" value="{{ .Article.Category }}" placeholder="Category">
				<input type="text" class="form-control mx-sm-3" name="tags" value="{{ .Article.Tags }}" placeholder="Tags">
				<select class="form-control" name="event">
					<option value="0">no event</option>
					{{ $eventId := .Article.EventID }}
					{{ range .Events }}
						<option value="{{ .ID }}" {{ if eq .ID $eventId }}selected{{ end }}>{{ .Name }}</option>
					{{ end }}
				</select>
			</div>
			<button type="submit" class="btn btn-primary">Save</button>
		</form>

	{{ else if .Fields.body }}

		<div class="card mb-3">
			<div class="card-body">{{ RenderBody .Article.Body }}</div>
		</div>

	{{ end }}

	<div class="form-inline mt-3">

		{{ $ctx := . }}
		{{ range .Targets }}
			<form method="post" action="article/{{ $ctx.Article.ID }}/transition" class="mr-2">
				<input type="hidden" name="target" value="{{ . }}">
				<button type="submit" class="btn btn-outline-secondary">{{ $ctx.TargetLabel . }}</button>
			</form>
		{{ end }}

		{{ if .MayDelete }}
			<form method="post" action="article/{{ .Article.ID }}/delete">
				<button type="submit" class="btn btn-outline-danger">Delete draft</button>
			</form>
		{{ end }}

	</div>

	{{ if .Fields.editor }}

		<h2 class="mt-4">Editor</h2>

		<form method="post" action="article/{{ .Article.ID }}/assign" class="form-inline">
			<select class="form-control" name="editor">
				{{ $editorId := .Article.EditorID }}
				{{ range .Editors }}
					<option value="{{ .ID }}" {{ if eq .ID $editorId }}selected{{ end }}>{{ .Name }}</option>
				{{ end }}
			</select>
			<button type="submit" class="btn btn-secondary ml-2">Assign</button>
		</form>

	{{ end }}

	{{ if .Can "feature" }}

		<h2 class="mt-4">Flags</h2>

		<form method="post" class="form-inline">
			<input type="hidden" name="flags" value="1">
			<div class="form-check form-check-inline">
				<input type="checkbox" class="form-check-input" name="featured" {{ if .Article.Featured }}checked{{ end }}>
				<label class="form-check-label">featured</label>
			</div>
			<div class="form-check form-check-inline">
				<input type="checkbox" class="form-check-input" name="breaking" {{ if .Article.Breaking }}checked{{ end }}>
				<label class="form-check-label">breaking</label>
			</div>
			<button type="submit" class="btn btn-secondary">Update flags</button>
		</form>

	{{ end }}

	{{ if .Fields.log }}

		<h2 class="mt-4">History</h2>

		<table class="table table-sm">
			<thead>
				<tr>
					<th>When</th>
					<th>Who</th>
					<th>Action</th>
					<th>Note</th>
				</tr>
			</thead>
			<tbody>
				{{ range .Log }}
					<tr>
						<td>{{ FormatTs .Created }}</td>
						<td>{{ $ctx.ActorName .ActorID }}</td>
						<td>{{ .Action }}</td>
						<td>{{ .Note }}</td>
					</tr>
				{{ end }}
			</tbody>
		</table>

	{{ end }}`)

type articleData struct {
	*context
	Article *core.Article
	Fields  map[string]bool
	Editor  *auth.Principal
	Editors []auth.Principal
	Events  []core.Event
	Log     []core.LogEntry
}

func (data *articleData) MayEdit() bool {
	return core.MayEdit(data.Principal, data.Article)
}

func (data *articleData) MayDelete() bool {
	if data.Article.Status != core.Draft {
		return false
	}
	return data.Principal.ID == data.Article.AuthorID || data.Can("override-workflow")
}

// Targets lists the transitions the viewing principal may actually take.
func (data *articleData) Targets() []core.Status {
	var targets []core.Status
	for _, target := range core.AllStatuses() {
		if target == data.Article.Status {
			continue
		}
		if !core.CanTransition(data.Article.Status, target) {
			continue
		}
		if !data.authorized(target) {
			continue
		}
		targets = append(targets, target)
	}
	return targets
}

// mirrors the engine's authorization so we don't offer buttons which
// would only fail
func (data *articleData) authorized(target core.Status) bool {
	if data.Can("override-workflow") {
		return true
	}
	switch target {
	case core.Published:
		return data.Can("publish")
	case core.Archived:
		if data.Article.Status == core.Draft && data.MayEdit() {
			return true
		}
		return data.Can("archive")
	case core.Draft:
		if data.Article.Status == core.Published {
			return data.Can("unpublish")
		}
		return data.MayEdit()
	case core.Review:
		return data.MayEdit()
	}
	return false
}

func (data *articleData) TargetLabel(target core.Status) string {
	switch {
	case data.Article.Status == core.Draft && target == core.Review:
		return "Submit for review"
	case data.Article.Status == core.Review && target == core.Published:
		return "Approve & publish"
	case data.Article.Status == core.Review && target == core.Draft:
		return "Reject"
	case data.Article.Status == core.Published && target == core.Draft:
		return "Unpublish"
	case target == core.Archived:
		return "Archive"
	case data.Article.Status == core.Archived:
		return "Reactivate to " + target.String()
	}
	return "Move to " + target.String()
}

func (data *articleData) ActorName(id int) string {
	if id == 0 {
		return "system"
	}
	if p, err := data.db.Auth.GetPrincipal(id); err == nil {
		return p.Name
	}
	return "#" + strconv.Itoa(id)
}

func loadArticle(ctx *context, params httprouter.Params) (*core.Article, error) {
	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return nil, core.ErrNotFound
	}
	return ctx.db.GetArticle(id)
}

func article(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	a, err := loadArticle(ctx, params)
	if err != nil {
		return err
	}

	if a.Status != core.Published && a.AuthorID != ctx.Principal.ID && !ctx.Can("view-unpublished") {
		return ErrAuth
	}

	if req.Method == http.MethodPost {

		if req.PostFormValue("flags") != "" {

			if featured := req.PostFormValue("featured") != ""; featured != a.Featured {
				if err := ctx.db.SetFeatured(a.ID, featured, ctx.Principal); err != nil {
					return err
				}
			}
			if breaking := req.PostFormValue("breaking") != ""; breaking != a.Breaking {
				if err := ctx.db.SetBreaking(a.ID, breaking, ctx.Principal); err != nil {
					return err
				}
			}

			ctx.Success("flags have been updated")
			ctx.SeeOther("/article/%d", a.ID)
			return nil
		}

		if !core.MayEdit(ctx.Principal, a) {
			return ErrAuth
		}

		a.Title = strings.TrimSpace(req.PostFormValue("title"))
		a.Body = req.PostFormValue("body")
		a.Category = strings.TrimSpace(req.PostFormValue("category"))
		a.Tags = strings.TrimSpace(req.PostFormValue("tags"))
		a.EventID, _ = strconv.Atoi(req.PostFormValue("event"))

		if err := ctx.db.UpdateMeta(a); err != nil {
			return err
		}

		ctx.Success("%s has been saved", a.Title)
		ctx.SeeOther("/article/%d", a.ID)
		return nil
	}

	var data = &articleData{
		context: ctx,
		Article: a,
		Fields:  visibleFields(ctx.Principal, a),
	}

	if a.EditorID != 0 {
		data.Editor, _ = ctx.db.Auth.GetPrincipal(a.EditorID)
	}

	if data.Fields["editor"] {
		data.Editors, _ = ctx.db.Auth.FilterActiveByRole(auth.RoleEditor, 100)
	}

	if data.Fields["log"] {
		data.Log, _ = ctx.db.GetLogByArticle(a.ID, 100, 0)
	}

	if core.MayEdit(ctx.Principal, a) {
		data.Events, _ = ctx.db.GetAllEvents(1000, 0)
	}

	return articleTmpl.Execute(w, data)
}

// transition dispatches to the named workflow operation for the pair, so
// the per-operation pre-checks and extra log entries apply.
func transition(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	a, err := loadArticle(ctx, params)
	if err != nil {
		return err
	}

	target, err := core.ParseStatus(req.PostFormValue("target"))
	if err != nil {
		return err
	}

	var note = strings.TrimSpace(req.PostFormValue("note"))

	switch {
	case a.Status == core.Draft && target == core.Review:
		_, err = ctx.db.SubmitForReview(a.ID, ctx.Principal, note)
	case a.Status == core.Review && target == core.Published:
		_, err = ctx.db.Approve(a.ID, ctx.Principal, note)
	case a.Status == core.Review && target == core.Draft:
		_, err = ctx.db.Reject(a.ID, ctx.Principal, note)
	case a.Status == core.Published && target == core.Draft:
		_, err = ctx.db.Unpublish(a.ID, ctx.Principal, note)
	case target == core.Archived:
		_, err = ctx.db.Archive(a.ID, ctx.Principal, note)
	default:
		_, err = ctx.db.Transition(a.ID, target, ctx.Principal, note, nil)
	}
	if err != nil {
		return err
	}

	ctx.Success("%s is now %s", a.Title, target)
	ctx.SeeOther("/article/%d", a.ID)
	return nil
}

func assignEditor(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	a, err := loadArticle(ctx, params)
	if err != nil {
		return err
	}

	editorID, err := strconv.Atoi(req.PostFormValue("editor"))
	if err != nil {
		return err
	}

	if err := ctx.db.AssignEditor(a.ID, editorID, ctx.Principal, strings.TrimSpace(req.PostFormValue("note"))); err != nil {
		return err
	}

	ctx.Success("editor has been assigned")
	ctx.SeeOther("/article/%d", a.ID)
	return nil
}

func deleteDraft(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	a, err := loadArticle(ctx, params)
	if err != nil {
		return err
	}

	if err := ctx.db.DeleteDraft(a.ID, ctx.Principal); err != nil {
		return err
	}

	ctx.Success("draft %s has been deleted", a.Title)
	ctx.SeeOther("/articles")
	return nil
}
