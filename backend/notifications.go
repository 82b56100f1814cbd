package backend

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fightwire/fightwire/core"
	"github.com/julienschmidt/httprouter"
)

var notificationsTmpl = tmpl(`<h1>Inbox</h1>

	<table class="table table-sm">
		<tbody>
			{{ range .Notifications }}
				<tr {{ if .Unread }}class="font-weight-bold"{{ end }}>
					<td>{{ FormatTs .Created }}</td>
					<td>{{ .Type }}</td>
					<td>
						{{ .Title }}<br>
						<small>{{ .Body }}</small>
					</td>
					<td><a href="article/{{ .ArticleID }}">article</a></td>
					<td>
						{{ if .Unread }}
							<form method="post" class="d-inline">
								<input type="hidden" name="id" value="{{ .ID }}">
								<button type="submit" class="btn btn-sm btn-outline-secondary" name="do" value="read">Mark read</button>
							</form>
						{{ end }}
						<form method="post" class="d-inline">
							<input type="hidden" name="id" value="{{ .ID }}">
							<button type="submit" class="btn btn-sm btn-outline-secondary" name="do" value="dismiss">Dismiss</button>
						</form>
					</td>
				</tr>
			{{ else }}
				<tr>
					<td>Nothing here.</td>
				</tr>
			{{ end }}
		</tbody>
	</table>`)

type notificationItem struct {
	core.Notification
}

func (n notificationItem) Unread() bool {
	return n.Status == core.DeliveryPending || n.Status == core.DeliverySent
}

type notificationsData struct {
	*context
	Notifications []notificationItem
}

func notifications(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		id, err := strconv.Atoi(req.PostFormValue("id"))
		if err != nil {
			return err
		}

		// only the recipient touches their own inbox
		n, err := ctx.db.GetNotification(id)
		if err != nil {
			return err
		}
		if n.RecipientID != ctx.Principal.ID {
			return ErrAuth
		}

		switch req.PostFormValue("do") {
		case "read":
			err = ctx.db.MarkRead(n.ID, time.Now().Unix())
		case "dismiss":
			err = ctx.db.Dismiss(n.ID)
		}
		if err != nil {
			return err
		}

		ctx.SeeOther("/notifications")
		return nil
	}

	all, err := ctx.db.GetNotifications(ctx.Principal.ID, 100, 0)
	if err != nil {
		return err
	}

	var items = make([]notificationItem, 0, len(all))
	for _, n := range all {
		if n.Status == core.DeliveryDismissed {
			continue
		}
		items = append(items, notificationItem{n})
	}

	return notificationsTmpl.Execute(w, &notificationsData{
		context:       ctx,
		Notifications: items,
	})
}
