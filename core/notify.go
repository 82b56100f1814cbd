package core

import (
	"fmt"
	"log"
	"time"

	"github.com/fightwire/fightwire/auth"
)

type NotificationType int

const (
	NotifyAssignment NotificationType = iota + 1
	NotifyStatusChange
	NotifyComment
	NotifyDeadline
	NotifyApproval
)

func (t NotificationType) String() string {
	switch t {
	case NotifyAssignment:
		return "assignment"
	case NotifyStatusChange:
		return "status_change"
	case NotifyComment:
		return "comment"
	case NotifyDeadline:
		return "deadline"
	case NotifyApproval:
		return "approval"
	}
	return "unknown"
}

type DeliveryStatus int

const (
	DeliveryPending DeliveryStatus = iota + 1
	DeliverySent
	DeliveryRead
	DeliveryDismissed
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryPending:
		return "pending"
	case DeliverySent:
		return "sent"
	case DeliveryRead:
		return "read"
	case DeliveryDismissed:
		return "dismissed"
	}
	return "unknown"
}

// A Notification is an informational message owed to a principal as a
// result of a workflow event. Email delivery is attempted once per record
// and is idempotent, guarded by EmailSent.
type Notification struct {
	ID          int
	RecipientID int
	ArticleID   int
	Type        NotificationType
	Title       string
	Body        string
	Status      DeliveryStatus
	EmailSent   bool
	EmailSentAt int64
	ReadAt      int64
	Created     int64
}

type NotificationDB interface {
	CountUnread(recipientID int) (int, error)
	Dismiss(id int) error
	GetNotification(id int) (*Notification, error)
	GetNotifications(recipientID int, limit, offset int) ([]Notification, error)
	InsertNotification(n *Notification) error // sets n.ID and n.Created
	MarkEmailSent(id int, ts int64) error     // also moves pending to sent
	MarkRead(id int, ts int64) error
}

// A Mailer delivers a fully-formed message to one recipient address.
// Its retry and queueing policy is its own business.
type Mailer interface {
	Send(to, subject, body string) error
}

// message templates keyed by target status
var statusMessages = map[Status]struct{ title, body string }{
	Review:    {"Submitted for review", "%q has been submitted for review."},
	Published: {"Published", "%q has been approved and published."},
	Draft:     {"Returned to draft", "%q has been returned to draft."},
	Archived:  {"Archived", "%q has been archived."},
}

// A Dispatcher decides who must be informed of a workflow event, builds
// the notification records and attempts email delivery once per record.
//
// Delivery is best-effort: a failed send leaves EmailSent false
// (retryable) and is logged, it never fails the workflow operation that
// triggered it.
type Dispatcher struct {
	DB         NotificationDB
	Principals auth.PrincipalDB
	Mailer     Mailer
}

// DispatchTransition informs the article's author and its assigned editor
// of a status change. The acting principal is never notified about their
// own action, and each recipient's opt-in is honored.
func (d *Dispatcher) DispatchTransition(a *Article, from, to Status, actor *auth.Principal) {

	var actorID int
	if actor != nil {
		actorID = actor.ID
	}

	var kind = NotifyStatusChange
	if to == Published {
		kind = NotifyApproval
	}

	title, body := statusMessage(a.Title, from, to)

	if a.AuthorID != 0 && a.AuthorID != actorID {
		d.dispatch(a.AuthorID, a.ID, kind, title, body)
	}

	if a.EditorID != 0 && a.EditorID != actorID && a.EditorID != a.AuthorID {
		d.dispatch(a.EditorID, a.ID, kind, title, body)
	}
}

// DispatchAssignment informs the newly assigned editor, and nobody else.
func (d *Dispatcher) DispatchAssignment(a *Article, editor *auth.Principal, assigner *auth.Principal) {
	var by = "the system"
	if assigner != nil {
		by = assigner.Name
	}
	d.dispatch(editor.ID, a.ID,
		NotifyAssignment,
		"Editor assignment",
		fmt.Sprintf("You have been assigned as the editor of %q by %s.", a.Title, by),
	)
}

func statusMessage(articleTitle string, from, to Status) (string, string) {
	if msg, ok := statusMessages[to]; ok {
		return msg.title, fmt.Sprintf(msg.body, articleTitle)
	}
	return "Status changed", fmt.Sprintf("%q status changed from %s to %s.", articleTitle, from, to)
}

// dispatch builds one record for one recipient, honoring the recipient's
// opt-in, and attempts delivery.
func (d *Dispatcher) dispatch(recipientID int, articleID int, kind NotificationType, title, body string) {

	recipient, err := d.Principals.GetPrincipal(recipientID)
	if err != nil {
		log.Printf("error loading notification recipient %d: %v", recipientID, err)
		return
	}

	if !optedIn(recipient.Prefs, kind) {
		return
	}

	var n = &Notification{
		RecipientID: recipient.ID,
		ArticleID:   articleID,
		Type:        kind,
		Title:       title,
		Body:        body,
		Status:      DeliveryPending,
	}

	if err := d.DB.InsertNotification(n); err != nil {
		log.Printf("error storing notification for %s: %v", recipient.Name, err)
		return
	}

	d.deliver(n, recipient.Name)
}

// deliver attempts the email exactly once. EmailSent is set only on
// confirmed success, so an unset flag means the record may be retried by
// whatever sweeps pending notifications later.
func (d *Dispatcher) deliver(n *Notification, address string) {

	if d.Mailer == nil || n.EmailSent {
		return
	}

	if err := d.Mailer.Send(address, n.Title, n.Body); err != nil {
		log.Printf("error sending notification %d to %s: %v", n.ID, address, err)
		return
	}

	var now = time.Now().Unix()
	if err := d.DB.MarkEmailSent(n.ID, now); err != nil {
		log.Printf("error marking notification %d sent: %v", n.ID, err)
		return
	}

	n.EmailSent = true
	n.EmailSentAt = now
	n.Status = DeliverySent
}

func optedIn(prefs auth.NotificationPrefs, kind NotificationType) bool {
	switch kind {
	case NotifyAssignment:
		return prefs.Assignment
	case NotifyStatusChange:
		return prefs.StatusChange
	case NotifyComment:
		return prefs.Comment
	case NotifyDeadline:
		return prefs.Deadline
	case NotifyApproval:
		return prefs.Approval
	}
	return false
}
