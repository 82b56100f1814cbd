package sqldb

import (
	"database/sql"
	"time"

	"github.com/fightwire/fightwire/core"
)

const notificationColumns = "id, recipientId, articleId, type, title, body, status, emailSent, tsEmailSent, tsRead, tsCreated"

func scanNotification(row rowScanner) (*core.Notification, error) {
	var n core.Notification
	var kind, status int
	err := row.Scan(&n.ID, &n.RecipientID, &n.ArticleID, &kind, &n.Title, &n.Body, &status, &n.EmailSent, &n.EmailSentAt, &n.ReadAt, &n.Created)
	if err != nil {
		return nil, err
	}
	n.Type = core.NotificationType(kind)
	n.Status = core.DeliveryStatus(status)
	return &n, nil
}

type NotificationDB struct {
	*sql.DB
	countUnread   *sql.Stmt
	dismiss       *sql.Stmt
	get           *sql.Stmt
	getByRecipient *sql.Stmt
	insert        *sql.Stmt
	markEmailSent *sql.Stmt
	markRead      *sql.Stmt
}

func NewNotificationDB(db *sql.DB) *NotificationDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS notification (
			id INTEGER PRIMARY KEY,
			recipientId int(11) NOT NULL,
			articleId int(11) NOT NULL,
			type int(11) NOT NULL,
			title varchar(256) NOT NULL,
			body text NOT NULL,
			status int(11) NOT NULL,
			emailSent bool NOT NULL DEFAULT 0,
			tsEmailSent int(11) NOT NULL DEFAULT 0,
			tsRead int(11) NOT NULL DEFAULT 0,
			tsCreated int(11) NOT NULL
		);
		CREATE INDEX IF NOT EXISTS notification_recipient_idx ON notification(recipientId);`)

	var notificationDB = &NotificationDB{}
	notificationDB.DB = db
	notificationDB.countUnread = mustPrepare(db, "SELECT COUNT(*) FROM notification WHERE recipientId = ? AND status IN (?, ?)")
	notificationDB.dismiss = mustPrepare(db, "UPDATE notification SET status = ? WHERE id = ?")
	notificationDB.get = mustPrepare(db, "SELECT "+notificationColumns+" FROM notification WHERE id = ? LIMIT 1")
	notificationDB.getByRecipient = mustPrepare(db, "SELECT "+notificationColumns+" FROM notification WHERE recipientId = ? ORDER BY tsCreated DESC, id DESC LIMIT ? OFFSET ?")
	notificationDB.insert = mustPrepare(db, "INSERT INTO notification (recipientId, articleId, type, title, body, status, tsCreated) VALUES (?, ?, ?, ?, ?, ?, ?)")
	// the emailSent guard makes delivery marking idempotent
	notificationDB.markEmailSent = mustPrepare(db, `
		UPDATE notification SET
			emailSent = 1,
			tsEmailSent = ?,
			status = CASE WHEN status = ? THEN ? ELSE status END
		WHERE id = ? AND emailSent = 0`)
	notificationDB.markRead = mustPrepare(db, "UPDATE notification SET status = ?, tsRead = ? WHERE id = ? AND status != ?")
	return notificationDB
}

func (db *NotificationDB) CountUnread(recipientID int) (int, error) {
	var count int
	err := db.countUnread.QueryRow(recipientID, int(core.DeliveryPending), int(core.DeliverySent)).Scan(&count)
	return count, err
}

func (db *NotificationDB) Dismiss(id int) error {
	_, err := db.dismiss.Exec(int(core.DeliveryDismissed), id)
	return err
}

// GetNotification may return sql.ErrNoRows.
func (db *NotificationDB) GetNotification(id int) (*core.Notification, error) {
	return scanNotification(db.get.QueryRow(id))
}

func (db *NotificationDB) GetNotifications(recipientID int, limit, offset int) ([]core.Notification, error) {

	rows, err := db.getByRecipient.Query(recipientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.Notification{}

	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *n)
	}

	return all, nil
}

func (db *NotificationDB) InsertNotification(n *core.Notification) error {

	var now = time.Now().Unix()
	if n.Status == 0 {
		n.Status = core.DeliveryPending
	}

	res, err := db.insert.Exec(n.RecipientID, n.ArticleID, int(n.Type), n.Title, n.Body, int(n.Status), now)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	n.ID = int(id)
	n.Created = now
	return nil
}

func (db *NotificationDB) MarkEmailSent(id int, ts int64) error {
	_, err := db.markEmailSent.Exec(ts, int(core.DeliveryPending), int(core.DeliverySent), id)
	return err
}

func (db *NotificationDB) MarkRead(id int, ts int64) error {
	_, err := db.markRead.Exec(int(core.DeliveryRead), ts, id, int(core.DeliveryDismissed))
	return err
}
