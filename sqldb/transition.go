package sqldb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fightwire/fightwire/core"
)

// TransitionDB writes across the article, workflow_log and principal
// tables, which are owned by the other stores. Construct it after them.
type TransitionDB struct {
	*sql.DB
	insertLog *sql.Stmt
	recount   *sql.Stmt
	setEditor *sql.Stmt
	update    *sql.Stmt
}

func NewTransitionDB(db *sql.DB) *TransitionDB {

	var transitionDB = &TransitionDB{}
	transitionDB.DB = db
	transitionDB.insertLog = mustPrepare(db, "INSERT INTO workflow_log (articleId, actorId, action, fromStatus, toStatus, note, metadata, tsCreated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	// counters are recomputed from scratch, never incremented
	transitionDB.recount = mustPrepare(db, `
		UPDATE principal SET
			articlesAuthored = (SELECT COUNT(*) FROM article WHERE article.authorId = principal.id),
			articlesEdited = (SELECT COUNT(*) FROM article WHERE article.editorId = principal.id),
			articlesPublished = (SELECT COUNT(*) FROM article WHERE article.authorId = principal.id AND article.status = ?),
			lastArticle = COALESCE((SELECT MAX(article.tsCreated) FROM article WHERE article.authorId = principal.id), 0)
		WHERE id = ?`)
	transitionDB.setEditor = mustPrepare(db, "UPDATE article SET editorId = ?, tsUpdated = ? WHERE id = ?")
	// the from-status in the WHERE clause is the optimistic lock
	transitionDB.update = mustPrepare(db, `
		UPDATE article SET
			status = ?,
			tsPublished = ?,
			editorId = CASE WHEN ? = 0 THEN editorId ELSE ? END,
			tsUpdated = ?
		WHERE id = ? AND status = ?`)
	return transitionDB
}

func encodeMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func (db *TransitionDB) appendLogTx(tx *sql.Tx, entry core.LogEntry) error {
	metadata, err := encodeMetadata(entry.Metadata)
	if err != nil {
		return err
	}
	_, err = tx.Stmt(db.insertLog).Exec(entry.ArticleID, entry.ActorID, entry.Action, int(entry.FromStatus), int(entry.ToStatus), entry.Note, metadata, entry.Created)
	return err
}

// ApplyTransition commits the article row update, the log entries and
// the counter recomputations as one transaction. A from-status mismatch
// (a concurrent transition won the race) rolls back and returns
// core.ErrConflict.
func (db *TransitionDB) ApplyTransition(spec *core.TransitionSpec) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	res, err := tx.Stmt(db.update).Exec(int(spec.To), spec.PublishedAt, spec.EditorID, spec.EditorID, time.Now().Unix(), spec.ArticleID, int(spec.From))
	if err != nil {
		tx.Rollback()
		return err
	}

	if affected, err := res.RowsAffected(); err != nil {
		tx.Rollback()
		return err
	} else if affected == 0 {
		tx.Rollback()
		return fmt.Errorf("%w: article %d is no longer %s", core.ErrConflict, spec.ArticleID, spec.From)
	}

	for _, entry := range spec.Entries {
		if err := db.appendLogTx(tx, entry); err != nil {
			tx.Rollback()
			return err
		}
	}

	var recounted = make(map[int]interface{})
	for _, principalID := range spec.Recount {
		if principalID == 0 {
			continue
		}
		if _, ok := recounted[principalID]; ok {
			continue
		}
		recounted[principalID] = struct{}{}
		if _, err := tx.Stmt(db.recount).Exec(int(core.Published), principalID); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// SetEditor replaces the editor assignment and writes its log entry in
// the same transaction. The status does not change.
func (db *TransitionDB) SetEditor(articleID int, editorID int, entry core.LogEntry) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Stmt(db.setEditor).Exec(editorID, time.Now().Unix(), articleID); err != nil {
		tx.Rollback()
		return err
	}

	if err := db.appendLogTx(tx, entry); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (db *TransitionDB) AppendLog(entry core.LogEntry) error {
	metadata, err := encodeMetadata(entry.Metadata)
	if err != nil {
		return err
	}
	_, err = db.insertLog.Exec(entry.ArticleID, entry.ActorID, entry.Action, int(entry.FromStatus), int(entry.ToStatus), entry.Note, metadata, entry.Created)
	return err
}

func (db *TransitionDB) RecountActivity(principalID int) error {
	_, err := db.recount.Exec(int(core.Published), principalID)
	return err
}
