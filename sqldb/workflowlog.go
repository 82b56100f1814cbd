package sqldb

import (
	"database/sql"
	"encoding/json"

	"github.com/fightwire/fightwire/core"
)

// WorkflowLogDB is the read side of the append-only ledger. Appends go
// through TransitionDB so they share the transition's transaction.
type WorkflowLogDB struct {
	*sql.DB
	all            *sql.Stmt
	byAction       *sql.Stmt
	byActor        *sql.Stmt
	byArticle      *sql.Stmt
	countActions   *sql.Stmt
	distinctActors *sql.Stmt
}

func NewWorkflowLogDB(db *sql.DB) *WorkflowLogDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS workflow_log (
			id INTEGER PRIMARY KEY,
			articleId int(11) NOT NULL,
			actorId int(11) NOT NULL DEFAULT 0,
			action varchar(32) NOT NULL,
			fromStatus int(11) NOT NULL,
			toStatus int(11) NOT NULL,
			note text NOT NULL,
			metadata text NOT NULL,
			tsCreated int(11) NOT NULL
		);
		CREATE INDEX IF NOT EXISTS workflow_log_article_idx ON workflow_log(articleId);
		CREATE INDEX IF NOT EXISTS workflow_log_created_idx ON workflow_log(tsCreated);`)

	var logDB = &WorkflowLogDB{}
	logDB.DB = db
	logDB.all = mustPrepare(db, "SELECT "+logColumns+" FROM workflow_log ORDER BY tsCreated DESC, id DESC LIMIT ? OFFSET ?")
	logDB.byAction = mustPrepare(db,"SELECT "+logColumns+" FROM workflow_log WHERE action = ? ORDER BY tsCreated DESC, id DESC LIMIT ? OFFSET ?")
	logDB.byActor = mustPrepare(db, "SELECT "+logColumns+" FROM workflow_log WHERE actorId = ? ORDER BY tsCreated DESC, id DESC LIMIT ? OFFSET ?")
	logDB.byArticle = mustPrepare(db, "SELECT "+logColumns+" FROM workflow_log WHERE articleId = ? ORDER BY tsCreated, id LIMIT ? OFFSET ?")
	logDB.countActions = mustPrepare(db, "SELECT action, COUNT(*) FROM workflow_log WHERE tsCreated >= ? GROUP BY action")
	logDB.distinctActors = mustPrepare(db, "SELECT COUNT(DISTINCT actorId) FROM workflow_log WHERE tsCreated >= ? AND actorId != 0")
	return logDB
}

const logColumns = "id, articleId, actorId, action, fromStatus, toStatus, note, metadata, tsCreated"

func scanLogEntry(row rowScanner) (*core.LogEntry, error) {

	var e core.LogEntry
	var fromStatus, toStatus int
	var metadata string

	err := row.Scan(&e.ID, &e.ArticleID, &e.ActorID, &e.Action, &fromStatus, &toStatus, &e.Note, &metadata, &e.Created)
	if err != nil {
		return nil, err
	}

	e.FromStatus = core.Status(fromStatus)
	e.ToStatus = core.Status(toStatus)

	if metadata != "" && metadata != "{}" {
		if err := json.Unmarshal([]byte(metadata), &e.Metadata); err != nil {
			return nil, err
		}
	}

	return &e, nil
}

func (db *WorkflowLogDB) getMultiple(stmt *sql.Stmt, args ...interface{}) ([]core.LogEntry, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.LogEntry{}

	for rows.Next() {
		e, err := scanLogEntry(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *e)
	}

	return all, nil
}

func (db *WorkflowLogDB) GetLog(limit, offset int) ([]core.LogEntry, error) {
	return db.getMultiple(db.all, limit, offset)
}

func (db *WorkflowLogDB) GetLogByArticle(articleID int, limit, offset int) ([]core.LogEntry, error) {
	return db.getMultiple(db.byArticle, articleID, limit, offset)
}

func (db *WorkflowLogDB) GetLogByActor(actorID int, limit, offset int) ([]core.LogEntry, error) {
	return db.getMultiple(db.byActor, actorID, limit, offset)
}

func (db *WorkflowLogDB) GetLogByAction(action string, limit, offset int) ([]core.LogEntry, error) {
	return db.getMultiple(db.byAction, action, limit, offset)
}

func (db *WorkflowLogDB) CountActionsSince(ts int64) (map[string]int, error) {

	rows, err := db.countActions.Query(ts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts = make(map[string]int)

	for rows.Next() {
		var action string
		var count int
		if err = rows.Scan(&action, &count); err != nil {
			return nil, err
		}
		counts[action] = count
	}

	return counts, nil
}

func (db *WorkflowLogDB) CountDistinctActorsSince(ts int64) (int, error) {
	var count int
	err := db.distinctActors.QueryRow(ts).Scan(&count)
	return count, err
}
