package sqldb

import (
	"database/sql"

	"github.com/fightwire/fightwire/core"
)

const eventColumns = "id, orgId, name, venue, city, tsStarts"

func scanEvent(row rowScanner) (*core.Event, error) {
	var e core.Event
	err := row.Scan(&e.ID, &e.OrgID, &e.Name, &e.Venue, &e.City, &e.StartsAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type EventDB struct {
	*sql.DB
	delete      *sql.Stmt
	get         *sql.Stmt
	getAll      *sql.Stmt
	getUpcoming *sql.Stmt
	insert      *sql.Stmt
	update      *sql.Stmt
}

func NewEventDB(db *sql.DB) *EventDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS event (
			id INTEGER PRIMARY KEY,
			orgId int(11) NOT NULL DEFAULT 0,
			name varchar(128) NOT NULL,
			venue varchar(128) NOT NULL,
			city varchar(128) NOT NULL,
			tsStarts int(11) NOT NULL
		);`)

	var eventDB = &EventDB{}
	eventDB.DB = db
	eventDB.delete = mustPrepare(db, "DELETE FROM event WHERE id = ?")
	eventDB.get = mustPrepare(db, "SELECT "+eventColumns+" FROM event WHERE id = ? LIMIT 1")
	eventDB.getAll = mustPrepare(db, "SELECT "+eventColumns+" FROM event ORDER BY tsStarts DESC LIMIT ? OFFSET ?")
	eventDB.getUpcoming = mustPrepare(db, "SELECT "+eventColumns+" FROM event WHERE tsStarts >= ? ORDER BY tsStarts LIMIT ?")
	eventDB.insert = mustPrepare(db, "INSERT INTO event (orgId, name, venue, city, tsStarts) VALUES (?, ?, ?, ?, ?)")
	eventDB.update = mustPrepare(db, "UPDATE event SET orgId = ?, name = ?, venue = ?, city = ?, tsStarts = ? WHERE id = ?")
	return eventDB
}

func (db *EventDB) DeleteEvent(id int) error {
	_, err := db.delete.Exec(id)
	return err
}

// GetEvent may return sql.ErrNoRows.
func (db *EventDB) GetEvent(id int) (*core.Event, error) {
	return scanEvent(db.get.QueryRow(id))
}

func (db *EventDB) getMultiple(stmt *sql.Stmt, args ...interface{}) ([]core.Event, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.Event{}

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *e)
	}

	return all, nil
}

func (db *EventDB) GetAllEvents(limit, offset int) ([]core.Event, error) {
	return db.getMultiple(db.getAll, limit, offset)
}

func (db *EventDB) GetUpcomingEvents(after int64, limit int) ([]core.Event, error) {
	return db.getMultiple(db.getUpcoming, after, limit)
}

func (db *EventDB) InsertEvent(e *core.Event) error {

	res, err := db.insert.Exec(e.OrgID, e.Name, e.Venue, e.City, e.StartsAt)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	e.ID = int(id)
	return nil
}

func (db *EventDB) UpdateEvent(e *core.Event) error {
	_, err := db.update.Exec(e.OrgID, e.Name, e.Venue, e.City, e.StartsAt, e.ID)
	return err
}
