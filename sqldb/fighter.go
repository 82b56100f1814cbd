package sqldb

import (
	"database/sql"

	"github.com/fightwire/fightwire/core"
)

const fighterColumns = "id, orgId, name, nickname, weightClass, wins, losses, draws"

func scanFighter(row rowScanner) (*core.Fighter, error) {
	var f core.Fighter
	err := row.Scan(&f.ID, &f.OrgID, &f.Name, &f.Nickname, &f.WeightClass, &f.Wins, &f.Losses, &f.Draws)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

type FighterDB struct {
	*sql.DB
	delete   *sql.Stmt
	get      *sql.Stmt
	getAll   *sql.Stmt
	getByOrg *sql.Stmt
	insert   *sql.Stmt
	update   *sql.Stmt
}

func NewFighterDB(db *sql.DB) *FighterDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS fighter (
			id INTEGER PRIMARY KEY,
			orgId int(11) NOT NULL DEFAULT 0,
			name varchar(128) NOT NULL,
			nickname varchar(128) NOT NULL,
			weightClass varchar(32) NOT NULL,
			wins int(11) NOT NULL DEFAULT 0,
			losses int(11) NOT NULL DEFAULT 0,
			draws int(11) NOT NULL DEFAULT 0
		);`)

	var fighterDB = &FighterDB{}
	fighterDB.DB = db
	fighterDB.delete = mustPrepare(db, "DELETE FROM fighter WHERE id = ?")
	fighterDB.get = mustPrepare(db, "SELECT "+fighterColumns+" FROM fighter WHERE id = ? LIMIT 1")
	fighterDB.getAll = mustPrepare(db, "SELECT "+fighterColumns+" FROM fighter ORDER BY name LIMIT ? OFFSET ?")
	fighterDB.getByOrg = mustPrepare(db, "SELECT "+fighterColumns+" FROM fighter WHERE orgId = ? ORDER BY name LIMIT ? OFFSET ?")
	fighterDB.insert = mustPrepare(db, "INSERT INTO fighter (orgId, name, nickname, weightClass, wins, losses, draws) VALUES (?, ?, ?, ?, ?, ?, ?)")
	fighterDB.update = mustPrepare(db, "UPDATE fighter SET orgId = ?, name = ?, nickname = ?, weightClass = ?, wins = ?, losses = ?, draws = ? WHERE id = ?")
	return fighterDB
}

func (db *FighterDB) DeleteFighter(id int) error {
	_, err := db.delete.Exec(id)
	return err
}

// GetFighter may return sql.ErrNoRows.
func (db *FighterDB) GetFighter(id int) (*core.Fighter, error) {
	return scanFighter(db.get.QueryRow(id))
}

func (db *FighterDB) getMultiple(stmt *sql.Stmt, args ...interface{}) ([]core.Fighter, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.Fighter{}

	for rows.Next() {
		f, err := scanFighter(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *f)
	}

	return all, nil
}

func (db *FighterDB) GetAllFighters(limit, offset int) ([]core.Fighter, error) {
	return db.getMultiple(db.getAll, limit, offset)
}

func (db *FighterDB) GetFightersByOrg(orgID int, limit, offset int) ([]core.Fighter, error) {
	return db.getMultiple(db.getByOrg, orgID, limit, offset)
}

func (db *FighterDB) InsertFighter(f *core.Fighter) error {

	res, err := db.insert.Exec(f.OrgID, f.Name, f.Nickname, f.WeightClass, f.Wins, f.Losses, f.Draws)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	f.ID = int(id)
	return nil
}

func (db *FighterDB) UpdateFighter(f *core.Fighter) error {
	_, err := db.update.Exec(f.OrgID, f.Name, f.Nickname, f.WeightClass, f.Wins, f.Losses, f.Draws, f.ID)
	return err
}
