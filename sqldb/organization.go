package sqldb

import (
	"database/sql"

	"github.com/fightwire/fightwire/core"
)

type OrganizationDB struct {
	*sql.DB
	delete *sql.Stmt
	get    *sql.Stmt
	getAll *sql.Stmt
	insert *sql.Stmt
	update *sql.Stmt
}

func NewOrganizationDB(db *sql.DB) *OrganizationDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS organization (
			id INTEGER PRIMARY KEY,
			name varchar(128) NOT NULL,
			country varchar(64) NOT NULL,
			UNIQUE(name)
		);`)

	var orgDB = &OrganizationDB{}
	orgDB.DB = db
	orgDB.delete = mustPrepare(db, "DELETE FROM organization WHERE id = ?")
	orgDB.get = mustPrepare(db, "SELECT id, name, country FROM organization WHERE id = ? LIMIT 1")
	orgDB.getAll = mustPrepare(db, "SELECT id, name, country FROM organization ORDER BY name LIMIT ? OFFSET ?")
	orgDB.insert = mustPrepare(db, "INSERT INTO organization (name, country) VALUES (?, ?)")
	orgDB.update = mustPrepare(db, "UPDATE organization SET name = ?, country = ? WHERE id = ?")
	return orgDB
}

func (db *OrganizationDB) DeleteOrganization(id int) error {
	_, err := db.delete.Exec(id)
	return err
}

// GetOrganization may return sql.ErrNoRows.
func (db *OrganizationDB) GetOrganization(id int) (*core.Organization, error) {
	var o core.Organization
	err := db.get.QueryRow(id).Scan(&o.ID, &o.Name, &o.Country)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (db *OrganizationDB) GetAllOrganizations(limit, offset int) ([]core.Organization, error) {

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.Organization{}

	for rows.Next() {
		var o core.Organization
		if err = rows.Scan(&o.ID, &o.Name, &o.Country); err != nil {
			return nil, err
		}
		all = append(all, o)
	}

	return all, nil
}

func (db *OrganizationDB) InsertOrganization(o *core.Organization) error {

	res, err := db.insert.Exec(o.Name, o.Country)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	o.ID = int(id)
	return nil
}

func (db *OrganizationDB) UpdateOrganization(o *core.Organization) error {
	_, err := db.update.Exec(o.Name, o.Country, o.ID)
	return err
}
