package sqldb

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/fightwire/fightwire/auth"
	"github.com/fightwire/fightwire/util"
)

var ErrAuth = errors.New("authentication failed")

func clean(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	return name
}

func hash(salt string, password string) string {
	var hash = sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(hash[:])
}

const principalColumns = `id, mail, role, active,
	notifyAssignment, notifyStatusChange, notifyComment, notifyDeadline, notifyApproval,
	articlesAuthored, articlesEdited, articlesPublished, lastArticle`

func scanPrincipal(row rowScanner) (*auth.Principal, error) {
	var p auth.Principal
	var role int
	err := row.Scan(&p.ID, &p.Name, &role, &p.Active,
		&p.Prefs.Assignment, &p.Prefs.StatusChange, &p.Prefs.Comment, &p.Prefs.Deadline, &p.Prefs.Approval,
		&p.ArticlesAuthored, &p.ArticlesEdited, &p.ArticlesPublished, &p.LastArticle)
	if err != nil {
		return nil, err
	}
	p.Role = auth.Role(role)
	return &p, nil
}

type PrincipalDB struct {
	*sql.DB
	delete       *sql.Stmt
	filterActive *sql.Stmt
	get          *sql.Stmt
	getAll       *sql.Stmt
	getByName    *sql.Stmt
	insert       *sql.Stmt
	login        *sql.Stmt
	setActive    *sql.Stmt
	setPassword  *sql.Stmt
	setPrefs     *sql.Stmt
	setRole      *sql.Stmt
}

func NewPrincipalDB(db *sql.DB) *PrincipalDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS principal (
			id INTEGER PRIMARY KEY,
			mail varchar(128) NOT NULL,
			salt varchar(64) NOT NULL DEFAULT '',
			password varchar(64) NOT NULL DEFAULT '',
			role int(11) NOT NULL DEFAULT 0,
			active bool NOT NULL DEFAULT 1,
			notifyAssignment bool NOT NULL DEFAULT 1,
			notifyStatusChange bool NOT NULL DEFAULT 1,
			notifyComment bool NOT NULL DEFAULT 1,
			notifyDeadline bool NOT NULL DEFAULT 1,
			notifyApproval bool NOT NULL DEFAULT 1,
			articlesAuthored int(11) NOT NULL DEFAULT 0,
			articlesEdited int(11) NOT NULL DEFAULT 0,
			articlesPublished int(11) NOT NULL DEFAULT 0,
			lastArticle int(11) NOT NULL DEFAULT 0,
			UNIQUE(mail)
		);`)

	var principalDB = &PrincipalDB{}
	principalDB.DB = db
	principalDB.delete = mustPrepare(db, "DELETE FROM principal WHERE id = ?")
	principalDB.filterActive = mustPrepare(db, "SELECT "+principalColumns+" FROM principal WHERE active = 1 AND role >= ? ORDER BY id LIMIT ?")
	principalDB.get = mustPrepare(db, "SELECT "+principalColumns+" FROM principal WHERE id = ? LIMIT 1")
	principalDB.getAll = mustPrepare(db, "SELECT "+principalColumns+" FROM principal ORDER BY mail LIMIT ? OFFSET ?")
	principalDB.getByName = mustPrepare(db, "SELECT "+principalColumns+" FROM principal WHERE mail = ? LIMIT 1")
	principalDB.insert = mustPrepare(db, "INSERT INTO principal (mail, role) VALUES (?, ?)") // empty password field is safe because no hash value equals it
	principalDB.login = mustPrepare(db, "SELECT id, salt, password FROM principal WHERE mail = ?")
	principalDB.setActive = mustPrepare(db, "UPDATE principal SET active = ? WHERE id = ?")
	principalDB.setPassword = mustPrepare(db, "UPDATE principal SET salt = ?, password = ? WHERE id = ?")
	principalDB.setPrefs = mustPrepare(db, "UPDATE principal SET notifyAssignment = ?, notifyStatusChange = ?, notifyComment = ?, notifyDeadline = ?, notifyApproval = ? WHERE id = ?")
	principalDB.setRole = mustPrepare(db, "UPDATE principal SET role = ? WHERE id = ?")
	return principalDB
}

func (db *PrincipalDB) Writeable() bool {
	return true
}

func (db *PrincipalDB) ChangePassword(p *auth.Principal, old, new string) error {

	var salt, pass string
	var id int
	if err := db.login.QueryRow(p.Name).Scan(&id, &salt, &pass); err != nil {
		return err
	}

	if hash(salt, old) != pass {
		return ErrAuth
	}

	return db.SetPassword(p, new)
}

func (db *PrincipalDB) Delete(p *auth.Principal) error {
	_, err := db.delete.Exec(p.ID)
	return err
}

// GetPrincipal may return sql.ErrNoRows.
func (db *PrincipalDB) GetPrincipal(id int) (*auth.Principal, error) {
	return scanPrincipal(db.get.QueryRow(id))
}

func (db *PrincipalDB) GetPrincipalByName(name string) (*auth.Principal, error) {
	return scanPrincipal(db.getByName.QueryRow(clean(name)))
}

func (db *PrincipalDB) getMultiple(stmt *sql.Stmt, args ...interface{}) ([]auth.Principal, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []auth.Principal{}

	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *p)
	}

	return all, nil
}

func (db *PrincipalDB) GetAllPrincipals(limit, offset int) ([]auth.Principal, error) {
	return db.getMultiple(db.getAll, limit, offset)
}

func (db *PrincipalDB) FilterActiveByRole(min auth.Role, limit int) ([]auth.Principal, error) {
	return db.getMultiple(db.filterActive, int(min), limit)
}

func (db *PrincipalDB) InsertPrincipal(name string) (*auth.Principal, error) {

	name = clean(name)

	res, err := db.insert.Exec(name, int(auth.RoleAuthor))
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetPrincipal(int(id))
}

func (db *PrincipalDB) LoginPrincipal(name, password string) (*auth.Principal, error) {

	name = clean(name)

	var id int
	var salt, pass string

	err := db.login.QueryRow(name).Scan(&id, &salt, &pass)
	if err == sql.ErrNoRows {
		return nil, ErrAuth // principal not found
	}
	if err != nil {
		return nil, err
	}

	if hash(salt, password) != pass {
		return nil, ErrAuth // wrong password
	}

	return db.GetPrincipal(id)
}

func (db *PrincipalDB) SetActive(p *auth.Principal, active bool) error {
	if _, err := db.setActive.Exec(active, p.ID); err != nil {
		return err
	}
	p.Active = active
	return nil
}

func (db *PrincipalDB) SetPassword(p *auth.Principal, password string) error {

	if password == "" {
		return errors.New("no password given")
	}

	salt, err := util.RandomString32()
	if err != nil {
		return err
	}

	_, err = db.setPassword.Exec(salt, hash(salt, password), p.ID)
	return err
}

func (db *PrincipalDB) SetPrefs(p *auth.Principal, prefs auth.NotificationPrefs) error {
	if _, err := db.setPrefs.Exec(prefs.Assignment, prefs.StatusChange, prefs.Comment, prefs.Deadline, prefs.Approval, p.ID); err != nil {
		return err
	}
	p.Prefs = prefs
	return nil
}

func (db *PrincipalDB) SetRole(p *auth.Principal, role auth.Role) error {
	if !role.Valid() || role == auth.RoleNone {
		return fmt.Errorf("%w: %d", auth.ErrInvalidRole, int(role))
	}
	if _, err := db.setRole.Exec(int(role), p.ID); err != nil {
		return err
	}
	p.Role = role
	return nil
}
