package sqldb

import (
	"database/sql"
	"time"

	"github.com/fightwire/fightwire/core"
)

const articleColumns = `id, title, body, category, tags, authorId, editorId, eventId,
	featured, breaking, status, tsCreated, tsUpdated, tsPublished`

func scanArticle(row rowScanner) (*core.Article, error) {
	var a core.Article
	var status int
	err := row.Scan(&a.ID, &a.Title, &a.Body, &a.Category, &a.Tags, &a.AuthorID, &a.EditorID, &a.EventID,
		&a.Featured, &a.Breaking, &status, &a.Created, &a.Updated, &a.PublishedAt)
	if err != nil {
		return nil, err
	}
	a.Status = core.Status(status)
	return &a, nil
}

type ArticleDB struct {
	*sql.DB
	countByStatus *sql.Stmt
	delete        *sql.Stmt
	get           *sql.Stmt
	getAll        *sql.Stmt
	getByAuthor   *sql.Stmt
	getByStatus   *sql.Stmt
	insert        *sql.Stmt
	updateMeta    *sql.Stmt
}

func NewArticleDB(db *sql.DB) *ArticleDB {

	db.Exec(`
		CREATE TABLE IF NOT EXISTS article (
			id INTEGER PRIMARY KEY,
			title varchar(256) NOT NULL,
			body text NOT NULL,
			category varchar(64) NOT NULL,
			tags varchar(256) NOT NULL,
			authorId int(11) NOT NULL,
			editorId int(11) NOT NULL DEFAULT 0,
			eventId int(11) NOT NULL DEFAULT 0,
			featured bool NOT NULL DEFAULT 0,
			breaking bool NOT NULL DEFAULT 0,
			status int(11) NOT NULL,
			tsCreated int(11) NOT NULL,
			tsUpdated int(11) NOT NULL,
			tsPublished int(11) NOT NULL DEFAULT 0
		);`)

	var articleDB = &ArticleDB{}
	articleDB.DB = db
	articleDB.countByStatus = mustPrepare(db, "SELECT status, COUNT(*) FROM article GROUP BY status")
	articleDB.delete = mustPrepare(db, "DELETE FROM article WHERE id = ?")
	articleDB.get = mustPrepare(db, "SELECT "+articleColumns+" FROM article WHERE id = ? LIMIT 1")
	articleDB.getAll = mustPrepare(db, "SELECT "+articleColumns+" FROM article ORDER BY tsCreated DESC, id DESC LIMIT ? OFFSET ?")
	articleDB.getByAuthor = mustPrepare(db, "SELECT "+articleColumns+" FROM article WHERE authorId = ? ORDER BY tsCreated DESC, id DESC LIMIT ? OFFSET ?")
	articleDB.getByStatus = mustPrepare(db, "SELECT "+articleColumns+" FROM article WHERE status = ? ORDER BY tsCreated DESC, id DESC LIMIT ? OFFSET ?")
	articleDB.insert = mustPrepare(db, "INSERT INTO article (title, body, category, tags, authorId, editorId, eventId, featured, breaking, status, tsCreated, tsUpdated, tsPublished) VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?, 0)")
	articleDB.updateMeta = mustPrepare(db, "UPDATE article SET title = ?, body = ?, category = ?, tags = ?, eventId = ?, featured = ?, breaking = ?, tsUpdated = ? WHERE id = ?")
	return articleDB
}

func (db *ArticleDB) Writeable() bool {
	return true
}

func (db *ArticleDB) CountByStatus() (map[core.Status]int, error) {

	rows, err := db.countByStatus.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts = make(map[core.Status]int)

	for rows.Next() {
		var status, count int
		if err = rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[core.Status(status)] = count
	}

	return counts, nil
}

func (db *ArticleDB) DeleteArticle(id int) error {
	_, err := db.delete.Exec(id)
	return err
}

// GetArticle may return sql.ErrNoRows.
func (db *ArticleDB) GetArticle(id int) (*core.Article, error) {
	return scanArticle(db.get.QueryRow(id))
}

func (db *ArticleDB) getMultiple(stmt *sql.Stmt, args ...interface{}) ([]core.Article, error) {

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.Article{}

	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *a)
	}

	return all, nil
}

func (db *ArticleDB) GetAllArticles(limit, offset int) ([]core.Article, error) {
	return db.getMultiple(db.getAll, limit, offset)
}

func (db *ArticleDB) GetArticlesByStatus(status core.Status, limit, offset int) ([]core.Article, error) {
	return db.getMultiple(db.getByStatus, int(status), limit, offset)
}

func (db *ArticleDB) GetArticlesByAuthor(authorID int, limit, offset int) ([]core.Article, error) {
	return db.getMultiple(db.getByAuthor, authorID, limit, offset)
}

func (db *ArticleDB) InsertArticle(a *core.Article) error {

	var now = time.Now().Unix()

	res, err := db.insert.Exec(a.Title, a.Body, a.Category, a.Tags, a.AuthorID, a.EventID, a.Featured, a.Breaking, int(a.Status), now, now)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	a.ID = int(id)
	a.Created = now
	a.Updated = now
	return nil
}

func (db *ArticleDB) UpdateMeta(a *core.Article) error {
	var now = time.Now().Unix()
	if _, err := db.updateMeta.Exec(a.Title, a.Body, a.Category, a.Tags, a.EventID, a.Featured, a.Breaking, now, a.ID); err != nil {
		return err
	}
	a.Updated = now
	return nil
}
