package sqldb

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// stores bundles all sql stores on one in-memory database.
type stores struct {
	sqlDB        *sql.DB
	article      *ArticleDB
	event        *EventDB
	fighter      *FighterDB
	notification *NotificationDB
	organization *OrganizationDB
	principal    *PrincipalDB
	workflowLog  *WorkflowLogDB
	transition   *TransitionDB
}

func openTestDB(t *testing.T) *stores {

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every pool connection would get its own empty in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	var s = &stores{sqlDB: sqlDB}
	s.article = NewArticleDB(sqlDB)
	s.event = NewEventDB(sqlDB)
	s.fighter = NewFighterDB(sqlDB)
	s.notification = NewNotificationDB(sqlDB)
	s.organization = NewOrganizationDB(sqlDB)
	s.principal = NewPrincipalDB(sqlDB)
	s.workflowLog = NewWorkflowLogDB(sqlDB)
	s.transition = NewTransitionDB(sqlDB) // after the table-owning stores
	return s
}
