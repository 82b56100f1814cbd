package core

import (
	"testing"

	"github.com/fightwire/fightwire/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {

	var allowed = map[[2]Status]bool{
		{Draft, Review}:       true,
		{Draft, Published}:    true,
		{Draft, Archived}:     true,
		{Review, Draft}:       true,
		{Review, Published}:   true,
		{Review, Archived}:    true,
		{Published, Draft}:    true,
		{Published, Archived}: true,
		{Archived, Draft}:     true,
		{Archived, Review}:    true,
	}

	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			assert.Equal(t, allowed[[2]Status{from, to}], CanTransition(from, to), "%s to %s", from, to)
		}
	}
}

func TestInvalidTransitionLeavesArticleUnchanged(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var a = store.addArticle(&Article{Title: "Title fight recap", Status: Archived, PublishedAt: 0})

	_, err := db.Transition(a.ID, Published, nil, "", nil)
	require.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := db.GetArticle(a.ID)
	require.NoError(t, err)
	assert.Equal(t, Archived, stored.Status)
	assert.Empty(t, store.log, "failed transitions must not be logged")
}

func TestTransitionAuthorization(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var author = store.addPrincipal(1, "author@fightwire.example", auth.RoleAuthor)
	var editor = store.addPrincipal(2, "editor@fightwire.example", auth.RoleEditor)
	var publisher = store.addPrincipal(3, "publisher@fightwire.example", auth.RolePublisher)

	var a = store.addArticle(&Article{Title: "Weigh-in report", Status: Review, AuthorID: author.ID, EditorID: editor.ID})

	// an editor may not publish
	_, err := db.Transition(a.ID, Published, editor, "", nil)
	require.ErrorIs(t, err, ErrForbidden)

	// the author may not touch an article in review
	_, err = db.Transition(a.ID, Draft, author, "", nil)
	require.ErrorIs(t, err, ErrForbidden)

	// a publisher may
	result, err := db.Transition(a.ID, Published, publisher, "", nil)
	require.NoError(t, err)
	assert.Equal(t, Published, result.Status)
	assert.NotZero(t, result.PublishedAt)
}

func TestAuthorControlsOwnDraft(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var author = store.addPrincipal(1, "author@fightwire.example", auth.RoleAuthor)
	var other = store.addPrincipal(2, "other@fightwire.example", auth.RoleAuthor)

	var first = store.addArticle(&Article{Title: "Own draft", Status: Draft, AuthorID: author.ID})
	var second = store.addArticle(&Article{Title: "Second draft", Status: Draft, AuthorID: author.ID})

	// another author can touch neither
	_, err := db.Transition(first.ID, Review, other, "", nil)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = db.Transition(first.ID, Archived, other, "", nil)
	require.ErrorIs(t, err, ErrForbidden)

	// the owner can submit or withdraw
	_, err = db.Transition(first.ID, Review, author, "", nil)
	require.NoError(t, err)
	_, err = db.Transition(second.ID, Archived, author, "", nil)
	require.NoError(t, err)

	// but cannot publish
	var third = store.addArticle(&Article{Title: "Third draft", Status: Draft, AuthorID: author.ID})
	_, err = db.Transition(third.ID, Published, author, "", nil)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestSystemActorIsUnrestricted(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var a = store.addArticle(&Article{Title: "Automated import", Status: Draft})

	_, err := db.Transition(a.ID, Published, nil, "", nil)
	require.NoError(t, err)

	entries, _ := db.GetLogByArticle(a.ID, 10, 0)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].System())
}

func TestPublishedAtLifecycle(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var a = store.addArticle(&Article{Title: "Card announcement", Status: Draft})

	// publish sets the timestamp
	result, err := db.Transition(a.ID, Published, nil, "", nil)
	require.NoError(t, err)
	require.NotZero(t, result.PublishedAt)

	// unpublish clears it
	_, err = db.Unpublish(a.ID, nil, "pulled pending confirmation")
	require.NoError(t, err)
	stored, _ := db.GetArticle(a.ID)
	assert.Zero(t, stored.PublishedAt)

	// archiving a published article clears it too
	_, err = db.Transition(a.ID, Published, nil, "", nil)
	require.NoError(t, err)
	_, err = db.Archive(a.ID, nil, "")
	require.NoError(t, err)
	stored, _ = db.GetArticle(a.ID)
	assert.Equal(t, Archived, stored.Status)
	assert.Zero(t, stored.PublishedAt)
}

func TestArchivedMustReenterThroughReview(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var a = store.addArticle(&Article{Title: "Old recap", Status: Archived})

	_, err := db.Transition(a.ID, Published, nil, "", nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = db.Transition(a.ID, Review, nil, "", nil)
	assert.NoError(t, err)
}

func TestRejectWritesTwoLogEntries(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var editor = store.addPrincipal(1, "editor@fightwire.example", auth.RoleEditor)
	var a = store.addArticle(&Article{Title: "Rumor piece", Status: Review, AuthorID: 9})

	_, err := db.Reject(a.ID, editor, "needs sourcing")
	require.NoError(t, err)

	entries, _ := db.GetLogByArticle(a.ID, 10, 0)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, ActionReject, e.Action)
		assert.Equal(t, "needs sourcing", e.Note)
	}

	stored, _ := db.GetArticle(a.ID)
	assert.Equal(t, Draft, stored.Status)
}

func TestApproveRequiresPublishCapability(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var editor = store.addPrincipal(1, "editor@fightwire.example", auth.RoleEditor)
	var a = store.addArticle(&Article{Title: "Main event preview", Status: Review})

	_, err := db.Approve(a.ID, editor, "looks good")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApproveOnlyFromReview(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var a = store.addArticle(&Article{Title: "Draft piece", Status: Draft})

	_, err := db.Approve(a.ID, nil, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConcurrentTransitionConflict(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var a = store.addArticle(&Article{Title: "Contested scoop", Status: Review})

	// a concurrent actor wins the race after our snapshot was taken
	store.articles[a.ID].Status = Published

	var spec = &TransitionSpec{ArticleID: a.ID, From: Review, To: Draft}
	err := db.ApplyTransition(spec)
	assert.ErrorIs(t, err, ErrConflict)
}

type fixedPicker struct {
	editor *auth.Principal
}

func (p fixedPicker) PickEditor(candidates []auth.Principal) *auth.Principal {
	return p.editor
}

func TestSubmitForReviewAutoAssignsEditor(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var author = store.addPrincipal(1, "author@fightwire.example", auth.RoleAuthor)
	var editor = store.addPrincipal(2, "editor@fightwire.example", auth.RoleEditor)
	db.Picker = fixedPicker{editor}

	var a = store.addArticle(&Article{Title: "Undercard notes", Status: Draft, AuthorID: author.ID})

	_, err := db.SubmitForReview(a.ID, author, "")
	require.NoError(t, err)

	stored, _ := db.GetArticle(a.ID)
	assert.Equal(t, Review, stored.Status)
	assert.Equal(t, editor.ID, stored.EditorID)

	// the editor gets exactly one assignment notification
	all, _ := db.GetNotifications(editor.ID, 10, 0)
	var assignments int
	for _, n := range all {
		if n.Type == NotifyAssignment {
			assignments++
		}
	}
	assert.Equal(t, 1, assignments)
}

func TestSubmitForReviewKeepsExistingEditor(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var other = store.addPrincipal(2, "other@fightwire.example", auth.RoleEditor)
	db.Picker = fixedPicker{other}

	var a = store.addArticle(&Article{Title: "Follow-up", Status: Draft, EditorID: 7})

	_, err := db.SubmitForReview(a.ID, nil, "")
	require.NoError(t, err)

	stored, _ := db.GetArticle(a.ID)
	assert.Equal(t, 7, stored.EditorID, "an assigned editor must not be replaced")
}

func TestPickerFailureDegradesToUnassigned(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	db.Picker = fixedPicker{nil} // no candidate

	var a = store.addArticle(&Article{Title: "Orphan piece", Status: Draft})

	_, err := db.SubmitForReview(a.ID, nil, "")
	require.NoError(t, err, "a missing editor must never block the transition")

	stored, _ := db.GetArticle(a.ID)
	assert.Equal(t, Review, stored.Status)
	assert.Zero(t, stored.EditorID)
}

func TestMayEdit(t *testing.T) {

	var author = &auth.Principal{ID: 1, Role: auth.RoleAuthor, Active: true}
	var stranger = &auth.Principal{ID: 2, Role: auth.RoleAuthor, Active: true}
	var editor = &auth.Principal{ID: 3, Role: auth.RoleEditor, Active: true}

	var draft = &Article{AuthorID: 1, Status: Draft}
	var inReview = &Article{AuthorID: 1, Status: Review}

	assert.True(t, MayEdit(nil, inReview), "the system may always edit")
	assert.True(t, MayEdit(author, draft))
	assert.False(t, MayEdit(author, inReview), "edit-own ends when the draft leaves the author's hands")
	assert.False(t, MayEdit(stranger, draft))
	assert.True(t, MayEdit(editor, inReview))
}

func TestAssignEditor(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var editor = store.addPrincipal(1, "editor@fightwire.example", auth.RoleEditor)
	var admin = store.addPrincipal(2, "admin@fightwire.example", auth.RoleAdmin)
	var author = store.addPrincipal(3, "author@fightwire.example", auth.RoleAuthor)

	var a = store.addArticle(&Article{Title: "Assignment test", Status: Review})

	// authors may not assign
	err := db.AssignEditor(a.ID, editor.ID, author, "")
	require.ErrorIs(t, err, ErrForbidden)

	// the target must be an editor
	err = db.AssignEditor(a.ID, author.ID, admin, "")
	require.ErrorIs(t, err, ErrForbidden)

	// an inactive editor is no candidate
	require.NoError(t, db.Auth.SetActive(editor, false))
	err = db.AssignEditor(a.ID, editor.ID, admin, "")
	require.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, db.Auth.SetActive(editor, true))

	err = db.AssignEditor(a.ID, editor.ID, admin, "take this one")
	require.NoError(t, err)

	stored, _ := db.GetArticle(a.ID)
	assert.Equal(t, Review, stored.Status, "assignment must not move the workflow")
	assert.Equal(t, editor.ID, stored.EditorID)

	entries, _ := db.GetLogByArticle(a.ID, 10, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionAssignEditor, entries[0].Action)
	assert.Equal(t, editor.Name, entries[0].Metadata["editor"])
}

func TestCreateArticle(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var author = store.addPrincipal(1, "author@fightwire.example", auth.RoleAuthor)

	var a = &Article{Title: "Fresh draft", Status: Published, PublishedAt: 99}
	require.NoError(t, db.CreateArticle(a, author))

	stored, _ := db.GetArticle(a.ID)
	assert.Equal(t, Draft, stored.Status, "new articles always start as drafts")
	assert.Zero(t, stored.PublishedAt)
	assert.Equal(t, author.ID, stored.AuthorID)

	entries, _ := db.GetLogByArticle(a.ID, 10, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionCreate, entries[0].Action)

	fresh, _ := db.Auth.GetPrincipal(author.ID)
	assert.Equal(t, 1, fresh.ArticlesAuthored)
}

func TestDeleteDraft(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var author = store.addPrincipal(1, "author@fightwire.example", auth.RoleAuthor)
	var stranger = store.addPrincipal(2, "stranger@fightwire.example", auth.RolePublisher)
	var admin = store.addPrincipal(3, "admin@fightwire.example", auth.RoleAdmin)

	var a = store.addArticle(&Article{Title: "Abandoned draft", Status: Draft, AuthorID: author.ID})
	var published = store.addArticle(&Article{Title: "Live article", Status: Published, AuthorID: author.ID})

	assert.ErrorIs(t, db.DeleteDraft(published.ID, author), ErrInvalidTransition)
	assert.ErrorIs(t, db.DeleteDraft(a.ID, stranger), ErrForbidden)

	require.NoError(t, db.DeleteDraft(a.ID, admin))
	_, err := db.GetArticle(a.ID)
	assert.Error(t, err)
}

func TestCountersAreRecomputed(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var author = store.addPrincipal(1, "author@fightwire.example", auth.RoleAuthor)
	var a = store.addArticle(&Article{Title: "Counted piece", Status: Draft, AuthorID: author.ID, Created: 1000})

	_, err := db.Transition(a.ID, Published, nil, "", nil)
	require.NoError(t, err)

	fresh, _ := db.Auth.GetPrincipal(author.ID)
	assert.Equal(t, 1, fresh.ArticlesAuthored)
	assert.Equal(t, 1, fresh.ArticlesPublished)

	// unpublishing corrects the counter downwards
	_, err = db.Unpublish(a.ID, nil, "")
	require.NoError(t, err)

	fresh, _ = db.Auth.GetPrincipal(author.ID)
	assert.Equal(t, 1, fresh.ArticlesAuthored)
	assert.Equal(t, 0, fresh.ArticlesPublished)
}

func TestSetFlags(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var author = store.addPrincipal(1, "author@fightwire.example", auth.RoleAuthor)
	var publisher = store.addPrincipal(2, "publisher@fightwire.example", auth.RolePublisher)

	var a = store.addArticle(&Article{Title: "Knockout of the year", Status: Published})

	assert.ErrorIs(t, db.SetFeatured(a.ID, true, author), ErrForbidden)

	require.NoError(t, db.SetFeatured(a.ID, true, publisher))
	require.NoError(t, db.SetBreaking(a.ID, true, publisher))

	stored, _ := db.GetArticle(a.ID)
	assert.True(t, stored.Featured)
	assert.True(t, stored.Breaking)

	entries, _ := db.GetLogByAction(ActionFeature, 10, 0)
	assert.Len(t, entries, 1)
}
