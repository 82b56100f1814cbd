package core

import (
	"testing"

	"github.com/fightwire/fightwire/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkApprovePartitionsOutcomes(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var publisher = store.addPrincipal(1, "publisher@fightwire.example", auth.RolePublisher)

	var inReview = store.addArticle(&Article{Title: "Ready", Status: Review})
	var draft = store.addArticle(&Article{Title: "Not ready", Status: Draft})

	result, err := db.BulkApprove([]int{inReview.ID, draft.ID, 999}, publisher, "batch publish")
	require.NoError(t, err)

	assert.Equal(t, 1, result.SucceededCount())
	assert.Equal(t, 2, result.FailedCount())

	require.Len(t, result.Successful, 1)
	assert.Equal(t, inReview.ID, result.Successful[0].ID)
	assert.Equal(t, "Ready", result.Successful[0].Title)

	// the not-found item has no title, the rejected one does
	var byID = make(map[int]BulkItem)
	for _, item := range result.Failed {
		byID[item.ID] = item
	}
	assert.Equal(t, "not found", byID[999].Reason)
	assert.Empty(t, byID[999].Title)
	assert.Equal(t, "Not ready", byID[draft.ID].Title)
	assert.NotEmpty(t, byID[draft.ID].Reason)

	// committed items stay committed
	stored, _ := db.GetArticle(inReview.ID)
	assert.Equal(t, Published, stored.Status)
}

func TestBulkApproveRequiresCapability(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var editor = store.addPrincipal(1, "editor@fightwire.example", auth.RoleEditor)
	var a = store.addArticle(&Article{Title: "Ready", Status: Review})

	_, err := db.BulkApprove([]int{a.ID}, editor, "")
	require.ErrorIs(t, err, ErrForbidden)

	stored, _ := db.GetArticle(a.ID)
	assert.Equal(t, Review, stored.Status, "a refused batch must touch nothing")
}

func TestBulkArchive(t *testing.T) {

	var store = newMemStore()
	var db = newMemCoreDB(store)

	var publisher = store.addPrincipal(1, "publisher@fightwire.example", auth.RolePublisher)

	var published = store.addArticle(&Article{Title: "Old news", Status: Published, PublishedAt: 500})
	var archived = store.addArticle(&Article{Title: "Already gone", Status: Archived})

	result, err := db.BulkArchive([]int{published.ID, archived.ID}, publisher, "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.SucceededCount())
	assert.Equal(t, 1, result.FailedCount())

	stored, _ := db.GetArticle(published.ID)
	assert.Equal(t, Archived, stored.Status)
	assert.Zero(t, stored.PublishedAt)
}
