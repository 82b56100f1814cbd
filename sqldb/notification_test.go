package sqldb

import (
	"testing"
	"time"

	"github.com/fightwire/fightwire/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkEmailSentIsIdempotent(t *testing.T) {

	var s = openTestDB(t)

	var n = &core.Notification{RecipientID: 1, ArticleID: 1, Type: core.NotifyStatusChange, Title: "t", Body: "b"}
	require.NoError(t, s.notification.InsertNotification(n))

	var first = time.Now().Unix()
	require.NoError(t, s.notification.MarkEmailSent(n.ID, first))

	stored, _ := s.notification.GetNotification(n.ID)
	assert.True(t, stored.EmailSent)
	assert.Equal(t, first, stored.EmailSentAt)
	assert.Equal(t, core.DeliverySent, stored.Status)

	// a second marking must not move the timestamp
	require.NoError(t, s.notification.MarkEmailSent(n.ID, first+100))
	stored, _ = s.notification.GetNotification(n.ID)
	assert.Equal(t, first, stored.EmailSentAt)
}

func TestMarkEmailSentKeepsReadStatus(t *testing.T) {

	var s = openTestDB(t)

	var n = &core.Notification{RecipientID: 1, ArticleID: 1, Type: core.NotifyAssignment, Title: "t", Body: "b"}
	require.NoError(t, s.notification.InsertNotification(n))
	require.NoError(t, s.notification.MarkRead(n.ID, time.Now().Unix()))

	// a late delivery confirmation must not regress read to sent
	require.NoError(t, s.notification.MarkEmailSent(n.ID, time.Now().Unix()))

	stored, _ := s.notification.GetNotification(n.ID)
	assert.True(t, stored.EmailSent)
	assert.Equal(t, core.DeliveryRead, stored.Status)
}

func TestUnreadLifecycle(t *testing.T) {

	var s = openTestDB(t)

	var first = &core.Notification{RecipientID: 1, ArticleID: 1, Type: core.NotifyApproval, Title: "a", Body: "b"}
	var second = &core.Notification{RecipientID: 1, ArticleID: 2, Type: core.NotifyStatusChange, Title: "c", Body: "d"}
	var other = &core.Notification{RecipientID: 2, ArticleID: 1, Type: core.NotifyAssignment, Title: "e", Body: "f"}

	require.NoError(t, s.notification.InsertNotification(first))
	require.NoError(t, s.notification.InsertNotification(second))
	require.NoError(t, s.notification.InsertNotification(other))

	count, err := s.notification.CountUnread(1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.notification.MarkRead(first.ID, time.Now().Unix()))
	count, _ = s.notification.CountUnread(1)
	assert.Equal(t, 1, count)

	require.NoError(t, s.notification.Dismiss(second.ID))
	count, _ = s.notification.CountUnread(1)
	assert.Equal(t, 0, count)

	// dismissed records cannot be marked read again
	require.NoError(t, s.notification.MarkRead(second.ID, time.Now().Unix()))
	stored, _ := s.notification.GetNotification(second.ID)
	assert.Equal(t, core.DeliveryDismissed, stored.Status)
}
