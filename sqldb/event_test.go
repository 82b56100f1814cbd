package sqldb

import (
	"testing"
	"time"

	"github.com/fightwire/fightwire/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStore(t *testing.T) {

	var s = openTestDB(t)

	var now = time.Now().Unix()

	var past = &core.Event{Name: "FW 100", Venue: "Arena", City: "Berlin", StartsAt: now - 3600}
	var future = &core.Event{Name: "FW 101", Venue: "Hall", City: "Hamburg", StartsAt: now + 3600}

	require.NoError(t, s.event.InsertEvent(past))
	require.NoError(t, s.event.InsertEvent(future))

	upcoming, err := s.event.GetUpcomingEvents(now, 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "FW 101", upcoming[0].Name)

	future.Venue = "Bigger Hall"
	require.NoError(t, s.event.UpdateEvent(future))

	stored, err := s.event.GetEvent(future.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bigger Hall", stored.Venue)

	require.NoError(t, s.event.DeleteEvent(past.ID))
	all, _ := s.event.GetAllEvents(10, 0)
	assert.Len(t, all, 1)
}

func TestFighterStore(t *testing.T) {

	var s = openTestDB(t)

	var org = &core.Organization{Name: "Premier FC", Country: "US"}
	require.NoError(t, s.organization.InsertOrganization(org))

	var f = &core.Fighter{OrgID: org.ID, Name: "Jo Silva", Nickname: "The Wall", WeightClass: "middleweight", Wins: 12, Losses: 2, Draws: 1}
	require.NoError(t, s.fighter.InsertFighter(f))
	require.NoError(t, s.fighter.InsertFighter(&core.Fighter{OrgID: org.ID + 1, Name: "Sam Cruz"}))

	roster, err := s.fighter.GetFightersByOrg(org.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "Jo Silva", roster[0].Name)
	assert.Equal(t, 12, roster[0].Wins)
}
