package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionFor(t *testing.T) {
	assert.Equal(t, ActionSubmit, ActionFor(Draft, Review))
	assert.Equal(t, ActionPublish, ActionFor(Draft, Published))
	assert.Equal(t, ActionApprove, ActionFor(Review, Published))
	assert.Equal(t, ActionReject, ActionFor(Review, Draft))
	assert.Equal(t, ActionUnpublish, ActionFor(Published, Draft))
	assert.Equal(t, ActionArchive, ActionFor(Published, Archived))
	assert.Equal(t, ActionReactivate, ActionFor(Archived, Draft))
	assert.Equal(t, ActionReactivate, ActionFor(Archived, Review))

	// unmapped pairs fall back to edit
	assert.Equal(t, ActionEdit, ActionFor(Draft, Draft))
}
