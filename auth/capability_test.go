package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleLadderIsCumulative(t *testing.T) {

	var roles = AllRoles()

	for i := 1; i < len(roles); i++ {
		lower, higher := roles[i-1], roles[i]
		for c := range lower.Capabilities() {
			assert.True(t, higher.Has(c), "%s misses %s which %s has", higher, c, lower)
		}
		assert.Greater(t, len(higher.Capabilities()), len(lower.Capabilities()))
	}
}

func TestCapabilityAssignments(t *testing.T) {

	assert.True(t, RoleAuthor.Has(CapCreate))
	assert.True(t, RoleAuthor.Has(CapEditOwn))
	assert.False(t, RoleAuthor.Has(CapEditAny))
	assert.False(t, RoleAuthor.Has(CapPublish))

	assert.True(t, RoleEditor.Has(CapEditAny))
	assert.True(t, RoleEditor.Has(CapApprove))
	assert.True(t, RoleEditor.Has(CapAssignEditor))
	assert.False(t, RoleEditor.Has(CapPublish))
	assert.False(t, RoleEditor.Has(CapArchive))

	assert.True(t, RolePublisher.Has(CapPublish))
	assert.True(t, RolePublisher.Has(CapUnpublish))
	assert.True(t, RolePublisher.Has(CapBulkPublish))
	assert.False(t, RolePublisher.Has(CapOverrideWorkflow))
	assert.False(t, RolePublisher.Has(CapManageRoles))

	assert.True(t, RoleAdmin.Has(CapOverrideWorkflow))
	assert.True(t, RoleAdmin.Has(CapManageRoles))
	assert.True(t, RoleAdmin.Has(CapViewLogs))

	assert.False(t, RoleNone.Has(CapCreate))
}

func TestHasCapabilityNilSafe(t *testing.T) {
	var p *Principal
	assert.False(t, p.HasCapability(CapCreate))
	assert.Equal(t, RoleNone, p.EffectiveRole())
}
