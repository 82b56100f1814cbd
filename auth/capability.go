package auth

// A Capability is a named permission checked before a mutating operation.
// The set is closed, these are the exact names the workflow engine checks.
type Capability string

const (
	CapCreate           Capability = "create"
	CapEditOwn          Capability = "edit-own"
	CapEditAny          Capability = "edit-any"
	CapPublish          Capability = "publish"
	CapUnpublish        Capability = "unpublish"
	CapArchive          Capability = "archive"
	CapFeature          Capability = "feature"
	CapSetBreaking      Capability = "set-breaking"
	CapAssignEditor     Capability = "assign-editor"
	CapViewUnpublished  Capability = "view-unpublished"
	CapViewAnalytics    Capability = "view-analytics"
	CapManageCategories Capability = "manage-categories"
	CapManageTags       Capability = "manage-tags"
	CapApprove          Capability = "approve"
	CapReject           Capability = "reject"
	CapRequestChanges   Capability = "request-changes"
	CapOverrideWorkflow Capability = "override-workflow"
	CapManageRoles      Capability = "manage-roles"
	CapViewLogs         Capability = "view-logs"
	CapBulkPublish      Capability = "bulk-publish"
	CapBulkArchive      Capability = "bulk-archive"
)

// Each role's capabilities are enumerated explicitly. Keep every set a
// superset of the one below it when editing these tables.
var authorCapabilities = []Capability{
	CapCreate,
	CapEditOwn,
}

var editorCapabilities = append(authorCapabilities, []Capability{
	CapEditAny,
	CapAssignEditor,
	CapViewUnpublished,
	CapApprove,
	CapReject,
	CapRequestChanges,
	CapManageCategories,
	CapManageTags,
}...)

var publisherCapabilities = append(editorCapabilities, []Capability{
	CapPublish,
	CapUnpublish,
	CapArchive,
	CapFeature,
	CapSetBreaking,
	CapViewAnalytics,
	CapBulkPublish,
	CapBulkArchive,
}...)

var adminCapabilities = append(publisherCapabilities, []Capability{
	CapOverrideWorkflow,
	CapManageRoles,
	CapViewLogs,
}...)

var roleCapabilities = map[Role]map[Capability]interface{}{
	RoleAuthor:    capabilitySet(authorCapabilities),
	RoleEditor:    capabilitySet(editorCapabilities),
	RolePublisher: capabilitySet(publisherCapabilities),
	RoleAdmin:     capabilitySet(adminCapabilities),
}

func capabilitySet(caps []Capability) map[Capability]interface{} {
	var set = make(map[Capability]interface{})
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Capabilities returns the capability set of the role.
func (r Role) Capabilities() map[Capability]interface{} {
	return roleCapabilities[r]
}

// Has is a set-membership test against the role's capability table.
func (r Role) Has(c Capability) bool {
	_, ok := roleCapabilities[r][c]
	return ok
}
