package auth

// NotificationPrefs are the per-category opt-ins of a principal.
// A false field means the dispatcher skips that principal for the category.
type NotificationPrefs struct {
	Assignment   bool
	StatusChange bool
	Comment      bool
	Deadline     bool
	Approval     bool
}

// DefaultPrefs opts in to everything.
func DefaultPrefs() NotificationPrefs {
	return NotificationPrefs{
		Assignment:   true,
		StatusChange: true,
		Comment:      true,
		Deadline:     true,
		Approval:     true,
	}
}

// A Principal is an authenticated actor (human editorial staff) with a role.
//
// The activity counters are derived caches. They are recomputed from the
// article store after every transition which affects the principal, never
// incremented, so external corrections are tolerated.
type Principal struct {
	ID     int
	Name   string // email address, also the login name
	Role   Role
	Active bool
	Prefs  NotificationPrefs

	ArticlesAuthored  int
	ArticlesEdited    int
	ArticlesPublished int
	LastArticle       int64 // unix timestamp, zero if none
}

// EffectiveRole returns the principal's role, or RoleNone for a nil principal.
func (p *Principal) EffectiveRole() Role {
	if p == nil {
		return RoleNone
	}
	return p.Role
}

// HasCapability is a pure set-membership test against the capability table
// of the principal's role. A nil principal has no capabilities.
func (p *Principal) HasCapability(c Capability) bool {
	if p == nil {
		return false
	}
	return p.Role.Has(c)
}

type PrincipalDB interface {
	ChangePassword(p *Principal, old, new string) error
	Delete(p *Principal) error
	GetPrincipal(id int) (*Principal, error)
	GetPrincipalByName(name string) (*Principal, error)
	GetAllPrincipals(limit, offset int) ([]Principal, error)
	FilterActiveByRole(min Role, limit int) ([]Principal, error) // active principals with at least the given role
	InsertPrincipal(name string) (*Principal, error)
	LoginPrincipal(name, password string) (*Principal, error)
	SetActive(p *Principal, active bool) error
	SetPassword(p *Principal, password string) error
	SetPrefs(p *Principal, prefs NotificationPrefs) error
	SetRole(p *Principal, role Role) error
	Writeable() bool
}
