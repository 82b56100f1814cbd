package core

// An Organization is a sanctioning body or promotion.
type Organization struct {
	ID      int
	Name    string
	Country string
}

type OrganizationDB interface {
	DeleteOrganization(id int) error
	GetOrganization(id int) (*Organization, error)
	GetAllOrganizations(limit, offset int) ([]Organization, error)
	InsertOrganization(o *Organization) error // sets o.ID
	UpdateOrganization(o *Organization) error
}
