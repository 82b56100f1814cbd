package auth

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRole = errors.New("invalid role")

// Higher roles include the capabilities of lower roles.
type Role int

const (
	RoleNone      Role = 0
	RoleAuthor    Role = 100
	RoleEditor    Role = 200
	RolePublisher Role = 300
	RoleAdmin     Role = 400
)

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleAuthor:
		return "author"
	case RoleEditor:
		return "editor"
	case RolePublisher:
		return "publisher"
	case RoleAdmin:
		return "admin"
	}
	return "unknown"
}

func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleAuthor, RoleEditor, RolePublisher, RoleAdmin:
		return true
	default:
		return false
	}
}

// AllRoles lists the assignable roles, lowest first.
func AllRoles() []Role {
	return []Role{RoleAuthor, RoleEditor, RolePublisher, RoleAdmin}
}

// ParseRole resolves a role name. Unknown names yield ErrInvalidRole.
func ParseRole(name string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "author":
		return RoleAuthor, nil
	case "editor":
		return RoleEditor, nil
	case "publisher":
		return RolePublisher, nil
	case "admin":
		return RoleAdmin, nil
	}
	return RoleNone, fmt.Errorf("%w: %s", ErrInvalidRole, name)
}
