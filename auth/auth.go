package auth

import (
	"errors"
)

type AuthDB struct {
	PrincipalDB
}

var ErrEmptyPassword = errors.New("refusing to set empty password")

// SetPassword shadows AuthDB.PrincipalDB.SetPassword.
func (a *AuthDB) SetPassword(p *Principal, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	return a.PrincipalDB.SetPassword(p, password)
}

// AssignRole resolves the role name and replaces the principal's role.
// Because a principal bears exactly one role, replacing it is a single
// store write: there is no partial state in which the old role is cleared
// but the new one not yet granted. An unknown role name leaves the
// principal untouched.
func (a *AuthDB) AssignRole(p *Principal, roleName string) error {
	role, err := ParseRole(roleName)
	if err != nil {
		return err
	}
	return a.PrincipalDB.SetRole(p, role)
}
