package domain

import (
	"errors"
	"strings"
	"time"
)

// Canonical role enumeration. Roles are stored lowercase; every comparison
// goes through NormalizeRole so mixed-case input from older clients still
// resolves.
const (
	RoleAdmin     = "admin"
	RoleSubAdmin  = "sub_admin"
	RoleVolunteer = "volunteer"
	RoleMember    = "member"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrUserInactive = errors.New("user account is inactive")

// Principal models an authenticated operator of the back office.
type Principal struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NormalizeRole maps any casing/spacing variant ("Sub Admin", "ADMIN") onto
// the canonical enumeration. ok is false for roles outside the enumeration.
func NormalizeRole(s string) (role string, ok bool) {
	r := strings.ToLower(strings.TrimSpace(s))
	r = strings.ReplaceAll(r, " ", "_")
	switch r {
	case RoleAdmin, RoleSubAdmin, RoleVolunteer, RoleMember:
		return r, true
	}
	return "", false
}

// HasRole reports whether the principal's role matches any of the given
// roles, case-insensitively.
func (p *Principal) HasRole(roles ...string) bool {
	actual, ok := NormalizeRole(p.Role)
	if !ok {
		return false
	}
	for _, r := range roles {
		if want, ok := NormalizeRole(r); ok && want == actual {
			return true
		}
	}
	return false
}
