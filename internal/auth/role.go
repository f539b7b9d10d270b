package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the only authorization attribute a user carries.
type Role string

const (
	RoleOwner    Role = "Owner"
	RoleOperator Role = "Operator"
	RoleTeknisi  Role = "Teknisi"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole accepts the canonical role names, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "owner":
		return RoleOwner, nil
	case "operator":
		return RoleOperator, nil
	case "teknisi":
		return RoleTeknisi, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleOperator, RoleTeknisi:
		return true
	default:
		return false
	}
}

// Privileged reports whether the role sees every user's tickets and activities.
func (r Role) Privileged() bool {
	switch r {
	case RoleOwner, RoleOperator:
		return true
	case RoleTeknisi:
		return false
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

func AllRoles() []Role {
	return []Role{RoleOwner, RoleOperator, RoleTeknisi}
}
