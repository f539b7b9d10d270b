package auth

import (
	"time"

	userDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/user"
)

// Account is the authenticated user as returned by login.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone"`
	Photo        string    `json:"photo"`
	CreatedAt    time.Time `json:"createdAt"`
	PasswordHash string    `json:"-"`
}

const DefaultPhoto = "/uploads/default.png"

// RedirectFor is the landing page the browser client opens after login.
func RedirectFor(role Role) string {
	switch role {
	case RoleOwner, RoleOperator:
		return "/dashboard.html"
	case RoleTeknisi:
		return "/activity.html"
	default:
		return "/user-dashboard.html"
	}
}

func AccountFromDataModel(u *userDatamodel.User) *Account {
	if u == nil {
		return nil
	}
	return &Account{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Role:         Role(u.Role),
		Phone:        u.Phone,
		Photo:        u.Photo,
		CreatedAt:    u.CreatedAt,
		PasswordHash: u.PasswordHash,
	}
}
