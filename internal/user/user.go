package user

import (
	"time"

	"github.com/frahmantamala/ticketing/internal/auth"
	userDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/user"
)

// User is the client-facing user shape; the password hash never leaves the service.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Role      auth.Role `json:"role"`
	Phone     string    `json:"phone"`
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromDataModel(u *userDatamodel.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      auth.Role(u.Role),
		Phone:     u.Phone,
		Photo:     u.Photo,
		CreatedAt: u.CreatedAt,
	}
}

func FromDataModels(rows []*userDatamodel.User) []*User {
	out := make([]*User, 0, len(rows))
	for _, u := range rows {
		out = append(out, FromDataModel(u))
	}
	return out
}
