package auth

import (
	"strings"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (d *LoginDTO) Normalize() {
	d.Username = strings.TrimSpace(d.Username)
	d.Password = strings.TrimSpace(d.Password)
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

type RegisterDTO struct {
	FullName string  `json:"fullName"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	Phone    string  `json:"phone"`
	Role     string  `json:"role"`
	Photo    *string `json:"-"`
}

func (d *RegisterDTO) Normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Username = strings.TrimSpace(d.Username)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Role = strings.TrimSpace(d.Role)
}

func (d RegisterDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MinLength(3).MaxLength(50)
	v.Field("password", d.Password).Required().MinLength(6)
	v.Field("fullName", d.FullName).MaxLength(255)
	v.Field("phone", d.Phone).MaxLength(50)
	return v.Validate()
}

type LoginResponse struct {
	Message  string   `json:"message"`
	Redirect string   `json:"redirect"`
	User     *Account `json:"user"`
}

type RedirectResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}
