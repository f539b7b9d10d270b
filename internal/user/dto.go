package user

import (
	"strings"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/core/common/validation"
)

type UpdateProfileDTO struct {
	Username        string  `json:"username"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
	Phone           string  `json:"phone"`
	Photo           *string `json:"-"`
}

func (d *UpdateProfileDTO) Normalize() {
	d.Username = strings.TrimSpace(d.Username)
	d.Phone = strings.TrimSpace(d.Phone)
}

func (d UpdateProfileDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("currentPassword", d.CurrentPassword).Required()
	if d.NewPassword != "" {
		v.Field("newPassword", d.NewPassword).MinLength(6)
	}
	v.Field("phone", d.Phone).MaxLength(50)
	return v.Validate()
}

type AdminUpdateDTO struct {
	OriginalUsername string `json:"originalUsername"`
	FullName         string `json:"fullName"`
	Password         string `json:"password"`
	Phone            string `json:"phone"`
	Role             string `json:"role"`
}

func (d *AdminUpdateDTO) Normalize() {
	d.OriginalUsername = strings.TrimSpace(d.OriginalUsername)
	d.FullName = strings.TrimSpace(d.FullName)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Role = strings.TrimSpace(d.Role)
}

func (d AdminUpdateDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("originalUsername", d.OriginalUsername).Required()
	if d.Password != "" {
		v.Field("password", d.Password).MinLength(6)
	}
	v.Field("fullName", d.FullName).MaxLength(255)
	v.Field("phone", d.Phone).MaxLength(50)
	return v.Validate()
}

type UpdateRoleDTO struct {
	Username string `json:"username"`
	NewRole  string `json:"newRole"`
}

func (d UpdateRoleDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("newRole", d.NewRole).Required()
	return v.Validate()
}

type ProfileResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}
