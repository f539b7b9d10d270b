package activity

import (
	"strings"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/core/common/validation"
)

type CreateActivityDTO struct {
	Description string `json:"description"`
	Username    string `json:"username"`
}

func (d *CreateActivityDTO) Normalize() {
	d.Description = strings.TrimSpace(d.Description)
	d.Username = strings.TrimSpace(d.Username)
}

func (d CreateActivityDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("description", d.Description).Required().MaxLength(2000)
	return v.Validate()
}

type ActivityResponse struct {
	Message  string    `json:"message"`
	Activity *Activity `json:"activity"`
}
