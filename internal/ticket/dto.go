package ticket

import (
	"context"
	"strings"
	"time"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/core/common/validation"
)

// EvidenceFunc stores an uploaded evidence file and returns its path, or nil
// when the request carried none. The service calls it only after the caller
// has been authorized.
type EvidenceFunc func(ctx context.Context) (*string, error)

var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type CreateTicketDTO struct {
	Aktifitas string `json:"aktifitas"`
	SubNode   string `json:"subNode"`
	Odc       string `json:"odc"`
	Lokasi    string `json:"lokasi"`
	Pic       string `json:"pic"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
	Info      string `json:"info"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`

	Evidence EvidenceFunc `json:"-"`
}

func (d *CreateTicketDTO) Normalize() {
	d.Aktifitas = strings.TrimSpace(d.Aktifitas)
	d.CreatedBy = strings.TrimSpace(d.CreatedBy)
	d.Status = strings.TrimSpace(d.Status)
	d.CreatedAt = strings.TrimSpace(d.CreatedAt)
}

func (d CreateTicketDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("aktifitas", d.Aktifitas).Required().MaxLength(255)
	v.Field("status", d.Status).Custom(validStatus)
	v.Field("priority", d.Priority).MaxLength(50)
	return v.Validate()
}

// CreatedAtTime parses the optional createdAt field; a blank value is zero time.
func (d CreateTicketDTO) CreatedAtTime() (time.Time, *internal.AppError) {
	return parseCreatedAt(d.CreatedAt)
}

// UpdateTicketDTO applies only the fields that are non-empty. Odc is a pointer
// because clearing it is a legitimate edit.
type UpdateTicketDTO struct {
	Aktifitas string  `json:"aktifitas"`
	SubNode   string  `json:"subNode"`
	Odc       *string `json:"odc"`
	Lokasi    string  `json:"lokasi"`
	Pic       string  `json:"pic"`
	Priority  string  `json:"priority"`
	Status    string  `json:"status"`
	Info      string  `json:"info"`

	Evidence EvidenceFunc `json:"-"`
}

func (d *UpdateTicketDTO) Normalize() {
	d.Aktifitas = strings.TrimSpace(d.Aktifitas)
	d.Status = strings.TrimSpace(d.Status)
}

func (d UpdateTicketDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("aktifitas", d.Aktifitas).MaxLength(255)
	v.Field("status", d.Status).Custom(validStatus)
	v.Field("priority", d.Priority).MaxLength(50)
	return v.Validate()
}

type TicketResponse struct {
	Message string  `json:"message"`
	Ticket  *Ticket `json:"ticket"`
}

func validStatus(value interface{}) *internal.AppError {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := ParseStatus(s); err != nil {
		return internal.NewValidationFieldError("status", "status must be one of: "+strings.Join(statusNames(), ", "), internal.ErrCodeInvalidValue)
	}
	return nil
}

func parseCreatedAt(raw string) (time.Time, *internal.AppError) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, internal.NewValidationFieldError("createdAt", "createdAt is not a valid date", internal.ErrCodeInvalidDate)
}
