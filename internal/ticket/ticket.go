package ticket

import (
	"errors"
	"strings"
	"time"

	ticketDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/ticket"
)

type Status string

const (
	StatusTerlapor   Status = "Terlapor"
	StatusDikerjakan Status = "Dikerjakan"
	StatusPending    Status = "Pending"
	StatusSelesai    Status = "Selesai"
)

var ErrUnknownStatus = errors.New("unknown ticket status")

func AllStatuses() []Status {
	return []Status{StatusTerlapor, StatusDikerjakan, StatusPending, StatusSelesai}
}

func statusNames() []string {
	names := make([]string, 0, 4)
	for _, s := range AllStatuses() {
		names = append(names, string(s))
	}
	return names
}

// ParseStatus accepts the canonical names case-insensitively.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range AllStatuses() {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", ErrUnknownStatus
}

type Ticket struct {
	ID        int64     `json:"id"`
	Aktifitas string    `json:"aktifitas"`
	SubNode   string    `json:"subNode"`
	Odc       string    `json:"odc"`
	Lokasi    string    `json:"lokasi"`
	Pic       string    `json:"pic"`
	Priority  string    `json:"priority"`
	Status    Status    `json:"status"`
	Info      string    `json:"info"`
	Evidence  *string   `json:"evidence"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type History struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticketId"`
	OldStatus *string   `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ChangedBy string    `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
}

func FromDataModel(t *ticketDatamodel.Ticket) *Ticket {
	if t == nil {
		return nil
	}
	return &Ticket{
		ID:        t.ID,
		Aktifitas: t.Aktifitas,
		SubNode:   t.SubNode,
		Odc:       t.Odc,
		Lokasi:    t.Lokasi,
		Pic:       t.Pic,
		Priority:  t.Priority,
		Status:    Status(t.Status),
		Info:      t.Info,
		Evidence:  t.Evidence,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
	}
}

func FromDataModels(rows []*ticketDatamodel.Ticket) []*Ticket {
	out := make([]*Ticket, 0, len(rows))
	for _, t := range rows {
		out = append(out, FromDataModel(t))
	}
	return out
}

func HistoryFromDataModels(rows []*ticketDatamodel.StatusHistory) []*History {
	out := make([]*History, 0, len(rows))
	for _, h := range rows {
		out = append(out, &History{
			ID:        h.ID,
			TicketID:  h.TicketID,
			OldStatus: h.OldStatus,
			NewStatus: h.NewStatus,
			ChangedBy: h.ChangedBy,
			ChangedAt: h.ChangedAt,
		})
	}
	return out
}
