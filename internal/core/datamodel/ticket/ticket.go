package ticket

import "time"

type Ticket struct {
	ID        int64     `gorm:"primaryKey"`
	Aktifitas string    `gorm:"column:aktifitas;not null"`
	SubNode   string    `gorm:"column:sub_node"`
	Odc       string    `gorm:"column:odc"`
	Lokasi    string    `gorm:"column:lokasi"`
	Pic       string    `gorm:"column:pic"`
	Priority  string    `gorm:"column:priority;size:50"`
	Status    string    `gorm:"column:status;size:50;not null;default:Terlapor"`
	Info      string    `gorm:"column:info"`
	Evidence  *string   `gorm:"column:evidence"`
	CreatedBy string    `gorm:"column:created_by;size:50;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// StatusHistory rows are append-only and removed together with their ticket.
type StatusHistory struct {
	ID        int64     `gorm:"primaryKey"`
	TicketID  int64     `gorm:"column:ticket_id;index;not null"`
	OldStatus *string   `gorm:"column:old_status;size:50"`
	NewStatus string    `gorm:"column:new_status;size:50;not null"`
	ChangedBy string    `gorm:"column:changed_by;size:50;not null"`
	ChangedAt time.Time `gorm:"column:changed_at;index"`
}

func (StatusHistory) TableName() string {
	return "ticket_status_history"
}
