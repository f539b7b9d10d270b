package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTicketCreated       = "ticket.created"
	EventTypeTicketStatusChanged = "ticket.status_changed"
	EventTypeTicketDeleted       = "ticket.deleted"
)

// TicketEventTypes lists every ticket event, for subscribers that forward all of them.
var TicketEventTypes = []string{
	EventTypeTicketCreated,
	EventTypeTicketStatusChanged,
	EventTypeTicketDeleted,
}

type TicketCreatedEvent struct {
	BaseEvent
	TicketID  int64  `json:"ticket_id"`
	CreatedBy string `json:"created_by"`
	Status    string `json:"status"`
}

func NewTicketCreatedEvent(ticketID int64, createdBy, status string) *TicketCreatedEvent {
	return &TicketCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTicketCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ticket_id":  ticketID,
				"created_by": createdBy,
				"status":     status,
			},
		},
		TicketID:  ticketID,
		CreatedBy: createdBy,
		Status:    status,
	}
}

type TicketStatusChangedEvent struct {
	BaseEvent
	TicketID  int64  `json:"ticket_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by"`
}

func NewTicketStatusChangedEvent(ticketID int64, oldStatus, newStatus, changedBy string) *TicketStatusChangedEvent {
	return &TicketStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTicketStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ticket_id":  ticketID,
				"old_status": oldStatus,
				"new_status": newStatus,
				"changed_by": changedBy,
			},
		},
		TicketID:  ticketID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
	}
}

type TicketDeletedEvent struct {
	BaseEvent
	TicketID  int64  `json:"ticket_id"`
	DeletedBy string `json:"deleted_by"`
}

func NewTicketDeletedEvent(ticketID int64, deletedBy string) *TicketDeletedEvent {
	return &TicketDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTicketDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ticket_id":  ticketID,
				"deleted_by": deletedBy,
			},
		},
		TicketID:  ticketID,
		DeletedBy: deletedBy,
	}
}
