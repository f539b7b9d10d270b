package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/ticketing/internal"
	ticketDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/ticket"
	"gorm.io/gorm"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticketDatamodel.Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TicketRepository) List(ctx context.Context) ([]*ticketDatamodel.Ticket, error) {
	var tickets []*ticketDatamodel.Ticket
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&tickets).Error
	return tickets, err
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*ticketDatamodel.Ticket, error) {
	var t ticketDatamodel.Ticket
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) UpdateWithHistory(ctx context.Context, id int64, fields map[string]interface{}, history *ticketDatamodel.StatusHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ticketDatamodel.Ticket{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if history == nil {
			return nil
		}
		return tx.Create(history).Error
	})
}

// Delete removes the history rows explicitly so drivers without enforced
// foreign keys behave like the cascading schema.
func (r *TicketRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&ticketDatamodel.StatusHistory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&ticketDatamodel.Ticket{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrTicketNotFound
		}
		return nil
	})
}

func (r *TicketRepository) ListHistory(ctx context.Context, ticketID int64) ([]*ticketDatamodel.StatusHistory, error) {
	var rows []*ticketDatamodel.StatusHistory
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("changed_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}
