package ticket

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/auth"
	ticketDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/ticket"
	"github.com/frahmantamala/ticketing/internal/core/events"
)

type RepositoryAPI interface {
	Create(ctx context.Context, t *ticketDatamodel.Ticket) error
	List(ctx context.Context) ([]*ticketDatamodel.Ticket, error)
	GetByID(ctx context.Context, id int64) (*ticketDatamodel.Ticket, error)
	// UpdateWithHistory applies fields and, when history is non-nil, appends it
	// in the same transaction.
	UpdateWithHistory(ctx context.Context, id int64, fields map[string]interface{}, history *ticketDatamodel.StatusHistory) error
	Delete(ctx context.Context, id int64) error
	ListHistory(ctx context.Context, ticketID int64) ([]*ticketDatamodel.StatusHistory, error)
}

var (
	ErrInvalidCreator = internal.NewForbiddenError("Forbidden: Invalid creator", internal.ErrCodeInvalidCreator)
	ErrCannotView     = internal.NewForbiddenError("Forbidden: You do not have permission to view this ticket.", internal.ErrCodeNotResourceOwner)
	ErrCannotEdit     = internal.NewForbiddenError("Forbidden: You do not have permission to edit this ticket.", internal.ErrCodeNotResourceOwner)
	ErrCannotDelete   = internal.NewForbiddenError("Forbidden: You do not have permission to delete this ticket.", internal.ErrCodeNotResourceOwner)
)

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Create(ctx context.Context, actor auth.Identity, dto CreateTicketDTO) (*Ticket, error) {
	dto.Normalize()
	if !auth.RequireSelf(actor, dto.CreatedBy) {
		s.logger.Warn("Create: creator mismatch", "actor", actor.Username, "createdBy", dto.CreatedBy)
		return nil, ErrInvalidCreator
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	createdAt, appErr := dto.CreatedAtTime()
	if appErr != nil {
		return nil, appErr
	}
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	status := StatusTerlapor
	if dto.Status != "" {
		status, _ = ParseStatus(dto.Status)
	}

	evidence, err := s.saveEvidence(ctx, dto.Evidence)
	if err != nil {
		return nil, err
	}

	row := &ticketDatamodel.Ticket{
		Aktifitas: dto.Aktifitas,
		SubNode:   dto.SubNode,
		Odc:       dto.Odc,
		Lokasi:    dto.Lokasi,
		Pic:       dto.Pic,
		Priority:  dto.Priority,
		Status:    string(status),
		Info:      dto.Info,
		Evidence:  evidence,
		CreatedBy: actor.Username,
		CreatedAt: createdAt,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, internal.NewInternalError("failed to create ticket", err)
	}

	s.logger.Info("Create: ticket created", "ticketID", row.ID, "createdBy", row.CreatedBy, "status", row.Status)
	s.publish(ctx, events.NewTicketCreatedEvent(row.ID, row.CreatedBy, row.Status))
	return FromDataModel(row), nil
}

// List returns every ticket, newest first. Any authenticated caller may list.
func (s *Service) List(ctx context.Context, actor auth.Identity) ([]*Ticket, error) {
	if !auth.IsAuthenticated(actor) {
		return nil, internal.ErrLoginRequired
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list tickets", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, id int64) (*Ticket, error) {
	row, err := s.authorize(ctx, actor, id, ErrCannotView)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// Update applies non-empty fields. A status change appends one history row in
// the same transaction; an unchanged status appends none.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id int64, dto UpdateTicketDTO) (*Ticket, error) {
	current, err := s.authorize(ctx, actor, id, ErrCannotEdit)
	if err != nil {
		return nil, err
	}
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	setIfPresent(fields, "aktifitas", dto.Aktifitas)
	setIfPresent(fields, "sub_node", dto.SubNode)
	setIfPresent(fields, "lokasi", dto.Lokasi)
	setIfPresent(fields, "pic", dto.Pic)
	setIfPresent(fields, "priority", dto.Priority)
	setIfPresent(fields, "info", dto.Info)
	if dto.Odc != nil {
		fields["odc"] = *dto.Odc
	}

	var history *ticketDatamodel.StatusHistory
	if dto.Status != "" {
		newStatus, _ := ParseStatus(dto.Status)
		fields["status"] = string(newStatus)
		if string(newStatus) != current.Status {
			old := current.Status
			history = &ticketDatamodel.StatusHistory{
				TicketID:  current.ID,
				OldStatus: &old,
				NewStatus: string(newStatus),
				ChangedBy: actor.Username,
				ChangedAt: s.now(),
			}
		}
	}

	evidence, err := s.saveEvidence(ctx, dto.Evidence)
	if err != nil {
		return nil, err
	}
	if evidence != nil {
		fields["evidence"] = *evidence
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateWithHistory(ctx, id, fields, history); err != nil {
			return nil, s.mapLookupError(err, "failed to update ticket")
		}
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, "failed to load ticket")
	}

	s.logger.Info("Update: ticket updated", "ticketID", id, "by", actor.Username, "fields", len(fields))
	if history != nil {
		s.publish(ctx, events.NewTicketStatusChangedEvent(id, *history.OldStatus, history.NewStatus, actor.Username))
	}
	return FromDataModel(updated), nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if _, err := s.authorize(ctx, actor, id, ErrCannotDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapLookupError(err, "failed to delete ticket")
	}
	s.logger.Info("Delete: ticket deleted", "ticketID", id, "by", actor.Username)
	s.publish(ctx, events.NewTicketDeletedEvent(id, actor.Username))
	return nil
}

// History is guarded like Get and returns the latest change first.
func (s *Service) History(ctx context.Context, actor auth.Identity, id int64) ([]*History, error) {
	if _, err := s.authorize(ctx, actor, id, ErrCannotView); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load ticket history", err)
	}
	return HistoryFromDataModels(rows), nil
}

// authorize fetches the ticket first so a missing record is a 404 for every
// role, then applies the ownership rule.
func (s *Service) authorize(ctx context.Context, actor auth.Identity, id int64, denied *internal.AppError) (*ticketDatamodel.Ticket, error) {
	if !auth.IsAuthenticated(actor) {
		return nil, internal.ErrLoginRequired
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, "failed to load ticket")
	}
	if !auth.CanAccess(actor, row.CreatedBy) {
		s.logger.Warn("ticket access denied", "ticketID", id, "actor", actor.Username, "owner", row.CreatedBy)
		return nil, denied
	}
	return row, nil
}

func (s *Service) saveEvidence(ctx context.Context, fn EvidenceFunc) (*string, error) {
	if fn == nil {
		return nil, nil
	}
	return fn(ctx)
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Error("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}

func (s *Service) mapLookupError(err error, message string) error {
	if errors.Is(err, internal.ErrTicketNotFound) {
		return internal.ErrTicketNotFound
	}
	return internal.NewInternalError(message, err)
}

func setIfPresent(fields map[string]interface{}, column, value string) {
	if value != "" {
		fields[column] = value
	}
}
