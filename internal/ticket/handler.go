package ticket

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/auth"
	"github.com/frahmantamala/ticketing/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor auth.Identity, dto CreateTicketDTO) (*Ticket, error)
	List(ctx context.Context, actor auth.Identity) ([]*Ticket, error)
	Get(ctx context.Context, actor auth.Identity, id int64) (*Ticket, error)
	Update(ctx context.Context, actor auth.Identity, id int64, dto UpdateTicketDTO) (*Ticket, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
	History(ctx context.Context, actor auth.Identity, id int64) ([]*History, error)
}

var ErrInvalidTicketID = internal.NewValidationError("invalid ticket id", internal.ErrCodeInvalidID)

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Uploader *transport.Uploader
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI, uploader *transport.Uploader) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
		Uploader:    uploader,
	}
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var dto CreateTicketDTO
	if err := h.BindRequest(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	dto.Evidence = h.evidenceFrom(r)

	t, err := h.Service.Create(r.Context(), auth.IdentityFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, TicketResponse{
		Message: "Ticket created successfully",
		Ticket:  t,
	})
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.Service.List(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, tickets)
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, err := ticketID(r)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	t, err := h.Service.Get(r.Context(), auth.IdentityFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := ticketID(r)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	var dto UpdateTicketDTO
	if err := h.BindRequest(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	dto.Evidence = h.evidenceFrom(r)

	t, err := h.Service.Update(r.Context(), auth.IdentityFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, TicketResponse{
		Message: "Ticket updated successfully",
		Ticket:  t,
	})
}

func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := ticketID(r)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), auth.IdentityFromContext(r.Context()), id); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Ticket deleted successfully")
}

func (h *Handler) GetTicketHistory(w http.ResponseWriter, r *http.Request) {
	id, err := ticketID(r)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	history, err := h.Service.History(r.Context(), auth.IdentityFromContext(r.Context()), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, history)
}

// evidenceFrom defers the upload of the "evidence" form file until the service
// has authorized the caller.
func (h *Handler) evidenceFrom(r *http.Request) EvidenceFunc {
	return func(context.Context) (*string, error) {
		return h.Uploader.SaveFormFile(r, "evidence", "evidence")
	}
}

func ticketID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidTicketID
	}
	return id, nil
}
