package activity

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/auth"
	"github.com/frahmantamala/ticketing/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor auth.Identity, dto CreateActivityDTO) (*Activity, error)
	List(ctx context.Context, actor auth.Identity, username string) ([]*Activity, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
}

var ErrInvalidActivityID = internal.NewValidationError("invalid activity id", internal.ErrCodeInvalidID)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: service}
}

func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var dto CreateActivityDTO
	if err := h.BindRequest(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	a, err := h.Service.Create(r.Context(), auth.IdentityFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, ActivityResponse{
		Message:  "Activity logged successfully",
		Activity: a,
	})
}

func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	list, err := h.Service.List(r.Context(), auth.IdentityFromContext(r.Context()), username)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.HandleError(w, r, ErrInvalidActivityID)
		return
	}
	if err := h.Service.Delete(r.Context(), auth.IdentityFromContext(r.Context()), id); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Activity deleted successfully")
}
