package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/ticketing/internal/auth"
	"github.com/frahmantamala/ticketing/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, actor auth.Identity) ([]*User, error)
	Get(ctx context.Context, actor auth.Identity, username string) (*User, error)
	UpdateProfile(ctx context.Context, actor auth.Identity, dto UpdateProfileDTO) (*User, error)
	AdminUpdate(ctx context.Context, actor auth.Identity, dto AdminUpdateDTO) error
	UpdateRole(ctx context.Context, actor auth.Identity, dto UpdateRoleDTO) error
	Delete(ctx context.Context, actor auth.Identity, username string) error
}

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

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.Get(r.Context(), auth.IdentityFromContext(r.Context()), chi.URLParam(r, "username"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor := auth.IdentityFromContext(r.Context())

	var dto UpdateProfileDTO
	if err := h.BindRequest(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	dto.Normalize()
	if !auth.RequireSelf(actor, dto.Username) {
		h.HandleError(w, r, ErrCannotUpdateOthers)
		return
	}

	photo, err := h.Uploader.SaveFormFile(r, "photo", "photos")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	dto.Photo = photo

	u, err := h.Service.UpdateProfile(r.Context(), actor, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ProfileResponse{
		Message: "Profile updated successfully",
		User:    u,
	})
}

func (h *Handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var dto AdminUpdateDTO
	if err := h.BindRequest(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.AdminUpdate(r.Context(), auth.IdentityFromContext(r.Context()), dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "User updated successfully")
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var dto UpdateRoleDTO
	if err := h.BindRequest(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.UpdateRole(r.Context(), auth.IdentityFromContext(r.Context()), dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Role updated successfully")
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := h.Service.Delete(r.Context(), auth.IdentityFromContext(r.Context()), username); err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "User deleted successfully")
}
