package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/ticketing/internal/transport"
	"github.com/frahmantamala/ticketing/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*Account, error)
	Register(ctx context.Context, actor Identity, dto RegisterDTO) (*Account, error)
}

type SessionAPI interface {
	Create(ctx context.Context, w http.ResponseWriter, username string) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Sessions SessionAPI
	Uploader *transport.Uploader
}

func NewHandler(svc ServiceAPI, sessions SessionAPI, uploader *transport.Uploader) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
		Sessions:    sessions,
		Uploader:    uploader,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.BindRequest(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	account, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Sessions.Create(r.Context(), w, account.Username); err != nil {
		h.Logger.Error("Login: failed to create session", "error", err, "username", account.Username)
		h.HandleError(w, r, err)
		return
	}

	h.Logger.Info("Login: user logged in", "username", account.Username, "role", account.Role)
	h.WriteJSON(w, http.StatusOK, LoginResponse{
		Message:  "Login successful",
		Redirect: RedirectFor(account.Role),
		User:     account,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Destroy(r.Context(), w, r); err != nil {
		h.Logger.Error("Logout: failed to destroy session", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "Logout failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, RedirectResponse{
		Message:  "Logout successful",
		Redirect: "/index.html",
	})
}

// Register is public; the caller's session, when present, only matters for
// choosing a role other than Teknisi.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.BindRequest(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		h.HandleError(w, r, err)
		return
	}

	photo, err := h.Uploader.SaveFormFile(r, "photo", "photos")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	dto.Photo = photo

	if _, err := h.Service.Register(r.Context(), IdentityFromContext(r.Context()), dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, RedirectResponse{
		Message:  "Account created successfully",
		Redirect: "/index.html",
	})
}
