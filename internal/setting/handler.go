package setting

import (
	"context"
	"net/http"

	"github.com/frahmantamala/ticketing/internal/auth"
	"github.com/frahmantamala/ticketing/internal/transport"
)

type ServiceAPI interface {
	CompanyName(ctx context.Context) (string, error)
	UpdateCompanyName(ctx context.Context, actor auth.Identity, name string) (string, error)
	CompanyLogo(ctx context.Context) (*string, error)
	UpdateCompanyLogo(ctx context.Context, actor auth.Identity, logoURL *string) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Uploader *transport.Uploader
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI, uploader *transport.Uploader) *Handler {
	return &Handler{BaseHandler: base, Service: service, Uploader: uploader}
}

func (h *Handler) GetCompanyName(w http.ResponseWriter, r *http.Request) {
	name, err := h.Service.CompanyName(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CompanyNameResponse{CompanyName: name})
}

func (h *Handler) UpdateCompanyName(w http.ResponseWriter, r *http.Request) {
	var dto UpdateCompanyNameDTO
	if err := h.BindRequest(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	name, err := h.Service.UpdateCompanyName(r.Context(), auth.IdentityFromContext(r.Context()), dto.CompanyName)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UpdateCompanyNameResponse{
		Message:     "Company name updated successfully",
		CompanyName: name,
	})
}

func (h *Handler) GetCompanyLogo(w http.ResponseWriter, r *http.Request) {
	logo, err := h.Service.CompanyLogo(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CompanyLogoResponse{LogoURL: logo})
}

// UpdateCompanyLogo is routed behind the Owner gate, so the upload only
// happens for an authorized caller.
func (h *Handler) UpdateCompanyLogo(w http.ResponseWriter, r *http.Request) {
	logo, err := h.Uploader.SaveFormFile(r, "logo", "logos")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	url, err := h.Service.UpdateCompanyLogo(r.Context(), auth.IdentityFromContext(r.Context()), logo)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UpdateCompanyLogoResponse{
		Message: "Company logo updated successfully",
		LogoURL: url,
	})
}
