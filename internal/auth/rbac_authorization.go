package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/transport"
)

// Check is one route-level predicate paired with the error written when it fails.
type Check struct {
	Name  string
	Allow func(Identity) bool
	Err   *internal.AppError
}

var (
	CheckAuthenticated   = Check{Name: "authenticated", Allow: IsAuthenticated, Err: internal.ErrLoginRequired}
	CheckAdmin           = Check{Name: "admin", Allow: IsAdmin, Err: internal.ErrOwnerRequired}
	CheckOwnerOrOperator = Check{Name: "owner_or_operator", Allow: IsOwnerOrOperator, Err: internal.ErrPrivilegedRequired}
)

type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

// Require evaluates checks in order. The first failing check writes the
// response; later checks and the wrapped handler never run.
func (ra *RBACAuthorization) Require(checks ...Check) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			for _, c := range checks {
				if c.Allow(id) {
					continue
				}
				ra.Logger.WarnContext(r.Context(), "access denied",
					"check", c.Name,
					"username", id.Username,
					"role", id.Role,
					"path", r.URL.Path)
				ra.HandleError(w, r, c.Err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireAuthenticated() func(http.Handler) http.Handler {
	return ra.Require(CheckAuthenticated)
}

func (ra *RBACAuthorization) RequireOwnerOrOperator() func(http.Handler) http.Handler {
	return ra.Require(CheckAuthenticated, CheckOwnerOrOperator)
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.Require(CheckAuthenticated, CheckAdmin)
}
