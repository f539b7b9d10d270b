package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/activity"
	"github.com/frahmantamala/ticketing/internal/auth"
	"github.com/frahmantamala/ticketing/internal/setting"
	"github.com/frahmantamala/ticketing/internal/storage"
	"github.com/frahmantamala/ticketing/internal/ticket"
	"github.com/frahmantamala/ticketing/internal/transport"
	"github.com/frahmantamala/ticketing/internal/transport/middleware"
	"github.com/frahmantamala/ticketing/internal/transport/swagger"
	"github.com/frahmantamala/ticketing/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

const loginLimitMessage = "Too many login attempts, please try again later."

// ObjectReader is the read side of upload storage.
type ObjectReader interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

type Dependencies struct {
	DB              *sqlx.DB
	Sessions        *auth.SessionManager
	AuthHandler     *auth.Handler
	UserHandler     *user.Handler
	TicketHandler   *ticket.Handler
	ActivityHandler *activity.Handler
	SettingHandler  *setting.Handler
	Uploads         ObjectReader
	ServerConfig    internal.ServerConfig
	RateLimitConfig internal.RateLimitConfig
	Logger          *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.DB)
	rbac := auth.NewRBACAuthorization(deps.Logger)

	globalLimiter := middleware.NewIPRateLimiter(deps.RateLimitConfig.GlobalRequests, deps.RateLimitConfig.GlobalWindow)
	loginLimiter := middleware.NewIPRateLimiter(deps.RateLimitConfig.LoginAttempts, deps.RateLimitConfig.LoginWindow)

	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.CORS(deps.ServerConfig.AllowedOrigins))
	router.Use(middleware.RateLimit(globalLimiter, "Too many requests, please try again later."))
	router.Use(deps.Sessions.Middleware)

	router.Get(swagger.SpecPath, swagger.SpecHandler)
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/ping", healthHandler.Ping)
	})

	if deps.Uploads != nil {
		router.Get(transport.UploadsPrefix+"*", serveUpload(deps.Uploads, transport.NewBaseHandler(deps.Logger)))
	}

	// Public: login, logout, register and settings reads
	router.With(middleware.RateLimit(loginLimiter, loginLimitMessage)).Post("/login", deps.AuthHandler.Login)
	router.Post("/logout", deps.AuthHandler.Logout)
	router.Post("/register", deps.AuthHandler.Register)
	router.Get("/settings/company-name", deps.SettingHandler.GetCompanyName)
	router.Get("/settings/company-logo", deps.SettingHandler.GetCompanyLogo)

	router.Group(func(pr chi.Router) {
		pr.Use(rbac.RequireAuthenticated())

		pr.Route("/tickets", func(tr chi.Router) {
			tr.Get("/", deps.TicketHandler.ListTickets)
			tr.Post("/", deps.TicketHandler.CreateTicket)
			tr.Get("/{id}", deps.TicketHandler.GetTicket)
			tr.Delete("/{id}", deps.TicketHandler.DeleteTicket)
			tr.Post("/{id}/update", deps.TicketHandler.UpdateTicket)
			tr.Get("/{id}/history", deps.TicketHandler.GetTicketHistory)
		})

		pr.Get("/activities", deps.ActivityHandler.ListActivities)
		pr.Post("/activities", deps.ActivityHandler.CreateActivity)

		pr.Get("/users/{username}", deps.UserHandler.GetUser)
		pr.Post("/update-profile", deps.UserHandler.UpdateProfile)
	})

	router.Group(func(pr chi.Router) {
		pr.Use(rbac.RequireOwnerOrOperator())

		pr.Get("/users", deps.UserHandler.ListUsers)
		pr.Delete("/activities/{id}", deps.ActivityHandler.DeleteActivity)
	})

	router.Group(func(ar chi.Router) {
		ar.Use(rbac.RequireAdmin())

		ar.Delete("/users/{username}", deps.UserHandler.DeleteUser)
		ar.Post("/admin/users/update", deps.UserHandler.AdminUpdateUser)
		ar.Post("/update-role", deps.UserHandler.UpdateRole)
		ar.Post("/settings/company-name", deps.SettingHandler.UpdateCompanyName)
		ar.Post("/settings/company-logo", deps.SettingHandler.UpdateCompanyLogo)
	})
}

func serveUpload(store ObjectReader, base *transport.BaseHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if key == "" {
			base.WriteError(w, http.StatusNotFound, "File not found")
			return
		}

		obj, err := store.Get(r.Context(), key)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				base.WriteError(w, http.StatusNotFound, "File not found")
				return
			}
			base.HandleError(w, r, internal.NewInternalError("failed to read upload", err))
			return
		}
		defer obj.Close()

		if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
			w.Header().Set("Content-Type", ct)
		} else {
			w.Header().Set("Content-Type", "application/octet-stream")
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if _, err := io.Copy(w, obj); err != nil {
			base.Logger.Warn("upload stream interrupted", "key", key, "error", err)
		}
	}
}
