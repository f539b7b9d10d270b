package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/activity"
	activityPostgres "github.com/frahmantamala/ticketing/internal/activity/postgres"
	"github.com/frahmantamala/ticketing/internal/auth"
	authPostgres "github.com/frahmantamala/ticketing/internal/auth/postgres"
	"github.com/frahmantamala/ticketing/internal/core/events"
	"github.com/frahmantamala/ticketing/internal/messaging"
	"github.com/frahmantamala/ticketing/internal/setting"
	settingPostgres "github.com/frahmantamala/ticketing/internal/setting/postgres"
	"github.com/frahmantamala/ticketing/internal/storage"
	"github.com/frahmantamala/ticketing/internal/ticket"
	ticketPostgres "github.com/frahmantamala/ticketing/internal/ticket/postgres"
	"github.com/frahmantamala/ticketing/internal/transport"
	"github.com/frahmantamala/ticketing/internal/transport/rest"
	"github.com/frahmantamala/ticketing/internal/transport/swagger"
	"github.com/frahmantamala/ticketing/internal/user"
	userPostgres "github.com/frahmantamala/ticketing/internal/user/postgres"
	"github.com/frahmantamala/ticketing/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config    *internal.Config
	DB        *sqlx.DB
	Gorm      *gorm.DB
	Router    *chi.Mux
	EventBus  *events.EventBus
	Publisher *messaging.Publisher
	Logger    *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.EventBus.Wait(ctx); err != nil {
			deps.Logger.Warn("Event handlers still running at shutdown", "error", err)
		}
		if deps.Publisher != nil {
			if err := deps.Publisher.Close(); err != nil {
				deps.Logger.Error("RabbitMQ close error", "error", err)
			}
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	if _, err := swagger.Load(context.Background()); err != nil {
		return err
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	ctx, cancel := internal.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("failed to prepare upload bucket: %w", err)
	}

	uploader := transport.NewUploader(store, cfg.Storage.MaxUploadSize)
	base := transport.NewBaseHandler(lg)

	sessions := auth.NewSessionManager(authPostgres.NewSessionRepository(deps.DB), auth.SessionConfig{
		Secret:       cfg.Security.SessionSecret,
		TTL:          cfg.Security.SessionTTL,
		CookieName:   cfg.Security.CookieName,
		CookieSecure: cfg.Security.CookieSecure,
	}, lg)

	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), cfg.Security.BCryptCost, lg)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), sessions, cfg.Security.BCryptCost, lg)
	ticketService := ticket.NewService(ticketPostgres.NewTicketRepository(deps.Gorm), deps.EventBus, lg)
	activityService := activity.NewService(activityPostgres.NewActivityRepository(deps.Gorm), lg)
	settingService := setting.NewService(settingPostgres.NewSettingRepository(deps.Gorm), lg)

	rest.RegisterAllRoutes(deps.Router, rest.Dependencies{
		DB:              deps.DB,
		Sessions:        sessions,
		AuthHandler:     auth.NewHandler(authService, sessions, uploader),
		UserHandler:     user.NewHandler(base, userService, uploader),
		TicketHandler:   ticket.NewHandler(base, ticketService, uploader),
		ActivityHandler: activity.NewHandler(base, activityService),
		SettingHandler:  setting.NewHandler(base, settingService, uploader),
		Uploads:         store,
		ServerConfig:    cfg.Server,
		RateLimitConfig: cfg.RateLimit,
		Logger:          lg,
	})
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bus := events.NewEventBus(lg)
	deps := &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Gorm:     gormDB,
		Router:   chi.NewRouter(),
		EventBus: bus,
	}

	if config.Messaging.Enabled {
		publisher, err := messaging.NewPublisher(config.Messaging, lg)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to message broker: %w", err)
		}
		publisher.Register(bus)
		deps.Publisher = publisher
	}

	return deps, nil
}
