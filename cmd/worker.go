package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/ticketing/internal/auth"
	authPostgres "github.com/frahmantamala/ticketing/internal/auth/postgres"
	"github.com/frahmantamala/ticketing/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that keep the database tidy.`,
}

var sessionWorkerCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Purge expired sessions periodically",
	Long:  `Delete expired rows from the sessions table on a fixed interval until stopped.`,
	Run: func(cmd *cobra.Command, args []string) {
		startSessionWorker()
	},
}

var (
	sessionPurgeInterval time.Duration
	sessionPurgeOnce     bool
)

func startSessionWorker() {
	config, err := loadConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	db, _, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	sessions := auth.NewSessionManager(authPostgres.NewSessionRepository(db), auth.SessionConfig{
		Secret: config.Security.SessionSecret,
		TTL:    config.Security.SessionTTL,
	}, lg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	purge := func() {
		runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		n, err := sessions.PurgeExpired(runCtx)
		if err != nil {
			lg.Error("session purge failed", "error", err)
			return
		}
		lg.Info("expired sessions purged", "deleted", n)
	}

	purge()
	if sessionPurgeOnce {
		return
	}

	lg.Info("session worker is running. Press Ctrl+C to stop.", "interval", sessionPurgeInterval)
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			lg.Info("received signal, shutting down session worker")
			return
		case <-ticker.C:
			purge()
		}
	}
}

func init() {
	sessionWorkerCmd.Flags().DurationVar(&sessionPurgeInterval, "interval", time.Hour, "time between purges")
	sessionWorkerCmd.Flags().BoolVar(&sessionPurgeOnce, "once", false, "purge once and exit")

	workerCmd.AddCommand(sessionWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
