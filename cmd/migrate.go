package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/ticketing/internal"
	"github.com/frahmantamala/ticketing/internal/core/datamodel"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
	migrateAuto     bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.Flags().BoolVar(&migrateAuto, "auto", false, "create tables from the gorm models instead of sql files (mysql, sqlite)")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configDir)
	if err != nil {
		log.Fatal(err)
	}

	if migrateAuto || cfg.Database.Driver != internal.DriverPostgres {
		return autoMigrate(cfg.Database)
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, db, migrateDir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}

func autoMigrate(cfg internal.DatabaseConfig) error {
	if migrateRollback {
		return fmt.Errorf("rollback is only supported for sql migrations on %s", internal.DriverPostgres)
	}
	db, gormDB, err := initDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := gormDB.AutoMigrate(datamodel.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Printf("auto migration complete for %s", cfg.Driver)
	return nil
}
