package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/frahmantamala/ticketing/internal/auth"
	authPostgres "github.com/frahmantamala/ticketing/internal/auth/postgres"
	userDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/user"
	"github.com/frahmantamala/ticketing/internal/setting"
	settingPostgres "github.com/frahmantamala/ticketing/internal/setting/postgres"
	"github.com/frahmantamala/ticketing/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	seedOwnerUsername string
	seedOwnerPassword string
	seedCompanyName   string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the first Owner account and default settings",
	Long:  `Create the initial Owner account and the company_name setting if they do not exist yet.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configDir)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, gormDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		ctx := context.Background()
		lg := logger.LoggerWrapper()
		users := authPostgres.NewRepository(gormDB)
		svc := auth.NewService(users, cfg.Security.BCryptCost, lg)

		creds := auth.RegisterDTO{Username: seedOwnerUsername, Password: seedOwnerPassword}
		if verr := creds.Validate(); verr != nil {
			log.Fatalf("invalid owner credentials: %v", verr.GetDetailedMessage())
		}

		_, err = users.GetByUsername(ctx, seedOwnerUsername)
		switch {
		case err == nil:
			fmt.Println("owner user already exists:", seedOwnerUsername)
		case errors.Is(err, auth.ErrUserNotFound):
			hash, err := svc.HashPassword(seedOwnerPassword)
			if err != nil {
				log.Fatalf("failed to hash password: %v", err)
			}
			if err := users.Create(ctx, &userDatamodel.User{
				Username:     seedOwnerUsername,
				FullName:     "Owner",
				PasswordHash: hash,
				Role:         auth.RoleOwner.String(),
				Photo:        auth.DefaultPhoto,
			}); err != nil {
				log.Fatalf("failed to insert owner user: %v", err)
			}
			fmt.Println("Seeded owner user:", seedOwnerUsername)
		default:
			log.Fatalf("failed to look up owner user: %v", err)
		}

		settings := settingPostgres.NewSettingRepository(gormDB)
		if _, err := settings.Get(ctx, setting.KeyCompanyName); errors.Is(err, setting.ErrSettingNotFound) {
			if err := settings.Upsert(ctx, setting.KeyCompanyName, seedCompanyName); err != nil {
				log.Fatalf("failed to seed company name: %v", err)
			}
			fmt.Println("Seeded company name:", seedCompanyName)
		} else if err != nil {
			log.Fatalf("failed to read company name: %v", err)
		}
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedOwnerUsername, "owner-username", "owner", "username of the initial Owner account")
	seedCmd.Flags().StringVar(&seedOwnerPassword, "owner-password", "password", "password of the initial Owner account")
	seedCmd.Flags().StringVar(&seedCompanyName, "company-name", setting.DefaultCompanyName, "initial company name")
}
