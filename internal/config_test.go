package internal_test

import (
	"os"
	"time"

	"github.com/frahmantamala/ticketing/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() *internal.Config {
	cfg := &internal.Config{
		Database: internal.DatabaseConfig{
			Driver: internal.DriverSQLite,
			Source: "ticketing.db",
		},
		Security: internal.SecurityConfig{
			SessionSecret: "0123456789abcdef0123456789abcdef",
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

var _ = Describe("Config", func() {
	Describe("ApplyDefaults", func() {
		It("fills the deployment defaults", func() {
			cfg := validConfig()
			Expect(cfg.Server.Port).To(Equal(3002))
			Expect(cfg.Security.CookieName).To(Equal("session_cookie_name"))
			Expect(cfg.Security.SessionTTL).To(Equal(24 * time.Hour))
			Expect(cfg.RateLimit.LoginAttempts).To(Equal(5))
			Expect(cfg.RateLimit.LoginWindow).To(Equal(15 * time.Minute))
			Expect(cfg.RateLimit.GlobalRequests).To(Equal(100))
			Expect(cfg.Storage.Backend).To(Equal(internal.StorageLocal))
			Expect(cfg.Messaging.Exchange).To(Equal("ticketing.events"))
		})

		It("keeps explicit values", func() {
			cfg := &internal.Config{Server: internal.ServerConfig{Port: 8080}}
			cfg.ApplyDefaults()
			Expect(cfg.Server.Port).To(Equal(8080))
		})
	})

	Describe("Validate", func() {
		It("accepts a complete config", func() {
			Expect(validConfig().Validate()).To(Succeed())
		})

		It("rejects a short session secret", func() {
			cfg := validConfig()
			cfg.Security.SessionSecret = "short"
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("session secret must be at least 32 characters")))
		})

		It("rejects an unknown driver", func() {
			cfg := validConfig()
			cfg.Database.Driver = "oracle"
			Expect(cfg.Validate()).To(MatchError(ContainSubstring(`unsupported driver "oracle"`)))
		})

		It("requires minio settings for the minio backend", func() {
			cfg := validConfig()
			cfg.Storage.Backend = internal.StorageMinio
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("minio endpoint and bucket are required")))
		})

		It("requires a url when messaging is enabled", func() {
			cfg := validConfig()
			cfg.Messaging.Enabled = true
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("url is required when messaging is enabled")))
		})

		It("joins every failing section", func() {
			cfg := validConfig()
			cfg.Security.SessionSecret = ""
			cfg.Observability.Logging.Level = "verbose"
			err := cfg.Validate()
			Expect(err).To(MatchError(ContainSubstring("security config")))
			Expect(err).To(MatchError(ContainSubstring("logging config")))
		})
	})

	Describe("LoadConfigFromEnv", func() {
		AfterEach(func() {
			os.Unsetenv("PORT")
			os.Unsetenv("DB_DRIVER")
			os.Unsetenv("AMQP_ENABLED")
		})

		It("reads overrides from the environment", func() {
			os.Setenv("PORT", "9000")
			os.Setenv("DB_DRIVER", "mysql")
			os.Setenv("AMQP_ENABLED", "true")

			cfg := internal.LoadConfigFromEnv()
			Expect(cfg.Server.Port).To(Equal(9000))
			Expect(cfg.Database.Driver).To(Equal(internal.DriverMySQL))
			Expect(cfg.Messaging.Enabled).To(BeTrue())
		})

		It("falls back to defaults for malformed values", func() {
			os.Setenv("PORT", "not-a-number")
			Expect(internal.LoadConfigFromEnv().Server.Port).To(Equal(3002))
		})
	})
})
