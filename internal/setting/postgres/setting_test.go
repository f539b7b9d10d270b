package postgres_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/ticketing/internal/core/datamodel"
	"github.com/frahmantamala/ticketing/internal/setting"
	settingPostgres "github.com/frahmantamala/ticketing/internal/setting/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSettingPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Setting Postgres Suite")
}

var _ = Describe("Setting Repository", func() {
	var (
		ctx  context.Context
		repo *settingPostgres.SettingRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(datamodel.All()...)).To(Succeed())
		repo = settingPostgres.NewSettingRepository(db)
	})

	It("reports unset keys", func() {
		_, err := repo.Get(ctx, setting.KeyCompanyName)
		Expect(err).To(MatchError(setting.ErrSettingNotFound))
	})

	It("inserts then overwrites on the same key", func() {
		Expect(repo.Upsert(ctx, setting.KeyCompanyName, "First")).To(Succeed())
		Expect(repo.Upsert(ctx, setting.KeyCompanyName, "Second")).To(Succeed())

		v, err := repo.Get(ctx, setting.KeyCompanyName)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal("Second"))
	})
})
