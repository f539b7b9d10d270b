package cmd

import (
	"testing"

	"github.com/frahmantamala/ticketing/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var _ = Describe("buildTicketEvent", func() {
	It("builds every ticket event type", func() {
		for _, typ := range events.TicketEventTypes {
			e, err := buildTicketEvent(typ)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.EventType()).To(Equal(typ))
		}
	})

	It("rejects unknown types", func() {
		_, err := buildTicketEvent("payment.completed")
		Expect(err).To(MatchError(ContainSubstring("unknown event type")))
	})
})

var _ = Describe("initDB", func() {
	It("opens sqlx and gorm on one sqlite pool", func() {
		db, gormDB, err := initDB(testDatabaseConfig())
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()

		sqlDB, err := gormDB.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB).To(BeIdenticalTo(db.DB))
		Expect(db.DriverName()).To(Equal("sqlite3"))
	})

	It("rejects unknown drivers", func() {
		cfg := testDatabaseConfig()
		cfg.Driver = "oracle"
		_, _, err := initDB(cfg)
		Expect(err).To(MatchError(ContainSubstring("unsupported database driver")))
	})
})
