package cmd

import (
	"time"

	"github.com/frahmantamala/ticketing/internal"
)

func testDatabaseConfig() internal.DatabaseConfig {
	return internal.DatabaseConfig{
		Driver:          internal.DriverSQLite,
		Source:          ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}
}
