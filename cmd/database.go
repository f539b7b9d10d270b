package cmd

import (
	"fmt"

	"github.com/frahmantamala/ticketing/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlDriverNames maps the configured driver to its database/sql name.
var sqlDriverNames = map[string]string{
	internal.DriverPostgres: "pgx",
	internal.DriverMySQL:    "mysql",
	internal.DriverSQLite:   "sqlite3",
}

// initDB opens the shared pool. gorm and sqlx both run on the same *sql.DB.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	driver, ok := sqlDriverNames[cfg.Driver]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	if cfg.Driver == internal.DriverSQLite {
		dbConn.SetMaxOpenConns(1)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverPostgres:
		dialector = postgres.New(postgres.Config{Conn: dbConn.DB})
	case internal.DriverMySQL:
		dialector = mysql.New(mysql.Config{Conn: dbConn.DB})
	case internal.DriverSQLite:
		dialector = sqlite.Dialector{DriverName: driver, Conn: dbConn.DB}
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return dbConn, gormDB, nil
}
