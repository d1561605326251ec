package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sweetdelivery/migrations"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrUnknownDriver is returned by Open for a driver other than postgres or sqlite.
var ErrUnknownDriver = errors.New("unknown database driver")

// Options selects and tunes the store connection.
type Options struct {
	Driver string
	// DSN is the PostgreSQL connection string or the SQLite file path.
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects GORM to PostgreSQL or SQLite.
//
// Driver errors are translated so that unique violations surface as
// gorm.ErrDuplicatedKey on both databases. SQLite is limited to one
// connection with foreign keys enforced.
func Open(opts Options) (*gorm.DB, error) {
	config := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)
	switch opts.Driver {
	case DriverPostgres:
		db, err = gorm.Open(gormpostgres.New(gormpostgres.Config{
			DSN:                  opts.DSN,
			PreferSimpleProtocol: true,
		}), config)
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(sqliteDSN(opts.DSN)), config)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	return db, nil
}

// MigrationDialect maps a driver name to the goose dialect.
func MigrationDialect(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return migrations.DialectPostgres, nil
	case DriverSQLite:
		return migrations.DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}
