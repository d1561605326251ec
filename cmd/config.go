package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"sweetdelivery/internal/adapters/out/postgres"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every configuration variable, e.g. DISPATCH_HTTP_PORT.
const EnvPrefix = "DISPATCH"

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080" validate:"required,numeric"`

	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres" validate:"oneof=postgres sqlite"`
	DBDSN      string `envconfig:"DB_DSN"`
	DBHost     string `envconfig:"DB_HOST"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME"`
	DBSslMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"dispatch.db"`

	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20" validate:"gte=0"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10" validate:"gte=0"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	MigrateOnStart    bool          `envconfig:"MIGRATE_ON_START" default:"true"`

	LockBackend      string        `envconfig:"LOCK_BACKEND" default:"local" validate:"oneof=local redis"`
	RedisAddr        string        `envconfig:"REDIS_ADDR" default:"localhost:6379" validate:"required_if=LockBackend redis"`
	RedisPassword    string        `envconfig:"REDIS_PASSWORD"`
	RedisDB          int           `envconfig:"REDIS_DB" default:"0" validate:"gte=0"`
	LockKey          string        `envconfig:"LOCK_KEY" default:"dispatch:store-lock"`
	LockTTL          time.Duration `envconfig:"LOCK_TTL" default:"30s" validate:"gt=0"`
	LockPollInterval time.Duration `envconfig:"LOCK_POLL_INTERVAL" default:"50ms" validate:"gt=0"`

	OperationTimeout     time.Duration `envconfig:"OPERATION_TIMEOUT" default:"10s" validate:"gt=0"`
	StrictCompletionTime bool          `envconfig:"STRICT_COMPLETION_TIME" default:"false"`
	StatsSchedule        string        `envconfig:"STATS_SCHEDULE" default:"@every 15s" validate:"required"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json console"`
}

// LoadConfig reads an optional .env file, then the DISPATCH_* environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and that the selected database can be reached
// with the given settings.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DBDriver == postgres.DriverPostgres && c.DBDSN == "" && (c.DBHost == "" || c.DBUser == "" || c.DBName == "") {
		return errors.New("invalid config: DISPATCH_DB_DSN or DISPATCH_DB_HOST, DISPATCH_DB_USER and DISPATCH_DB_NAME are required for postgres")
	}
	return nil
}

// DSN returns the connection string of the selected database.
func (c Config) DSN() string {
	if c.DBDriver == postgres.DriverSQLite {
		if c.DBDSN != "" {
			return c.DBDSN
		}
		return c.SQLitePath
	}
	if c.DBDSN != "" {
		return c.DBDSN
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSslMode}}.Encode(),
	}
	return dsn.String()
}
