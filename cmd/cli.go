package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sweetdelivery/internal/adapters/out/postgres"
	"sweetdelivery/internal/pkg/logger"
	"sweetdelivery/migrations"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	serviceName     = "dispatch"
	shutdownTimeout = 10 * time.Second
)

// NewRootCommand builds the dispatch CLI.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Courier dispatch service for sweets delivery",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand())
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status|version|redo|reset|to VERSION]",
		Short: "Manage the database schema",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) > 0 {
				command = args[0]
			}
			return migrate(cmd.Context(), command, args[min(1, len(args)):])
		},
	}
}

func newLogger(cfg Config) *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})
}

func openDatabase(cfg Config) (*gorm.DB, error) {
	return postgres.Open(postgres.Options{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DSN(),
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
}

func serve(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	gormDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.MigrateOnStart {
		dialect, err := postgres.MigrationDialect(cfg.DBDriver)
		if err != nil {
			return err
		}
		if err := migrations.Up(ctx, sqlDB, dialect); err != nil {
			return err
		}
		log.Info(ctx, "database schema is up to date")
	}

	app, err := NewCompositionRoot(cfg, gormDB, log)
	if err != nil {
		return err
	}
	defer app.Close()

	router, err := app.CreateRouter()
	if err != nil {
		return err
	}

	jobManager, err := app.CreateJobManager()
	if err != nil {
		return err
	}
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- router.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort))
	}()
	log.Info(log.WithField(ctx, "port", cfg.HTTPPort), "http server started")

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return router.Shutdown(shutdownCtx)
}

func migrate(ctx context.Context, command string, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	dialect, err := postgres.MigrationDialect(cfg.DBDriver)
	if err != nil {
		return err
	}

	db, err := openSQL(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	switch command {
	case "up", "down", "status", "version", "redo", "reset":
		return migrations.Run(ctx, db, dialect, command)
	case "to":
		if len(args) != 1 {
			return errors.New("migrate to requires a target version")
		}
		return migrations.MigrateTo(ctx, db, dialect, args[0])
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}

// openSQL opens a plain database/sql handle for goose.
func openSQL(cfg Config) (*sql.DB, error) {
	if cfg.DBDriver == postgres.DriverPostgres {
		db, err := sql.Open("postgres", cfg.DSN())
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return db, nil
	}

	gormDB, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	return gormDB.DB()
}
