// Package migrations embeds the versioned SQL schema and runs it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pressly/goose/v3"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

//go:embed *.sql
var files embed.FS

// Run executes a goose command (up, down, status, version, ...) against db
// using the embedded migrations. goose output goes to stdout.
func Run(ctx context.Context, db *sql.DB, dialect string, command string, args ...string) error {
	return run(ctx, db, dialect, true, command, args...)
}

// Up silently applies every pending migration.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	return run(ctx, db, dialect, false, "up")
}

func run(ctx context.Context, db *sql.DB, dialect string, verbose bool, command string, args ...string) error {
	if db == nil {
		return errors.New("db is required")
	}
	if err := setup(dialect, verbose); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, ".", args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Version returns the current schema version.
func Version(db *sql.DB, dialect string) (int64, error) {
	if err := setup(dialect, false); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(db)
}

// MigrateTo moves the schema up or down to the target version.
func MigrateTo(ctx context.Context, db *sql.DB, dialect string, targetVersion string) error {
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", targetVersion, err)
	}

	current, err := Version(db, dialect)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		return goose.UpToContext(ctx, db, ".", target)
	default:
		return goose.DownToContext(ctx, db, ".", target)
	}
}

func setup(dialect string, verbose bool) error {
	goose.SetBaseFS(files)
	if verbose {
		goose.SetLogger(log.New(os.Stdout, "", log.LstdFlags))
	} else {
		goose.SetLogger(goose.NopLogger())
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}
