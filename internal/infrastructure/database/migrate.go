package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

const MigrationTableName = "schema_migrations"

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// goose keeps its configuration in package globals
var gooseMu sync.Mutex

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Info().Msgf("[MIGRATE] "+format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Fatal().Msgf("[MIGRATE] "+format, v...)
}

// MigrationCommand is one of up, down, reset, status, version.
type MigrationCommand string

const (
	MigrateUp      MigrationCommand = "up"
	MigrateDown    MigrationCommand = "down"
	MigrateReset   MigrationCommand = "reset"
	MigrateStatus  MigrationCommand = "status"
	MigrateVersion MigrationCommand = "version"
)

func migrationDir(dialect string) (fs.FS, string, error) {
	switch dialect {
	case "postgres":
		sub, err := fs.Sub(migrationsFS, "migrations/postgres")
		return sub, "postgres", err
	case "sqlite3":
		sub, err := fs.Sub(migrationsFS, "migrations/sqlite")
		return sub, "sqlite3", err
	default:
		return nil, "", fmt.Errorf("no migrations for dialect %q", dialect)
	}
}

// Migrate runs cmd with the embedded migrations matching conn's dialect.
func Migrate(ctx context.Context, conn Connection, cmd MigrationCommand) error {
	fsys, dialect, err := migrationDir(conn.Dialect())
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(gooseLogger{})
	goose.SetBaseFS(fsys)
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	db := conn.SQL()
	switch cmd {
	case MigrateUp:
		err = goose.UpContext(ctx, db, ".")
	case MigrateDown:
		err = goose.DownContext(ctx, db, ".")
	case MigrateReset:
		err = goose.ResetContext(ctx, db, ".")
	case MigrateStatus:
		err = goose.StatusContext(ctx, db, ".")
	case MigrateVersion:
		err = goose.VersionContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migration command %q", cmd)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", cmd, err)
	}
	return nil
}
