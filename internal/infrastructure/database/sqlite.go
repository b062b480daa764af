package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteDB is the embedded database used for local runs and tests.
type SQLiteDB struct {
	Path string

	sqlDB  *sql.DB
	goquDB *goqu.Database
}

// OpenSQLite opens path with foreign keys enforced. An empty path or
// ":memory:" opens a private in-memory database on a single connection.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	inMemory := path == "" || path == ":memory:"

	dsn := "file:" + path
	if inMemory {
		dsn = "file::memory:"
	}
	params := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_time_format=sqlite",
	}
	if !inMemory {
		params = append(params, "_pragma=journal_mode(WAL)")
	}
	dsn += "?" + strings.Join(params, "&")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if inMemory {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	log.Info().Str("path", path).Msg("[DATABASE] SQLite database opened")
	return &SQLiteDB{
		Path:   path,
		sqlDB:  db,
		goquDB: goqu.New("sqlite3", db),
	}, nil
}

func (db *SQLiteDB) Dialect() string      { return "sqlite3" }
func (db *SQLiteDB) SQL() *sql.DB         { return db.sqlDB }
func (db *SQLiteDB) Goqu() *goqu.Database { return db.goquDB }

func (db *SQLiteDB) Ping(ctx context.Context) error {
	if err := db.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (db *SQLiteDB) Close() error {
	return db.sqlDB.Close()
}
