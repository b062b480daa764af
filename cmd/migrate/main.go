// Command migrate applies the embedded schema migrations to the configured
// database.
//
//	migrate -command up|down|reset|status|version
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"book-catalog-api/internal/config"
	"book-catalog-api/internal/infrastructure/database"
	"book-catalog-api/pkg/logger"
)

func main() {
	command := flag.String("command", string(database.MigrateUp), "Migration command: up, down, reset, status or version")
	timeout := flag.Duration("timeout", 2*time.Minute, "Give up after this long")
	flag.Parse()

	_ = godotenv.Load()

	dbCfg, err := config.LoadDatabaseConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load database config")
	}
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.Open(ctx, dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	err = database.Migrate(ctx, db, database.MigrationCommand(*command))
	_ = db.Close()
	if err != nil {
		logger.Error("Migration failed", err)
		os.Exit(1)
	}

	logger.Info("Migration finished", map[string]interface{}{
		"command": *command,
		"driver":  dbCfg.Driver,
	})
}
