// Command migrate applies, rolls back or lists the database migrations.
//
//	migrate up|down|status
package main

import (
	"fmt"
	"os"

	"pos-inventory/internal/config"
	"pos-inventory/internal/database"
	"pos-inventory/internal/logger"
	"pos-inventory/migrations"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up|down|status")
		os.Exit(2)
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer dbService.Close()

	db := dbService.DB()
	switch command := os.Args[1]; command {
	case "up":
		err = database.RunMigrations(db, migrations.FS, log)
	case "down":
		err = database.RollbackMigration(db, migrations.FS, log)
	case "status":
		err = database.GetMigrationStatus(db, migrations.FS)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", command)
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}
