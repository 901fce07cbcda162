// Command migrate applies, inspects or rolls back the PostgreSQL schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"clubhouse/internal/config"
	"clubhouse/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status|down>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if strings.ToLower(cfg.DBDriver) != "postgres" {
		return fmt.Errorf("migrations target PostgreSQL; DB_DRIVER is %q", cfg.DBDriver)
	}

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, database.PostgresDSN(cfg))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return err
		}
		log.Println("sql migrations applied")
	case "status":
		if err := database.MigrationStatus(ctx, db); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	case "down":
		if err := database.MigrateDown(ctx, db); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Println("rolled back latest migration")
	default:
		return usage()
	}
	return nil
}
