// Command seed fills the database with demo data and provisions admins.
package main

import (
	"context"
	"flag"
	"log"

	"clubhouse/internal/config"
	"clubhouse/internal/database"
	"clubhouse/internal/repository"
	"clubhouse/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numMessages := flag.Int("messages", 100, "Number of messages to create")
	memberRatio := flag.Float64("member-ratio", 0.5, "Share of users who are club members")
	shouldClean := flag.Bool("clean", false, "Delete all users and messages before seeding")
	adminUsername := flag.String("admin-username", "", "Create or promote this account to admin")
	adminPassword := flag.String("admin-password", "", "Password for a newly created admin")
	adminOnly := flag.Bool("admin-only", false, "Only provision the admin; skip demo data")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() && !*adminOnly {
		log.Fatal("Refusing to seed demo data in production; use -admin-only")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	ctx := context.Background()

	if !*adminOnly {
		s := seed.NewSeeder(db, seed.Options{
			Users:       *numUsers,
			Messages:    *numMessages,
			MemberRatio: *memberRatio,
			BcryptCost:  cfg.BcryptCost,
		})
		if *shouldClean {
			if err := s.ClearAll(ctx); err != nil {
				log.Fatalf("Cleanup failed: %v", err)
			}
		}
		users, messages, err := s.Run(ctx)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Printf("Seeded %d users and %d messages; every demo user has the password %q",
			len(users), len(messages), seed.DefaultPassword)
	}

	if *adminUsername != "" {
		admin, err := seed.EnsureAdmin(ctx, repository.NewUserRepository(db), *adminUsername, *adminPassword, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("Admin provisioning failed: %v", err)
		}
		log.Printf("User %s (ID: %d) is an admin", admin.Username, admin.ID)
	}
}
