package main

import (
	"database/sql"
	"log"
	"os"
	"store-route-assistant/internal/adapters/repositories"
	"store-route-assistant/internal/config"
	"store-route-assistant/internal/platform/db"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	seedPath := config.Get("SEED_PATH", "")
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}
}

// initAndSeed creates the route cache and registry tables. The registry is
// seeded from seedPath when set.
func initAndSeed(db *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(db, repositories.Postgres); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if seedPath == "" {
		log.Println("SEED_PATH not set; skipping registry seed.")
		return nil
	}

	log.Printf("Seeding registry from %s...", seedPath)
	if err := repositories.SeedFromJSON(db, repositories.Postgres, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
