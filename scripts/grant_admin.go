package main

// Maintenance utility: grants admin rights to an account by email.
// Run separately: go run scripts/grant_admin.go user@example.com

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"hockey-pool-go/database"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if len(os.Args) != 2 {
		log.Fatal("Usage: go run scripts/grant_admin.go <email>")
	}
	email := os.Args[1]

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	db, err := database.NewMongoConnection(database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "27017"),
		Username: getEnv("DB_USERNAME", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Database: getEnv("DB_NAME", "hockey_pool"),
		Timeout:  10 * time.Second,
	})
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userRepo := database.NewMongoUserRepository(db)
	user, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		log.Fatalf("Lookup failed: %v", err)
	}
	if user == nil {
		log.Fatalf("No account with email %s", email)
	}

	if err := userRepo.SetAdmin(ctx, user.ID, true); err != nil {
		log.Fatalf("Update failed: %v", err)
	}

	log.Printf("Granted admin rights to %s (%s)", user.Name, email)
}
