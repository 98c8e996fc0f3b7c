package main

import (
	"context"
	"fmt"
	"os"

	"fieldops/internal/db"
	"fieldops/internal/storage/postgres"

	"github.com/joho/godotenv"
)

// Applies the document store schema to DATABASE_URL. Safe to rerun.
func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		fmt.Printf("Failed to connect to DB: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Migration successful.")
}
