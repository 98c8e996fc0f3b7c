package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"fieldops/internal/storage/postgres"
	"fieldops/internal/storage/storagetest"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../../.env")

	// Use a dedicated TEST database; the tables are truncated.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if _, err := pool.Exec(ctx, "TRUNCATE TABLE documents, document_sequences"); err != nil {
		pool.Close()
		t.Fatalf("Failed to clean test database: %v", err)
	}
	return pool
}

func TestPostgresStore(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	storagetest.Run(t, postgres.New(pool))
}

func TestMigrate_Idempotent(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	if err := postgres.Migrate(context.Background(), pool); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
}
