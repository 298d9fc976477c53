package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/replantlab/missiond/internal/database"
)

// setupTestDB starts a disposable Postgres container, applies the embedded
// migrations and returns a connected pool. The container is torn down via
// t.Cleanup. Tests are skipped when Docker is unavailable.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	var pgContainer *postgres.PostgresContainer
	var err error

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("Skipping integration test due to panic (likely Docker issue): %v", r)
			}
		}()
		pgContainer, err = postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(5*time.Second)),
		)
	}()

	if err != nil || pgContainer == nil {
		t.Skipf("Skipping integration test: container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if terr := pgContainer.Terminate(ctx); terr != nil {
			t.Logf("failed to terminate container: %v", terr)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.RunMigrations(connStr); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	pool, err := database.NewPool(connStr, 5, time.Minute, 5*time.Minute)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// seedDefinition inserts a minimal active definition and returns its id
func seedDefinition(t *testing.T, pool *pgxpool.Pool, category, verificationType string, rewardExp int) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO mission_definitions (title, trigger_category, verification_type, reward_exp)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id
	`, "test mission", category, verificationType, rewardExp).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed definition: %v", err)
	}
	return id
}
