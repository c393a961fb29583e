package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/leadflow/crm-import/internal/infrastructure/db"
)

func openIntegrationDB(t *testing.T) (*gorm.DB, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	if err := db.Migrate(context.Background(), gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	cleanupSQL := `
    TRUNCATE TABLE opportunities, companies, audit_logs RESTART IDENTITY CASCADE;
    DELETE FROM profiles WHERE email LIKE '%@roster.test';
    `
	if err := gdb.Exec(cleanupSQL).Error; err != nil {
		t.Fatalf("failed to cleanup tables: %v", err)
	}

	return gdb, pool
}
