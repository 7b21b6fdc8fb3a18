// Package testutil sets up stores for tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/johndosdos/chatrelay/internal/database"
	"github.com/johndosdos/chatrelay/internal/store"
)

func ProjectRoot() string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "../../")
	return root
}

// SQLiteStore returns an empty in-memory store closed at test cleanup.
func SQLiteStore(t testing.TB) *store.GormStore {
	t.Helper()

	st, err := store.OpenSQLite(":memory:", false)
	if err != nil {
		t.Fatalf("store.OpenSQLite() error = %+v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

// PostgresStore connects to TEST_DB_URL with a freshly migrated schema. The
// test is skipped when TEST_DB_URL is not set.
func PostgresStore(t testing.TB) *store.PostgresStore {
	t.Helper()

	_ = godotenv.Load(filepath.Join(ProjectRoot(), ".env"))

	testURL := os.Getenv("TEST_DB_URL")
	if testURL == "" {
		t.Skip("TEST_DB_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, testURL)
	if err != nil {
		t.Fatalf("could not connect to the postgresql database: %v", err)
	}

	if err := database.Reset(pool); err != nil {
		pool.Close()
		t.Fatalf("database.Reset() error = %+v", err)
	}
	if err := database.Up(pool); err != nil {
		pool.Close()
		t.Fatalf("database.Up() error = %+v", err)
	}

	t.Cleanup(func() {
		if err := database.Reset(pool); err != nil {
			t.Logf("database.Reset() error = %+v", err)
		}
		pool.Close()
	})

	return store.NewPostgresStore(pool)
}
