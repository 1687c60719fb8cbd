// Package test provides testing stores backed by real drivers.
package test

import (
	"context"
	"os"
	"testing"

	"github.com/hrygo/rehearse/internal/profile"
	"github.com/hrygo/rehearse/store"
	"github.com/hrygo/rehearse/store/db"
)

// getDriverFromEnv returns the driver under test. Defaults to sqlite.
func getDriverFromEnv() string {
	if driver := os.Getenv("REHEARSE_TEST_DRIVER"); driver != "" {
		return driver
	}
	return "sqlite"
}

// getTestingProfile builds a profile for the selected driver.
// PostgreSQL tests need REHEARSE_TEST_POSTGRES_DSN and are skipped otherwise.
func getTestingProfile(t *testing.T) *profile.Profile {
	t.Helper()

	p := &profile.Profile{
		Mode:      "dev",
		Data:      t.TempDir(),
		Driver:    getDriverFromEnv(),
		PatientID: "test-patient",
	}
	switch p.Driver {
	case "sqlite":
		p.DSN = ":memory:"
	case "postgres":
		dsn := os.Getenv("REHEARSE_TEST_POSTGRES_DSN")
		if dsn == "" {
			t.Skip("REHEARSE_TEST_POSTGRES_DSN not set")
		}
		p.DSN = dsn
	default:
		t.Fatalf("unsupported test driver: %s", p.Driver)
	}
	return p
}

// NewTestingStore opens a migrated store and closes it when the test ends.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	p := getTestingProfile(t)
	driver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	ts := store.New(driver, p)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Logf("failed to close store: %v", err)
		}
	})
	return ts
}
