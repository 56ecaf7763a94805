package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GustavoCaso/expenseview/internal/config"
	"github.com/GustavoCaso/expenseview/internal/logger"
	"github.com/GustavoCaso/expenseview/internal/storage"
	"github.com/GustavoCaso/expenseview/internal/storage/sqlite"
)

// SetupTestStorage returns a migrated storage private to the running test.
func SetupTestStorage(t *testing.T, logger *logger.Logger) storage.Storage {
	t.Helper()

	sqlFile := filepath.Join(t.TempDir(), fmt.Sprintf(":memory:%s", strings.ReplaceAll(t.Name(), "/", ":")))
	stor, err := sqlite.New(config.DBConfig{Source: sqlFile})
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}

	if err = stor.ApplyMigrations(context.Background(), logger); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	t.Cleanup(func() {
		if err = stor.Close(); err != nil {
			t.Errorf("Failed to close test storage: %v", err)
		}
	})

	return stor
}
