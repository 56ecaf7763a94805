package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GustavoCaso/expenseview/internal/config"
	"github.com/GustavoCaso/expenseview/internal/logger"
	"github.com/GustavoCaso/expenseview/internal/storage"
)

func setupTestStorage(t *testing.T) storage.Storage {
	t.Helper()
	// We use a tempDir + the unique test name (t.Name) that way we can warrant that any test has its own DB
	// Using a tempDir ensure it gets clean after each test
	sqlFile := filepath.Join(t.TempDir(), fmt.Sprintf(":memory:%s", strings.ReplaceAll(t.Name(), "/", ":")))
	stor, err := New(config.DBConfig{Source: sqlFile})
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}

	logger := logger.New(logger.Config{Output: "discard"})
	err = stor.ApplyMigrations(context.Background(), logger)
	if err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	t.Cleanup(func() {
		if err = stor.Close(); err != nil {
			t.Errorf("Failed to close test storage: %v", err)
		}
	})

	return stor
}
