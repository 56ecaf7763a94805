// Package clitest runs subcommands against a real development backend.
package clitest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expenseview/internal/config"
	"github.com/GustavoCaso/expenseview/internal/logger"
	"github.com/GustavoCaso/expenseview/internal/router"
	"github.com/GustavoCaso/expenseview/internal/storage"
	"github.com/GustavoCaso/expenseview/internal/testutil"
)

type Backend struct {
	Config  *config.Config
	Storage storage.Storage
	Logger  *logger.Logger
}

// NewBackend serves the REST API over a fresh test storage and returns a
// configuration pointing at it.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	log := testutil.TestLogger(t)
	stor := testutil.SetupTestStorage(t, log)

	server := httptest.NewServer(router.New(stor, log))
	t.Cleanup(server.Close)

	return &Backend{
		Config: &config.Config{
			API: config.APIConfig{BaseURL: server.URL + "/api", Timeout: 5 * time.Second},
			UI:  config.UIConfig{RecentLimit: 50, NotificationDelay: time.Minute},
		},
		Storage: stor,
		Logger:  log,
	}
}

// Seed stores an expense and returns its id.
func (b *Backend) Seed(t *testing.T, description, category, amount string, date time.Time) int64 {
	t.Helper()

	e, err := b.Storage.InsertExpense(context.Background(),
		storage.NewExpense(0, description, category, decimal.RequireFromString(amount), date, time.Time{}, time.Time{}))
	if err != nil {
		t.Fatalf("Failed to seed expense: %v", err)
	}

	return e.ID()
}
