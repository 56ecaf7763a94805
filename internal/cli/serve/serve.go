package serve

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GustavoCaso/expenseview/internal/cli"
	"github.com/GustavoCaso/expenseview/internal/config"
	"github.com/GustavoCaso/expenseview/internal/logger"
	"github.com/GustavoCaso/expenseview/internal/router"
	"github.com/GustavoCaso/expenseview/internal/storage/sqlite"
)

const (
	defaultTimeout  = 3
	shutdownTimeout = 10 * time.Second
)

type serveCommand struct {
	port    string
	timeout int
}

func NewCommand() cli.Command {
	return &serveCommand{}
}

func (c *serveCommand) Description() string {
	return "Serve the expenses REST API backed by SQLite"
}

func (c *serveCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.port, "p", "", "port, defaults to the configured server port")
	fs.IntVar(&c.timeout, "t", defaultTimeout, "read header timeout in seconds")
}

func (c *serveCommand) Run(conf *config.Config, logger *logger.Logger) error {
	port := c.port
	if port == "" {
		port = conf.Server.Port
	}

	logger.Info("Using database", "path", conf.DB.Source)

	storage, err := sqlite.New(conf.DB)
	if err != nil {
		return fmt.Errorf("unable to open database: %w", err)
	}
	defer storage.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = storage.ApplyMigrations(ctx, logger); err != nil {
		return fmt.Errorf("unable to create schema: %w", err)
	}

	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("unable to listen on port %s: %w", port, err)
	}

	return serve(ctx, listener, router.New(storage, logger), logger, time.Duration(c.timeout)*time.Second)
}

// serve blocks until ctx is done, then shuts the server down gracefully.
func serve(ctx context.Context, listener net.Listener, handler http.Handler, logger *logger.Logger, timeout time.Duration) error {
	server := &http.Server{
		ReadHeaderTimeout: timeout,
		Handler:           handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	logger.Info("Serving expenses API", "addr", listener.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
