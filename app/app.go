package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"freelance-job-board/internal/config"
	"freelance-job-board/internal/controller"
	"freelance-job-board/internal/migrator"
	"freelance-job-board/internal/notify"
	"freelance-job-board/internal/repo"
	"freelance-job-board/internal/repo/memdb"
	"freelance-job-board/internal/repo/pgdb"
	"freelance-job-board/internal/service"
	"freelance-job-board/pkg/http_server"
	"freelance-job-board/pkg/postgres"

	"github.com/labstack/echo"
)

func NewLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}

	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

// OpenPostgres connects to the configured database and checks that it answers.
func OpenPostgres(cfg *config.Config) (*postgres.Postgres, error) {
	pg, err := postgres.NewDB(cfg.PostgresConn, postgres.Options{
		MaxOpenConns: cfg.PostgresMaxConns,
		MaxIdleConns: cfg.PostgresMaxConns,
	})
	if err != nil {
		return nil, err
	}
	if err := pg.Database.Ping(); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pg, nil
}

// Migrate applies (up) or reverts (down) every migration.
func Migrate(cfg *config.Config, logger *slog.Logger, up bool) error {
	pg, err := OpenPostgres(cfg)
	if err != nil {
		return err
	}
	defer pg.Close()

	m, err := migrator.New(pg.Database, cfg.MigrationURL, cfg.PostgresDB, logger)
	if err != nil {
		return err
	}
	if up {
		return m.Up()
	}

	return m.Down()
}

func openStorage(cfg *config.Config, logger *slog.Logger) (*repo.Repositories, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return memdb.NewRepositories(memdb.New()), func() {}, nil
	}

	logger.Info("connecting database")
	pg, err := OpenPostgres(cfg)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("running migrations")
	m, err := migrator.New(pg.Database, cfg.MigrationURL, cfg.PostgresDB, logger)
	if err != nil {
		_ = pg.Close()
		return nil, nil, err
	}
	if err := m.Up(); err != nil {
		_ = pg.Close()
		return nil, nil, err
	}

	closeFn := func() {
		if err := pg.Close(); err != nil {
			logger.Error("closing database", "error", err)
		}
	}

	return pgdb.NewRepositories(pg), closeFn, nil
}

func Run(cfg *config.Config, logger *slog.Logger) error {
	repositories, closeStorage, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	sink := notify.MultiSink{notify.NewStoreSink(repositories.Notification), notify.NewLogSink(logger)}
	dispatcher := notify.NewDispatcher(sink, logger, cfg.NotifyBuffer)

	services := service.NewServices(repositories, service.Dependencies{
		Publisher:        dispatcher,
		Logger:           logger,
		ChangeRequestTTL: cfg.ChangeRequestTTL,
	})
	handler := echo.New()

	logger.Info("setup routes")
	controller.SetupRoutesHandlers(handler, services, logger)

	httpServer := http_server.New(handler, cfg.ServerAddress, cfg.ShutdownTimeout)
	logger.Info("ready to process requests", "address", cfg.ServerAddress, "storage", cfg.Storage)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case s := <-interrupt:
		logger.Info("got signal", "signal", s.String())
	case serveErr = <-httpServer.Notify():
		logger.Error("server stopped", "error", serveErr)
	}

	logger.Info("shutting down")
	if err := httpServer.Shutdown(); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := dispatcher.Close(ctx); err != nil {
		logger.Warn("pending notifications were not delivered", "error", err)
	}

	return serveErr
}
