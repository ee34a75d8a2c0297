package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hipaa-audit/internal/config"
	"hipaa-audit/internal/database"
	"hipaa-audit/internal/handlers"
	"hipaa-audit/internal/logger"
	"hipaa-audit/internal/metrics"
	"hipaa-audit/internal/report"
	"hipaa-audit/internal/server"
	"hipaa-audit/internal/store"
	"hipaa-audit/internal/uploads"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Init(cfg.Environment, cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Init(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("close database", zap.Error(err))
		}
	}()

	files, err := uploads.New(cfg.UploadDir)
	if err != nil {
		return err
	}

	st := store.New(db)
	m := metrics.New()
	h := handlers.New(handlers.Deps{
		Store:   st,
		Reports: report.NewService(st),
		Files:   files,
		Metrics: m,
		Log:     log,
	})

	r, err := server.NewRouter(cfg, server.Deps{Handler: h, Users: st, Metrics: m, Log: log})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Environment),
			zap.String("db_driver", cfg.DBDriver),
			zap.String("upload_dir", files.Dir()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
