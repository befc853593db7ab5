package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/api/handlers"
	"github.com/civicdesk/complaint-dashboard/config"
	"github.com/civicdesk/complaint-dashboard/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	conf, err := config.New()
	if err != nil {
		logging.New().Fatalw("failed to load config", "error", err)
	}

	a := handlers.App{Config: *conf}
	if err := a.Initialize(); err != nil { //initialize backend client, router and session sweeper
		zap.S().Fatalw("failed to initialize", "error", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", conf.Port),
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("complaint-dashboard is up and running",
			"port", conf.Port,
			"url", conf.BaseURL,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		zap.S().Errorw("server failed", "error", err)
	case <-ctx.Done():
		zap.S().Infow("shutting down")
	}

	a.Scheduler.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorw("graceful shutdown failed", "error", err)
	}
	_ = zap.L().Sync()
}
