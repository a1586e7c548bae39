package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const shutdownTimeout = 5 * time.Second

// StartServer serves h on bindAddr until ctx is done.
func StartServer(ctx context.Context, h http.Handler, logger kitlog.Logger, bindAddr string) error {
	server := &http.Server{
		Addr:              bindAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			level.Error(logger).Log("msg", "failed to shutdown server", "err", err)
		}
	}()

	level.Info(logger).Log("msg", "api server is listening", "addr", bindAddr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
