package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/log/level"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"
)

func main() {
	p := flags.NewParser(&opts, flags.Default)
	p.EnvNamespace = "HAX"

	if _, err := p.Parse(); err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			fmt.Println("cli error:", err)
		}

		os.Exit(2)
	}

	conf, err := loadConfig()
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	appctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errg, ctx := errgroup.WithContext(appctx)

	// Initialize all components.
	logger, closeLogger := setupLogger()
	m, reg := setupMetrics()
	transport, closeTransport := setupTransport(conf, logger)
	mon := setupMonitor(conf, transport, m, logger)
	_, closeGRPCServer := setupGRPCServer(errg, conf, mon, logger)

	// Components must be shut down in a particular order.
	shutdownOrder := []shutdownFunc{
		closeGRPCServer,
		closeTransport,
		closeLogger,
	}

	if conf.Gossip.Enabled {
		closeNodeWatch := setupNodeWatch(ctx, errg, conf, mon, logger)
		shutdownOrder = append([]shutdownFunc{closeNodeWatch}, shutdownOrder...)
	}

	if conf.API.Enabled {
		closeAPIServer := setupAPIServer(errg, conf, mon, reg, logger)
		shutdownOrder = append([]shutdownFunc{closeAPIServer}, shutdownOrder...)
	}

	// Block until we receive a signal to shut down or a component fails.
	<-ctx.Done()
	level.Info(logger).Log("msg", "shutting down")

	for _, f := range shutdownOrder {
		if err := f(context.Background()); err != nil {
			level.Error(logger).Log("msg", "failed to shutdown component", "err", err)
		}
	}

	// Wait for all components to finish background tasks.
	if err := errg.Wait(); err != nil {
		level.Error(logger).Log("msg", "component failed", "err", err)
		os.Exit(1)
	}
}
