package main

import (
	"context"
	"fmt"
	"net"
	"os"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/maxpoletaev/hax/api"
	"github.com/maxpoletaev/hax/config"
	"github.com/maxpoletaev/hax/halink"
	halinkgrpc "github.com/maxpoletaev/hax/halink/grpc"
	"github.com/maxpoletaev/hax/metrics"
	"github.com/maxpoletaev/hax/monitor"
	monitorsvc "github.com/maxpoletaev/hax/monitor/service"
	"github.com/maxpoletaev/hax/nodewatch"
	"github.com/maxpoletaev/hax/wire"
)

type shutdownFunc func(ctx context.Context) error

var noopShutdown = func(ctx context.Context) error { return nil }

func setupLogger() (kitlog.Logger, shutdownFunc) {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	if !opts.Verbose {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	return logger, noopShutdown
}

func setupMetrics() (*metrics.Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return metrics.New(reg), reg
}

func setupTransport(conf *config.Config, logger kitlog.Logger) (*halinkgrpc.Transport, shutdownFunc) {
	transportOpts := halinkgrpc.DefaultOptions()
	transportOpts.SendTimeout = conf.Link.SendTimeout
	transportOpts.Logger = kitlog.With(logger, "component", "halink")

	transport, err := halinkgrpc.Dial(conf.Link.Peers, transportOpts)
	if err != nil {
		panic(fmt.Sprintf("failed to open HA links: %v", err))
	}

	if len(conf.Link.Peers) == 0 {
		level.Warn(logger).Log("msg", "no HA link peers configured, states are only kept locally")
	}

	shutdown := func(ctx context.Context) error {
		logger.Log("msg", "closing HA links")
		return transport.Close()
	}

	return transport, shutdown
}

func setupMonitor(conf *config.Config, transport halink.Transport, m *metrics.Metrics, logger kitlog.Logger) *monitor.Monitor {
	linkConf := halink.DefaultConfig()
	linkConf.Transport = transport
	linkConf.DeliveryTimeout = conf.Link.DeliveryTimeout
	linkConf.Logger = kitlog.With(logger, "component", "halink")
	linkConf.Metrics = m

	monConf := monitor.DefaultConfig()
	monConf.Broadcaster = halink.New(linkConf)
	monConf.Shards = conf.Monitor.Shards
	monConf.Logger = kitlog.With(logger, "component", "monitor")
	monConf.Metrics = m

	return monitor.New(monConf)
}

func setupGRPCServer(errg *errgroup.Group, conf *config.Config, mon *monitor.Monitor, logger kitlog.Logger) (*grpc.Server, shutdownFunc) {
	grpcServer := grpc.NewServer()

	monitorService := monitorsvc.NewHAMonitorService(mon, logger)
	wire.RegisterMonitorServer(grpcServer, monitorService)

	// Other monitors may publish to this one over their HA link.
	linkServer := halinkgrpc.NewServer(mon, logger)
	wire.RegisterLinkServer(grpcServer, linkServer)

	listener, err := net.Listen("tcp", conf.GRPC.BindAddr)
	if err != nil {
		panic(fmt.Sprintf("failed to create GRPC listener: %v", err))
	}

	errg.Go(func() error {
		level.Info(logger).Log("msg", "grpc server is listening", "addr", conf.GRPC.BindAddr)

		if err := grpcServer.Serve(listener); err != nil {
			return fmt.Errorf("grpc server failed: %w", err)
		}

		return nil
	})

	shutdown := func(ctx context.Context) error {
		logger.Log("msg", "shutting down GRPC server")
		grpcServer.GracefulStop()
		return nil
	}

	return grpcServer, shutdown
}

func setupAPIServer(
	errg *errgroup.Group,
	conf *config.Config,
	mon *monitor.Monitor,
	reg *prometheus.Registry,
	logger kitlog.Logger,
) shutdownFunc {
	ctx, cancel := context.WithCancel(context.Background())
	router := api.CreateRouter(mon, reg)

	errg.Go(func() error {
		return api.StartServer(ctx, router, logger, conf.API.BindAddr)
	})

	return func(context.Context) error {
		logger.Log("msg", "shutting down API server")
		cancel()

		return nil
	}
}

func setupNodeWatch(
	ctx context.Context,
	errg *errgroup.Group,
	conf *config.Config,
	mon *monitor.Monitor,
	logger kitlog.Logger,
) shutdownFunc {
	watchConf := nodewatch.DefaultConfig()
	watchConf.NodeName = conf.Gossip.NodeName
	watchConf.NodeFid = conf.Gossip.NodeFid
	watchConf.BindAddr = conf.Gossip.BindAddr
	watchConf.BindPort = conf.Gossip.BindPort
	watchConf.Seeds = conf.Gossip.Seeds
	watchConf.QueueSize = conf.Gossip.QueueSize
	watchConf.LeaveTimeout = conf.Gossip.LeaveTimeout
	watchConf.Logger = kitlog.With(logger, "component", "nodewatch")

	watcher := nodewatch.NewWatcher(mon, watchConf)

	errg.Go(func() error {
		return watcher.Run(ctx)
	})

	members, err := nodewatch.Start(watcher, watchConf)
	if err != nil {
		panic(fmt.Sprintf("failed to start gossip: %v", err))
	}

	level.Info(logger).Log("msg", "gossip started", "addr", members.Addr(), "members", members.Len())

	return func(context.Context) error {
		logger.Log("msg", "leaving gossip cluster")

		if err := members.Stop(); err != nil {
			return fmt.Errorf("failed to leave gossip cluster: %w", err)
		}

		return nil
	}
}
