package monitor

import (
	"context"

	"github.com/go-kit/log"

	"github.com/maxpoletaev/hax/health"
	"github.com/maxpoletaev/hax/metrics"
)

// Broadcaster publishes states to the storage engine and waits until they are
// acknowledged. *halink.Notifier implements it.
type Broadcaster interface {
	BroadcastAndWait(ctx context.Context, states []health.HAState) error
}

type Config struct {
	// Broadcaster delivers published states. Required.
	Broadcaster Broadcaster

	// Shards is the number of registry shards.
	Shards int

	Logger  log.Logger
	Metrics *metrics.Metrics
}

func DefaultConfig() *Config {
	return &Config{
		Shards: 16,
		Logger: log.NewNopLogger(),
	}
}
