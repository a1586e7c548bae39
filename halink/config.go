package halink

import (
	"time"

	"github.com/go-kit/log"

	"github.com/maxpoletaev/hax/metrics"
)

type Config struct {
	// Transport delivers notes to the remote peers. Required.
	Transport Transport

	// DeliveryTimeout bounds BroadcastAndWait. Zero means the caller's context
	// is the only limit.
	DeliveryTimeout time.Duration

	// Logger is go-kit logger used to record lost messages and delivery
	// progress. If not provided, the notifier is silent.
	Logger log.Logger

	// Metrics is optional.
	Metrics *metrics.Metrics
}

// DefaultConfig creates a Config with reasonable default values. The transport
// still has to be set.
func DefaultConfig() *Config {
	return &Config{
		DeliveryTimeout: 10 * time.Second,
		Logger:          log.NewNopLogger(),
	}
}
