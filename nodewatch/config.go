package nodewatch

import (
	"os"
	"time"

	"github.com/go-kit/log"

	"github.com/maxpoletaev/hax/fid"
)

type Config struct {
	// NodeName must be unique within the gossip cluster.
	NodeName string

	// NodeFid is the NODE object advertised by this member.
	NodeFid fid.Fid

	BindAddr string
	BindPort int

	// Seeds are gossip addresses of the members to join on start.
	Seeds []string

	// QueueSize bounds the number of membership changes waiting to be
	// published. Changes arriving to a full queue are dropped.
	QueueSize int

	// LeaveTimeout bounds the graceful leave on stop.
	LeaveTimeout time.Duration

	Logger log.Logger
}

func DefaultConfig() *Config {
	hostname, _ := os.Hostname()

	return &Config{
		NodeName:     hostname,
		BindAddr:     "0.0.0.0",
		BindPort:     7946,
		QueueSize:    256,
		LeaveTimeout: 5 * time.Second,
		Logger:       log.NewNopLogger(),
	}
}
