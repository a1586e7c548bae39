package nodewatch

import (
	"fmt"
	stdlog "log"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hashicorp/memberlist"
)

// Members is a running gossip membership.
type Members struct {
	list         *memberlist.Memberlist
	leaveTimeout time.Duration
	logger       log.Logger
}

// Start creates the local member with w as its delegate and joins the seeds.
// Unreachable seeds are not fatal: they may join later.
func Start(w *Watcher, conf *Config) (*Members, error) {
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	mlConf := memberlist.DefaultLANConfig()
	mlConf.Name = conf.NodeName
	mlConf.BindAddr = conf.BindAddr
	mlConf.BindPort = conf.BindPort
	mlConf.AdvertisePort = conf.BindPort
	mlConf.Delegate = w
	mlConf.Events = w
	mlConf.LogOutput = nil
	mlConf.Logger = stdlog.New(log.NewStdlibAdapter(level.Debug(logger)), "", 0)

	list, err := memberlist.Create(mlConf)
	if err != nil {
		return nil, fmt.Errorf("failed to create memberlist: %w", err)
	}

	if len(conf.Seeds) > 0 {
		n, err := list.Join(conf.Seeds)
		if err != nil {
			level.Warn(logger).Log("msg", "failed to join some seeds", "joined", n, "err", err)
		}
	}

	return &Members{
		list:         list,
		leaveTimeout: conf.LeaveTimeout,
		logger:       logger,
	}, nil
}

// Len returns the number of known alive members, including the local one.
func (m *Members) Len() int {
	return m.list.NumMembers()
}

// Addr returns the gossip address the local member listens on.
func (m *Members) Addr() string {
	node := m.list.LocalNode()
	return fmt.Sprintf("%s:%d", node.Addr, node.Port)
}

// Stop leaves the cluster gracefully and shuts the member down.
func (m *Members) Stop() error {
	if err := m.list.Leave(m.leaveTimeout); err != nil {
		level.Warn(m.logger).Log("msg", "graceful leave failed", "err", err)
	}

	return m.list.Shutdown()
}
