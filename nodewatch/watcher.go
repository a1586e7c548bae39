// Package nodewatch derives the health of cluster nodes from gossip membership.
// Every member advertises its NODE fid as node metadata; a member that joins
// is reported online and a member that leaves or fails is reported offline.
package nodewatch

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hashicorp/memberlist"

	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/health"
)

// Monitor publishes node health.
type Monitor interface {
	SetHealth(ctx context.Context, states ...health.HAState) error
}

var (
	_ memberlist.Delegate      = (*Watcher)(nil)
	_ memberlist.EventDelegate = (*Watcher)(nil)
)

type Watcher struct {
	self    fid.Fid
	monitor Monitor
	queue   chan health.HAState
	logger  log.Logger
}

func NewWatcher(m Monitor, conf *Config) *Watcher {
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Watcher{
		self:    conf.NodeFid,
		monitor: m,
		queue:   make(chan health.HAState, conf.QueueSize),
		logger:  logger,
	}
}

// NodeMeta advertises the local node fid.
func (w *Watcher) NodeMeta(limit int) []byte {
	meta := []byte(w.self.String())
	if len(meta) > limit {
		level.Error(w.logger).Log("msg", "node fid does not fit into node meta", "limit", limit)
		return nil
	}

	return meta
}

func (w *Watcher) NotifyMsg([]byte) {}

func (w *Watcher) GetBroadcasts(overhead, limit int) [][]byte {
	return nil
}

func (w *Watcher) LocalState(join bool) []byte {
	return nil
}

func (w *Watcher) MergeRemoteState(buf []byte, join bool) {}

func (w *Watcher) NotifyJoin(node *memberlist.Node) {
	w.enqueue(node, health.OK)
}

func (w *Watcher) NotifyLeave(node *memberlist.Node) {
	w.enqueue(node, health.Offline)
}

// NotifyUpdate is invoked when the member metadata changes, which means it is
// alive and possibly advertises a different fid.
func (w *Watcher) NotifyUpdate(node *memberlist.Node) {
	w.enqueue(node, health.OK)
}

// enqueue never blocks: memberlist invokes the callbacks under its own locks.
func (w *Watcher) enqueue(node *memberlist.Node, status health.Status) {
	id, err := fid.Parse(string(node.Meta))
	if err != nil {
		level.Warn(w.logger).Log("msg", "member without node fid ignored", "node", node.Name, "err", err)
		return
	}

	if typ, ok := id.Type(); !ok || typ != fid.ObjNode {
		level.Warn(w.logger).Log("msg", "member advertises a non-node fid", "node", node.Name, "fid", id)
		return
	}

	state := health.HAState{Fid: id, Status: status}

	select {
	case w.queue <- state:
		level.Debug(w.logger).Log("msg", "membership change queued", "node", node.Name, "state", state)
	default:
		level.Warn(w.logger).Log("msg", "membership queue is full, change dropped", "node", node.Name, "state", state)
	}
}

// Run publishes queued membership changes until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case state := <-w.queue:
			if err := w.monitor.SetHealth(ctx, state); err != nil {
				level.Warn(w.logger).Log("msg", "failed to publish node health", "state", state, "err", err)
			}
		}
	}
}
