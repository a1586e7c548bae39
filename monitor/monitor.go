// Package monitor keeps the cluster health picture: it turns process lifecycle
// reports and external health updates into HA states, remembers the latest
// status of every object and publishes changes over the HA link.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/health"
	"github.com/maxpoletaev/hax/internal/lockmap"
	"github.com/maxpoletaev/hax/internal/set"
	"github.com/maxpoletaev/hax/metrics"
	"github.com/maxpoletaev/hax/process"
)

var ErrNullFid = errors.New("null fid")

type Monitor struct {
	registry    *Registry
	broadcaster Broadcaster
	locks       *lockmap.Map[fid.Fid]
	logger      log.Logger
	metrics     *metrics.Metrics
}

func New(conf *Config) *Monitor {
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Monitor{
		registry:    NewRegistry(conf.Shards),
		broadcaster: conf.Broadcaster,
		locks:       lockmap.New[fid.Fid](),
		logger:      logger,
		metrics:     conf.Metrics,
	}
}

// HandleProcessEvent publishes the state implied by the report and returns it.
// Reports of mkfs processes are only logged: mkfs is a one-shot formatting run
// whose exit says nothing about the health of the node.
func (m *Monitor) HandleProcessEvent(ctx context.Context, r process.Report) (health.HAState, error) {
	if r.Fid.IsNull() {
		return health.HAState{}, ErrNullFid
	}

	m.metrics.ProcessEvent(r.Event.String(), r.Type.String())

	state := r.HAState()

	if r.Type == process.TypeM0MKFS {
		level.Debug(m.logger).Log("msg", "mkfs process event is not published", "report", r)
		return state, nil
	}

	level.Info(m.logger).Log("msg", "process event", "fid", r.Fid, "event", r.Event, "type", r.Type, "pid", r.PID)

	if err := m.SetHealth(ctx, state); err != nil {
		return state, err
	}

	return state, nil
}

// SetHealth stores the states and broadcasts them. Updates of the same object
// are published in the order they were made.
func (m *Monitor) SetHealth(ctx context.Context, states ...health.HAState) error {
	if len(states) == 0 {
		return nil
	}

	for _, s := range states {
		if s.Fid.IsNull() {
			return ErrNullFid
		}
	}

	keys := lockKeys(states)

	m.locks.LockAll(keys)
	defer m.locks.UnlockAll(keys)

	m.store(states)

	if err := m.broadcaster.BroadcastAndWait(ctx, states); err != nil {
		return fmt.Errorf("failed to publish %d states: %w", len(states), err)
	}

	return nil
}

// ReceiveNotes records states published by another monitor. They are not
// broadcast again.
func (m *Monitor) ReceiveNotes(ctx context.Context, notes []health.Note) error {
	states := make([]health.HAState, 0, len(notes))

	for _, n := range notes {
		if n.ID.IsNull() {
			level.Warn(m.logger).Log("msg", "note with null fid ignored", "note", n)
			continue
		}

		states = append(states, health.StateFromNote(n))
	}

	m.store(states)

	return nil
}

func (m *Monitor) store(states []health.HAState) {
	for _, s := range states {
		prev, changed := m.registry.Set(s.Fid, s.Status)
		if !changed {
			continue
		}

		m.metrics.HealthUpdated(s.Status.String())
		level.Debug(m.logger).Log("msg", "health changed", "fid", s.Fid, "from", prev, "to", s.Status)
	}
}

// Health returns the latest known status of the object.
func (m *Monitor) Health(id fid.Fid) (health.Status, bool) {
	return m.registry.Get(id)
}

// States returns all known states ordered by fid.
func (m *Monitor) States() []health.HAState {
	return m.registry.All()
}

// lockKeys returns the distinct fids of the states in a stable order.
func lockKeys(states []health.HAState) []fid.Fid {
	seen := make(set.Set[fid.Fid], len(states))
	for _, s := range states {
		seen.Add(s.Fid)
	}

	keys := seen.Values()

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})

	return keys
}
