// Package halink keeps track of HA notes sent to the storage engine over an
// unreliable link. Each broadcast yields a Promise that is fulfilled once every
// link acknowledges the message it was sent.
package halink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/maxpoletaev/hax/health"
	"github.com/maxpoletaev/hax/internal/multierror"
	"github.com/maxpoletaev/hax/metrics"
)

var (
	ErrNotDelivered   = errors.New("delivery not confirmed")
	ErrUnknownPromise = errors.New("promise is not pending")
)

type pendingPromise struct {
	done    chan struct{}
	started time.Time
}

// Notifier broadcasts HA states over all links of a transport and matches
// incoming acknowledgments against the promises it handed out.
type Notifier struct {
	transport Transport
	timeout   time.Duration
	logger    log.Logger
	metrics   *metrics.Metrics

	mut     sync.Mutex
	tags    map[uint64]uint64
	pending map[*Promise]*pendingPromise
}

// New creates a notifier and subscribes it to the transport acknowledgments.
func New(conf *Config) *Notifier {
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	n := &Notifier{
		transport: conf.Transport,
		timeout:   conf.DeliveryTimeout,
		logger:    logger,
		metrics:   conf.Metrics,
		tags:      make(map[uint64]uint64),
		pending:   make(map[*Promise]*pendingPromise),
	}

	conf.Transport.OnDelivered(n.Delivered)

	return n
}

// nextIDs allocates one message id per link. Tags grow monotonically per link.
func (n *Notifier) nextIDs(links []uint64) []MessageID {
	n.mut.Lock()
	defer n.mut.Unlock()

	ids := make([]MessageID, len(links))

	for i, link := range links {
		n.tags[link]++
		ids[i] = MessageID{LinkCtx: link, Tag: n.tags[link]}
	}

	return ids
}

func (n *Notifier) register(p *Promise) {
	n.mut.Lock()
	n.pending[p] = &pendingPromise{
		done:    make(chan struct{}),
		started: time.Now(),
	}
	n.metrics.SetPending(len(n.pending))
	n.mut.Unlock()
}

// completeLocked releases the waiters of p if it has become empty.
func (n *Notifier) completeLocked(p *Promise) {
	pp, ok := n.pending[p]
	if !ok || !p.IsEmpty() {
		return
	}

	close(pp.done)
	delete(n.pending, p)

	n.metrics.PromiseDelivered(time.Since(pp.started))
	n.metrics.SetPending(len(n.pending))
}

// Broadcast sends the states to every open link and returns a promise that is
// fulfilled when all links acknowledge them. A link that refuses the message
// is left out of the promise. If there are no links, the promise is already
// fulfilled.
func (n *Notifier) Broadcast(ctx context.Context, states []health.HAState) (*Promise, error) {
	notes := health.Notes(states)
	ids := n.nextIDs(n.transport.Links())
	p := NewPromise(ids)

	n.metrics.BroadcastStarted()

	if len(ids) == 0 {
		level.Warn(n.logger).Log("msg", "no links to broadcast to", "states", len(states))
		return p, nil
	}

	// Acknowledgments may arrive before Send returns, so the promise must be
	// known before the first message leaves.
	n.register(p)

	errs := multierror.New[MessageID]()

	for _, id := range ids {
		err := n.transport.Send(ctx, id, notes)
		n.metrics.MessageSent(err)

		if err != nil {
			level.Warn(n.logger).Log("msg", "failed to send notes", "id", id, "err", err)
			errs.Add(id, err)
		}
	}

	if errs.Len() == 0 {
		level.Debug(n.logger).Log("msg", "notes sent", "links", len(ids), "notes", len(notes))
		return p, nil
	}

	failed := make([]MessageID, 0, errs.Len())
	for _, id := range ids {
		if _, ok := errs.Get(id); ok {
			failed = append(failed, id)
		}
	}

	if len(failed) == len(ids) {
		n.mut.Lock()
		n.forgetLocked(p)
		n.mut.Unlock()

		n.metrics.PromiseFailed()

		return nil, fmt.Errorf("failed to send notes to any link: %w", errs.Combined())
	}

	n.mut.Lock()
	p.ExcludeIDs(failed)
	n.completeLocked(p)
	n.mut.Unlock()

	return p, nil
}

// Delivered marks the messages as acknowledged. It is meant to be used as the
// transport delivery callback. Unknown, duplicate and late ids are ignored.
func (n *Notifier) Delivered(ids ...MessageID) {
	if len(ids) == 0 {
		return
	}

	n.metrics.AcksReceived(len(ids))

	n.mut.Lock()
	defer n.mut.Unlock()

	for p := range n.pending {
		p.ExcludeIDs(ids)
		n.completeLocked(p)
	}

	level.Debug(n.logger).Log("msg", "messages acknowledged", "count", len(ids), "pending", len(n.pending))
}

// Wait blocks until the promise is fulfilled or the context is done.
func (n *Notifier) Wait(ctx context.Context, p *Promise) error {
	n.mut.Lock()
	pp, ok := n.pending[p]
	n.mut.Unlock()

	if !ok {
		if p.IsEmpty() {
			return nil
		}

		return ErrUnknownPromise
	}

	select {
	case <-pp.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Forget stops tracking the promise. Waiters of a forgotten promise are not
// released; they are expected to give up by themselves.
func (n *Notifier) Forget(p *Promise) {
	n.mut.Lock()
	defer n.mut.Unlock()

	if _, ok := n.pending[p]; ok {
		n.forgetLocked(p)
		n.metrics.PromiseAbandoned()
	}
}

func (n *Notifier) forgetLocked(p *Promise) {
	delete(n.pending, p)
	n.metrics.SetPending(len(n.pending))
}

// BroadcastAndWait broadcasts the states and waits until all links acknowledge
// them, the delivery timeout expires, or ctx is done. Only an expired wait is
// reported as ErrNotDelivered; cancellation returns the context error as is.
func (n *Notifier) BroadcastAndWait(ctx context.Context, states []health.HAState) error {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)

		defer cancel()
	}

	p, err := n.Broadcast(ctx, states)
	if err != nil {
		return err
	}

	if err := n.Wait(ctx, p); err != nil {
		n.Forget(p)

		// A canceled caller is not a delivery failure.
		if errors.Is(err, context.Canceled) {
			level.Debug(n.logger).Log("msg", "stopped waiting for notes delivery", "outstanding", p, "err", err)
			return err
		}

		level.Warn(n.logger).Log("msg", "notes delivery not confirmed", "outstanding", p, "err", err)

		return fmt.Errorf("%w: %w", ErrNotDelivered, err)
	}

	return nil
}

// Pending returns the number of promises waiting for acknowledgment.
func (n *Notifier) Pending() int {
	n.mut.Lock()
	defer n.mut.Unlock()

	return len(n.pending)
}
