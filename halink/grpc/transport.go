// Package grpc implements the HA link over gRPC: every peer is one link, and a
// Notify response carrying the request tag acknowledges the message.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/maxpoletaev/hax/halink"
	"github.com/maxpoletaev/hax/health"
	"github.com/maxpoletaev/hax/internal/generic"
	"github.com/maxpoletaev/hax/internal/grpcutil"
	"github.com/maxpoletaev/hax/internal/multierror"
	"github.com/maxpoletaev/hax/wire"
)

var (
	ErrUnknownLink = errors.New("unknown link")
	ErrClosed      = errors.New("transport is closed")
)

var _ halink.Transport = (*Transport)(nil)

type link struct {
	addr   string
	conn   *grpc.ClientConn
	client wire.LinkClient
}

// Transport maintains one gRPC connection per peer.
type Transport struct {
	opts   *Options
	logger log.Logger
	links  map[uint64]*link
	ids    []uint64
	wg     sync.WaitGroup

	mut         sync.RWMutex
	closed      bool
	onDelivered func(ids ...halink.MessageID)
}

// Dial opens a link to every address. Connections are established lazily, so
// an unreachable peer does not fail the dial; its messages are lost instead.
func Dial(addrs []string, opts *Options) (*Transport, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	t := &Transport{
		opts:   opts,
		logger: logger,
		links:  make(map[uint64]*link, len(addrs)),
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts.DialOptions...)

	for _, addr := range addrs {
		conn, err := grpc.Dial(addr, dialOpts...)
		if err != nil {
			_ = t.closeConns()
			return nil, fmt.Errorf("grpc dial %s failed: %w", addr, err)
		}

		linkCtx := t.newLinkCtx()

		t.links[linkCtx] = &link{
			addr:   addr,
			conn:   conn,
			client: wire.NewLinkClient(conn),
		}

		t.ids = append(t.ids, linkCtx)

		level.Debug(t.logger).Log("msg", "link opened", "addr", addr, "link", linkCtx)
	}

	generic.SortSlice(t.ids, false)

	return t, nil
}

// newLinkCtx picks a random link context that is non-zero and not yet taken.
func (t *Transport) newLinkCtx() uint64 {
	for {
		id := rand.Uint64()
		if _, taken := t.links[id]; id != 0 && !taken {
			return id
		}
	}
}

// Links returns the contexts of all links in ascending order.
func (t *Transport) Links() []uint64 {
	t.mut.RLock()
	defer t.mut.RUnlock()

	if t.closed {
		return nil
	}

	ids := make([]uint64, len(t.ids))
	copy(ids, t.ids)

	return ids
}

// Addr returns the peer address of the link.
func (t *Transport) Addr(linkCtx uint64) (string, bool) {
	l, ok := t.links[linkCtx]
	if !ok {
		return "", false
	}

	return l.addr, true
}

func (t *Transport) OnDelivered(f func(ids ...halink.MessageID)) {
	t.mut.Lock()
	t.onDelivered = f
	t.mut.Unlock()
}

func (t *Transport) delivered(id halink.MessageID) {
	t.mut.RLock()
	f := t.onDelivered
	t.mut.RUnlock()

	if f != nil {
		f(id)
	}
}

// Send issues the Notify call in the background and returns immediately.
func (t *Transport) Send(ctx context.Context, id halink.MessageID, notes []health.Note) error {
	l, ok := t.links[id.LinkCtx]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownLink, id.LinkCtx)
	}

	t.mut.RLock()
	defer t.mut.RUnlock()

	if t.closed {
		return ErrClosed
	}

	req := &wire.NotifyRequest{
		Tag:   id.Tag,
		Notes: wire.FromNotes(notes),
	}

	t.wg.Add(1)

	go func() {
		defer t.wg.Done()
		t.send(l, id, req)
	}()

	return nil
}

func (t *Transport) send(l *link, id halink.MessageID, req *wire.NotifyRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), t.opts.SendTimeout)
	defer cancel()

	resp, err := l.client.Notify(ctx, req)
	if err != nil {
		level.Warn(t.logger).Log(
			"msg", "message lost",
			"addr", l.addr,
			"id", id,
			"code", grpcutil.ErrorCode(err),
			"err", err,
		)

		return
	}

	// The ack only confirms the message it answers. A foreign tag proves
	// nothing about either message.
	if resp.Tag != id.Tag {
		level.Warn(t.logger).Log("msg", "acknowledged tag mismatch", "addr", l.addr, "sent", id.Tag, "acked", resp.Tag)
		return
	}

	t.delivered(id)
}

// Close waits for in-flight messages and closes all connections.
func (t *Transport) Close() error {
	t.mut.Lock()
	if t.closed {
		t.mut.Unlock()
		return nil
	}
	t.closed = true
	t.mut.Unlock()

	t.wg.Wait()

	return t.closeConns()
}

func (t *Transport) closeConns() error {
	errs := multierror.New[string]()

	for _, l := range t.links {
		if err := l.conn.Close(); err != nil {
			errs.Add(l.addr, err)
		}
	}

	return errs.Combined()
}
