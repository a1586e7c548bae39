package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/test/bufconn"

	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/halink"
	"github.com/maxpoletaev/hax/health"
	"github.com/maxpoletaev/hax/internal/grpcutil"
	"github.com/maxpoletaev/hax/wire"
)

type recorder struct {
	mut   sync.Mutex
	notes []health.Note
	err   error
}

func (r *recorder) ReceiveNotes(ctx context.Context, notes []health.Note) error {
	r.mut.Lock()
	defer r.mut.Unlock()

	if r.err != nil {
		return r.err
	}

	r.notes = append(r.notes, notes...)

	return nil
}

func (r *recorder) Notes() []health.Note {
	r.mut.Lock()
	defer r.mut.Unlock()

	return append([]health.Note(nil), r.notes...)
}

// wrongTagServer answers every message with the tag of the next one.
type wrongTagServer struct {
	delay time.Duration
	mut   sync.Mutex
	calls int
}

func (s *wrongTagServer) Notify(ctx context.Context, req *wire.NotifyRequest) (*wire.NotifyResponse, error) {
	time.Sleep(s.delay)

	s.mut.Lock()
	s.calls++
	s.mut.Unlock()

	return &wire.NotifyResponse{Tag: req.Tag + 1}, nil
}

func (s *wrongTagServer) Calls() int {
	s.mut.Lock()
	defer s.mut.Unlock()

	return s.calls
}

// startPeers serves a link server per address over in-memory listeners and
// returns transport options that dial them.
func startPeers(t *testing.T, peers map[string]Receiver) *Options {
	servers := make(map[string]wire.LinkServer, len(peers))
	for addr, r := range peers {
		servers[addr] = NewServer(r, nil)
	}

	return startLinkServers(t, servers)
}

func startLinkServers(t *testing.T, servers map[string]wire.LinkServer) *Options {
	listeners := make(map[string]*bufconn.Listener, len(servers))

	for addr, ls := range servers {
		lis := bufconn.Listen(1024 * 1024)
		srv := grpc.NewServer()
		wire.RegisterLinkServer(srv, ls)

		go func() {
			_ = srv.Serve(lis)
		}()

		t.Cleanup(srv.Stop)
		listeners[addr] = lis
	}

	opts := DefaultOptions()
	opts.SendTimeout = time.Second
	opts.DialOptions = []grpc.DialOption{
		grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
			lis, ok := listeners[addr]
			if !ok {
				return nil, fmt.Errorf("no peer at %s", addr)
			}

			return lis.DialContext(ctx)
		}),
	}

	return opts
}

func testStates() []health.HAState {
	return []health.HAState{
		{Fid: fid.ObjProcess.Fid(0x15), Status: health.OK},
		{Fid: fid.ObjNode.Fid(0x3), Status: health.Offline},
	}
}

func TestTransport_Links(t *testing.T) {
	opts := startPeers(t, map[string]Receiver{
		"peer-a": &recorder{},
		"peer-b": &recorder{},
	})

	tr, err := Dial([]string{"peer-a", "peer-b"}, opts)
	require.NoError(t, err)
	defer tr.Close()

	links := tr.Links()
	require.Len(t, links, 2)
	assert.NotZero(t, links[0])
	assert.NotZero(t, links[1])
	assert.Less(t, links[0], links[1])

	addrs := make([]string, 0, 2)
	for _, l := range links {
		addr, ok := tr.Addr(l)
		require.True(t, ok)
		addrs = append(addrs, addr)
	}

	assert.ElementsMatch(t, []string{"peer-a", "peer-b"}, addrs)
}

func TestTransport_SendDelivers(t *testing.T) {
	r := &recorder{}
	opts := startPeers(t, map[string]Receiver{"peer-a": r})

	tr, err := Dial([]string{"peer-a"}, opts)
	require.NoError(t, err)
	defer tr.Close()

	acked := make(chan halink.MessageID, 1)
	tr.OnDelivered(func(ids ...halink.MessageID) {
		for _, id := range ids {
			acked <- id
		}
	})

	id := halink.MessageID{LinkCtx: tr.Links()[0], Tag: 7}
	notes := health.Notes(testStates())

	require.NoError(t, tr.Send(context.Background(), id, notes))

	select {
	case got := <-acked:
		assert.Equal(t, id, got)
	case <-time.After(5 * time.Second):
		t.Fatal("message was not acknowledged")
	}

	assert.Equal(t, notes, r.Notes())
}

func TestTransport_BroadcastAndWait(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	opts := startPeers(t, map[string]Receiver{"peer-a": a, "peer-b": b})

	tr, err := Dial([]string{"peer-a", "peer-b"}, opts)
	require.NoError(t, err)
	defer tr.Close()

	conf := halink.DefaultConfig()
	conf.Transport = tr
	conf.DeliveryTimeout = 5 * time.Second
	notifier := halink.New(conf)

	err = notifier.BroadcastAndWait(context.Background(), testStates())
	require.NoError(t, err)

	expected := health.Notes(testStates())
	assert.Equal(t, expected, a.Notes())
	assert.Equal(t, expected, b.Notes())
	assert.Equal(t, 0, notifier.Pending())
}

func TestTransport_ReceiverFailureIsNotAcknowledged(t *testing.T) {
	ok := &recorder{}
	failing := &recorder{err: errors.New("engine is busy")}
	opts := startPeers(t, map[string]Receiver{"peer-a": ok, "peer-b": failing})

	tr, err := Dial([]string{"peer-a", "peer-b"}, opts)
	require.NoError(t, err)
	defer tr.Close()

	conf := halink.DefaultConfig()
	conf.Transport = tr
	conf.DeliveryTimeout = 300 * time.Millisecond
	notifier := halink.New(conf)

	err = notifier.BroadcastAndWait(context.Background(), testStates())
	assert.ErrorIs(t, err, halink.ErrNotDelivered)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTransport_ForeignTagIsNotAcknowledged(t *testing.T) {
	peer := &wrongTagServer{}
	opts := startLinkServers(t, map[string]wire.LinkServer{"peer-a": peer})

	tr, err := Dial([]string{"peer-a"}, opts)
	require.NoError(t, err)

	var (
		mut   sync.Mutex
		acked []halink.MessageID
	)

	tr.OnDelivered(func(ids ...halink.MessageID) {
		mut.Lock()
		acked = append(acked, ids...)
		mut.Unlock()
	})

	link := tr.Links()[0]
	sent := halink.MessageID{LinkCtx: link, Tag: 1}
	unsent := halink.NewPromise([]halink.MessageID{{LinkCtx: link, Tag: 2}})

	require.NoError(t, tr.Send(context.Background(), sent, health.Notes(testStates())))
	require.Eventually(t, func() bool { return peer.Calls() == 1 }, 5*time.Second, time.Millisecond)

	// Close waits for the in-flight call to finish.
	require.NoError(t, tr.Close())

	mut.Lock()
	defer mut.Unlock()

	unsent.ExcludeIDs(acked)

	assert.Empty(t, acked)
	assert.False(t, unsent.IsEmpty())
}

func TestTransport_ForeignTagFailsDelivery(t *testing.T) {
	peer := &wrongTagServer{delay: 50 * time.Millisecond}
	opts := startLinkServers(t, map[string]wire.LinkServer{"peer-a": peer})

	tr, err := Dial([]string{"peer-a"}, opts)
	require.NoError(t, err)
	defer tr.Close()

	conf := halink.DefaultConfig()
	conf.Transport = tr
	notifier := halink.New(conf)

	// The answer to the first message carries the tag of the second one while
	// both are pending. Neither promise may complete.
	first, err := notifier.Broadcast(context.Background(), testStates())
	require.NoError(t, err)

	second, err := notifier.Broadcast(context.Background(), testStates())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return peer.Calls() == 2 }, 5*time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, notifier.Wait(ctx, second), context.DeadlineExceeded)
	assert.False(t, first.IsEmpty())
	assert.False(t, second.IsEmpty())
}

func TestTransport_UnreachablePeerLosesMessage(t *testing.T) {
	opts := startPeers(t, map[string]Receiver{})

	tr, err := Dial([]string{"nowhere"}, opts)
	require.NoError(t, err)
	defer tr.Close()

	conf := halink.DefaultConfig()
	conf.Transport = tr
	conf.DeliveryTimeout = 300 * time.Millisecond
	notifier := halink.New(conf)

	err = notifier.BroadcastAndWait(context.Background(), testStates())
	assert.ErrorIs(t, err, halink.ErrNotDelivered)
}

func TestTransport_UnknownLink(t *testing.T) {
	opts := startPeers(t, map[string]Receiver{"peer-a": &recorder{}})

	tr, err := Dial([]string{"peer-a"}, opts)
	require.NoError(t, err)
	defer tr.Close()

	var unknown uint64 = 1
	for tr.Links()[0] == unknown {
		unknown++
	}

	err = tr.Send(context.Background(), halink.MessageID{LinkCtx: unknown, Tag: 1}, nil)
	assert.ErrorIs(t, err, ErrUnknownLink)
}

func TestTransport_Closed(t *testing.T) {
	opts := startPeers(t, map[string]Receiver{"peer-a": &recorder{}})

	tr, err := Dial([]string{"peer-a"}, opts)
	require.NoError(t, err)

	link := tr.Links()[0]

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())

	assert.Empty(t, tr.Links())

	err = tr.Send(context.Background(), halink.MessageID{LinkCtx: link, Tag: 1}, nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestServer_Notify(t *testing.T) {
	tests := map[string]struct {
		receiverErr  error
		expectedCode codes.Code
	}{
		"accepted": {
			expectedCode: codes.OK,
		},
		"receiver fails": {
			receiverErr:  errors.New("boom"),
			expectedCode: codes.Internal,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := &recorder{err: tt.receiverErr}
			srv := NewServer(r, nil)

			resp, err := srv.Notify(context.Background(), &wire.NotifyRequest{
				Tag:   99,
				Notes: []*wire.Note{{Container: 0x7200000000000001, Key: 1, State: 2}},
			})

			assert.Equal(t, tt.expectedCode, grpcutil.ErrorCode(err))

			if tt.receiverErr == nil {
				require.NoError(t, err)
				assert.Equal(t, uint64(99), resp.Tag)
				assert.Equal(t, []health.Note{
					{ID: fid.New(0x7200000000000001, 1), State: health.NoteFailed},
				}, r.Notes())
			}
		})
	}
}
